package controllers

import (
	"garage_hub/internal/config"
	"garage_hub/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetOrganization retrieves a garage by ID
func GetOrganization(c *gin.Context) {
	id := c.Param("id")
	var org models.Organization
	if err := config.DB.Preload("Vehicles").First(&org, id).Error; err != nil {
		notFoundProblem(c, "Organization not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": org})
}

// GetMyOrganization retrieves the caller's garage
func GetMyOrganization(c *gin.Context) {
	p := currentPrincipal(c)
	if p.OrgID == nil {
		notFoundProblem(c, "Organization not found")
		return
	}
	var org models.Organization
	if err := config.DB.Preload("Vehicles").First(&org, *p.OrgID).Error; err != nil {
		notFoundProblem(c, "Organization not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": org})
}

// ListOrganizations lists all garages (administrative use)
func ListOrganizations(c *gin.Context) {
	var orgs []models.Organization
	if err := config.DB.Find(&orgs).Error; err != nil {
		internalProblem(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orgs})
}

// UpdateOrganization modifies the caller's garage profile
func UpdateOrganization(c *gin.Context) {
	p := currentPrincipal(c)
	if p.OrgID == nil {
		notFoundProblem(c, "Organization not found")
		return
	}
	var org models.Organization
	if err := config.DB.First(&org, *p.OrgID).Error; err != nil {
		notFoundProblem(c, "Organization not found")
		return
	}

	var input struct {
		Name    *string `json:"name"`
		Owner   *string `json:"owner"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		validationProblem(c, err.Error())
		return
	}

	if input.Name != nil {
		org.Name = *input.Name
	}
	if input.Owner != nil {
		org.Owner = *input.Owner
	}
	if input.Email != nil {
		org.Email = *input.Email
	}
	if input.Phone != nil {
		org.Phone = *input.Phone
	}
	if input.Address != nil {
		org.Address = *input.Address
	}

	config.DB.Save(&org)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": org})
}
