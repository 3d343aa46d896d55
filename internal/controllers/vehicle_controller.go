package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"garage_hub/internal/config"
	"garage_hub/internal/imagegen"
	"garage_hub/internal/models"
	"garage_hub/internal/store"
)

// ImageGenerator is the external image provider; main wires the real client,
// tests substitute a fake.
var ImageGenerator imagegen.Generator

// CreateVehicle registers a vehicle. Staff create vehicles for their garage
// (with a registered or embedded owner); customers register their own.
func CreateVehicle(c *gin.Context) {
	var input struct {
		Make       string `json:"make" binding:"required"`
		Model      string `json:"model" binding:"required"`
		Year       int    `json:"year"`
		Plate      string `json:"plate" binding:"required"`
		Color      string `json:"color"`
		CarType    string `json:"car_type"`
		OwnerID    *uint  `json:"owner_id"`
		OwnerName  string `json:"owner_name"`
		OwnerEmail string `json:"owner_email"`
		OwnerPhone string `json:"owner_phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		validationProblem(c, "Invalid vehicle input: "+err.Error())
		return
	}

	p := currentPrincipal(c)
	vehicle := models.Vehicle{
		Make:           input.Make,
		VehModel:       input.Model,
		Year:           input.Year,
		Plate:          input.Plate,
		Color:          input.Color,
		CarType:        input.CarType,
		OrganizationID: p.OrgID,
		IsActive:       true,
	}
	if p.OrgID != nil {
		vehicle.OwnerID = input.OwnerID
		vehicle.OwnerName = input.OwnerName
		vehicle.OwnerEmail = input.OwnerEmail
		vehicle.OwnerPhone = input.OwnerPhone
	} else {
		// Customers always own the vehicles they register.
		vehicle.OwnerID = &p.UserID
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		logrus.WithError(err).Error("could not create vehicle")
		internalProblem(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": vehicle})
}

// ListVehicles returns one page of accessible vehicles. With ownerId it
// emits the minimal booking-form projection; otherwise the enriched listing.
func ListVehicles(c *gin.Context) {
	p := currentPrincipal(c)

	// Malformed numbers coerce to zero and fall back to the defaults.
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	opts := store.VehicleListOptions{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	}
	if raw := c.Query("ownerId"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			ownerID := uint(id)
			opts.OwnerID = &ownerID
		}
	}

	result, err := store.NewVehicleStore(config.DB).List(c.Request.Context(), p, opts)
	if err != nil {
		logrus.WithError(err).Error("could not list vehicles")
		internalProblem(c)
		return
	}

	var data any
	if opts.OwnerID != nil {
		options := make([]store.VehicleOption, 0, len(result.Items))
		for _, v := range result.Items {
			options = append(options, store.OptionFromVehicle(v))
		}
		data = options
	} else {
		listings := make([]store.VehicleListing, 0, len(result.Items))
		for _, v := range result.Items {
			listings = append(listings, store.ListingFromVehicle(v))
		}
		data = listings
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"total":   result.Total,
		"page":    result.Page,
		"limit":   result.Limit,
		"pages":   result.Pages,
	})
}

// GetVehicle fetches one vehicle under the access filter.
func GetVehicle(c *gin.Context) {
	p := currentPrincipal(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		notFoundProblem(c, "Vehicle not found")
		return
	}

	vehicle, err := store.NewVehicleStore(config.DB).FindAccessible(c.Request.Context(), p, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFoundProblem(c, "Vehicle not found")
		} else {
			logrus.WithError(err).Error("could not fetch vehicle")
			internalProblem(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": vehicle})
}

// UpdateVehicle applies a partial update to an accessible vehicle.
func UpdateVehicle(c *gin.Context) {
	p := currentPrincipal(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		notFoundProblem(c, "Vehicle not found")
		return
	}

	vehicle, err := store.NewVehicleStore(config.DB).FindAccessible(c.Request.Context(), p, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFoundProblem(c, "Vehicle not found")
		} else {
			logrus.WithError(err).Error("could not fetch vehicle")
			internalProblem(c)
		}
		return
	}

	var input struct {
		Make    *string `json:"make"`
		Model   *string `json:"model"`
		Year    *int    `json:"year"`
		Plate   *string `json:"plate"`
		Color   *string `json:"color"`
		CarType *string `json:"car_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		validationProblem(c, "Invalid update: "+err.Error())
		return
	}

	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.VehModel = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Plate != nil {
		vehicle.Plate = *input.Plate
	}
	if input.Color != nil {
		vehicle.Color = *input.Color
	}
	if input.CarType != nil {
		vehicle.CarType = *input.CarType
	}

	if err := config.DB.Save(vehicle).Error; err != nil {
		logrus.WithError(err).Error("could not update vehicle")
		internalProblem(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": vehicle})
}

// DeleteVehicle soft-deactivates an accessible vehicle; records are never
// hard-deleted.
func DeleteVehicle(c *gin.Context) {
	p := currentPrincipal(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		notFoundProblem(c, "Vehicle not found")
		return
	}

	vehicle, err := store.NewVehicleStore(config.DB).FindAccessible(c.Request.Context(), p, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFoundProblem(c, "Vehicle not found")
		} else {
			logrus.WithError(err).Error("could not fetch vehicle")
			internalProblem(c)
		}
		return
	}

	vehicle.IsActive = false
	if err := config.DB.Save(vehicle).Error; err != nil {
		logrus.WithError(err).Error("could not deactivate vehicle")
		internalProblem(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vehicle deactivated"})
}

// GenerateVehicleImage runs the image workflow: validate, resolve the
// vehicle under the access filter, call the provider, persist the result and
// write an audit entry.
func GenerateVehicleImage(c *gin.Context) {
	var input struct {
		VehicleID uint   `json:"vehicleId"`
		Make      string `json:"make"`
		Model     string `json:"model"`
		Year      any    `json:"year"`
		Color     string `json:"color"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		validationProblem(c, "Invalid request body")
		return
	}

	// Validation names the first failing field.
	if input.VehicleID == 0 {
		validationProblem(c, "vehicleId is required")
		return
	}
	if input.Make == "" {
		validationProblem(c, "make is required")
		return
	}
	if input.Model == "" {
		validationProblem(c, "model is required")
		return
	}
	var year int
	switch y := input.Year.(type) {
	case float64:
		year = int(y)
	case string:
		n, err := strconv.Atoi(y)
		if err != nil {
			validationProblem(c, "year must be numeric")
			return
		}
		year = n
	case nil:
		validationProblem(c, "year is required")
		return
	default:
		validationProblem(c, "year must be numeric")
		return
	}

	p := currentPrincipal(c)
	vehicles := store.NewVehicleStore(config.DB)

	vehicle, err := vehicles.FindAccessible(c.Request.Context(), p, input.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFoundProblem(c, "Vehicle not found")
		} else {
			logrus.WithError(err).Error("could not resolve vehicle for image generation")
			internalProblem(c)
		}
		return
	}

	color := input.Color
	if color == "" {
		color = vehicle.Color
	}
	if color == "" {
		color = "silver"
	}

	imageURL, err := ImageGenerator.Generate(c.Request.Context(), imagegen.Request{
		Make:  input.Make,
		Model: input.Model,
		Year:  year,
		Color: color,
	})
	if err != nil {
		if imagegen.IsRateLimited(err) {
			rateLimitedProblem(c)
			return
		}
		logrus.WithError(err).WithField("vehicle_id", vehicle.ID).Error("image generation failed")
		internalProblem(c)
		return
	}

	if err := vehicles.SetImageURL(c.Request.Context(), vehicle.ID, imageURL); err != nil {
		logrus.WithError(err).Error("could not persist generated image")
		internalProblem(c)
		return
	}

	audit := models.AuditLog{
		ActorID:        p.UserID,
		OrganizationID: p.OrgID,
		Action:         "vehicle_image_generated",
		TargetType:     "vehicle",
		TargetID:       vehicle.ID,
		Details:        fmt.Sprintf("%s %s %d", input.Make, input.Model, year),
		Result:         imageURL,
		Provider:       imagegen.ProviderName,
	}
	if err := config.DB.Create(&audit).Error; err != nil {
		// The image is already on the vehicle; log and carry on.
		logrus.WithError(err).Warn("audit write failed after image update")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Vehicle image generated",
		"data":    gin.H{"vehicleId": vehicle.ID, "imageUrl": imageURL},
	})
}

// VehicleMetrics returns the dashboard counters for the caller.
func VehicleMetrics(c *gin.Context) {
	p := currentPrincipal(c)

	m, err := store.NewVehicleStore(config.DB).Metrics(c.Request.Context(), p)
	if err != nil {
		logrus.WithError(err).Error("could not compute vehicle metrics")
		internalProblem(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totalUsers":       m.TotalOwners,
			"totalCars":        m.TotalVehicles,
			"activeCars":       m.ActiveVehicles,
			"activeUsers":      m.ActiveOwners,
			"changePercentage": m.ChangePercentage,
		},
	})
}

// ListClients returns the deduplicated client roster of the caller's garage.
func ListClients(c *gin.Context) {
	p := currentPrincipal(c)
	if p.OrgID == nil {
		validationProblem(c, "An organization is required to list clients")
		return
	}

	roster, err := store.NewVehicleStore(config.DB).ClientRoster(c.Request.Context(), *p.OrgID)
	if err != nil {
		logrus.WithError(err).Error("could not build client roster")
		internalProblem(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": roster, "total": len(roster)})
}

// ListAllVehicles is the unscoped listing for administrative use.
func ListAllVehicles(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Find(&vehicles).Error; err != nil {
		logrus.WithError(err).Error("could not list vehicles")
		internalProblem(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": vehicles})
}
