// internal/models/organization.go
package models

import (
	"gorm.io/gorm"
)

// Organization represents a garage operating service bookings
// for the vehicles registered with it.
type Organization struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex" json:"user_id"`

	Name    string `json:"name" binding:"required"`
	Owner   string `json:"owner" binding:"required"`
	Email   string `gorm:"unique;not null" json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	Vehicles []Vehicle `gorm:"foreignKey:OrganizationID" json:"vehicles,omitempty"`
}
