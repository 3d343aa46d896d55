// internal/models/vehicle.go
package models

import (
	"gorm.io/gorm"
)

// OwnerKind tags how a vehicle's owner is recorded.
type OwnerKind string

const (
	OwnerRegistered OwnerKind = "registered" // references a user account
	OwnerEmbedded   OwnerKind = "embedded"   // inline contact info, no account
	OwnerNone       OwnerKind = "none"
)

type Vehicle struct {
	gorm.Model
	// Registered owner, when the owner has an account.
	OwnerID *uint `json:"owner_id,omitempty"`
	Owner   *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner,omitempty"`

	// Embedded owner contact for owners without an account.
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
	OwnerPhone string `json:"owner_phone,omitempty"`

	OrganizationID *uint `json:"organization_id,omitempty"`

	Make     string `json:"make"`
	VehModel string `gorm:"column:model" json:"model"`
	Year     int    `json:"year"`
	Plate    string `json:"plate"`
	Color    string `json:"color"`
	CarType  string `json:"car_type"`

	IsActive bool   `json:"is_active" gorm:"default:true"`
	ImageURL string `json:"image_url,omitempty"`
}

// OwnerVariant reports which ownership form this record carries. Registered
// wins when both a reference and embedded contact are present.
func (v *Vehicle) OwnerVariant() OwnerKind {
	switch {
	case v.OwnerID != nil:
		return OwnerRegistered
	case v.OwnerName != "" || v.OwnerEmail != "" || v.OwnerPhone != "":
		return OwnerEmbedded
	default:
		return OwnerNone
	}
}
