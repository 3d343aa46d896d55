package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // "customer", "staff", "admin"
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Staff belong to a garage; customers carry no organization.
	OrganizationID *uint         `json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"organization,omitempty"`
}
