// internal/models/auditlog.go
package models

import (
	"gorm.io/gorm"
)

// AuditLog records who did what to which record. Append-only.
type AuditLog struct {
	gorm.Model
	ActorID        uint   `gorm:"index" json:"actor_id"`
	OrganizationID *uint  `gorm:"index" json:"organization_id,omitempty"`
	Action         string `gorm:"index" json:"action"` // e.g. "vehicle_image_generated"
	TargetType     string `json:"target_type"`
	TargetID       uint   `json:"target_id"`
	Details        string `json:"details,omitempty"`
	Result         string `json:"result,omitempty"`
	Provider       string `json:"provider,omitempty"`
}
