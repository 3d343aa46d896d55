// internal/models/booking.go
package models

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

type BookingSource string

const (
	BookingSourceApp    BookingSource = "app"
	BookingSourcePublic BookingSource = "public_booking"
	BookingSourceWalkIn BookingSource = "walk_in"
)

const (
	MinBookingDuration     = 15
	DefaultBookingDuration = 60
	MaxNotesLength         = 1000
)

var (
	ErrBookingNoGarage     = errors.New("booking requires an organization")
	ErrBookingNoSchedule   = errors.New("booking requires a scheduled time")
	ErrBookingShort        = errors.New("booking duration must be at least 15 minutes")
	ErrBookingNotesTooLong = errors.New("notes must not exceed 1000 characters")
	ErrBookingNoClient     = errors.New("booking requires a client reference or client contact info")
	ErrBookingClientTwice  = errors.New("booking cannot carry both a client reference and client contact info")
)

// Booking is one scheduled service visit at a garage.
type Booking struct {
	gorm.Model
	Reference string `gorm:"uniqueIndex" json:"reference"`

	// Registered client XOR embedded contact info for walk-ins / public bookings.
	ClientID    *uint  `json:"client_id,omitempty"`
	Client      *User  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`

	OrganizationID uint `gorm:"not null;index" json:"organization_id"`

	// Registered vehicle or inline vehicle details for unregistered ones.
	VehicleID    *uint    `json:"vehicle_id,omitempty"`
	Vehicle      *Vehicle `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vehicle,omitempty"`
	VehicleMake  string   `json:"vehicle_make,omitempty"`
	VehicleModel string   `json:"vehicle_model,omitempty"`
	VehicleYear  int      `json:"vehicle_year,omitempty"`
	VehiclePlate string   `json:"vehicle_plate,omitempty"`

	ScheduledAt     time.Time     `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int           `gorm:"default:60" json:"duration_minutes"`
	Status          BookingStatus `gorm:"default:'pending'" json:"status"`
	Source          BookingSource `gorm:"default:'app'" json:"source"`

	CreatedByID *uint `json:"created_by_id,omitempty"`

	ConfirmedByID *uint      `json:"confirmed_by_id,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`

	CancelledByID      *uint      `json:"cancelled_by_id,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	QuotationID     *uint  `json:"quotation_id,omitempty"`
	AnalysisID      *uint  `json:"analysis_id,omitempty"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`

	Notes         string `json:"notes,omitempty"`
	InternalNotes string `json:"internal_notes,omitempty"`

	IsActive bool `json:"is_active" gorm:"default:true"`
}

// Validate checks the structural invariants. Called from BeforeSave so a
// booking never reaches the database in an invalid shape.
func (b *Booking) Validate() error {
	if b.OrganizationID == 0 {
		return ErrBookingNoGarage
	}
	if b.ScheduledAt.IsZero() {
		return ErrBookingNoSchedule
	}
	if b.DurationMinutes < MinBookingDuration {
		return ErrBookingShort
	}
	// Characters, not bytes: multi-byte scripts count one per rune.
	if utf8.RuneCountInString(b.Notes) > MaxNotesLength || utf8.RuneCountInString(b.InternalNotes) > MaxNotesLength {
		return ErrBookingNotesTooLong
	}
	hasEmbedded := b.ClientName != "" || b.ClientEmail != "" || b.ClientPhone != ""
	if b.ClientID == nil && !hasEmbedded {
		return ErrBookingNoClient
	}
	if b.ClientID != nil && hasEmbedded {
		return ErrBookingClientTwice
	}
	return nil
}

// BeforeSave applies the declared defaults, then validates. BeforeSave runs
// ahead of BeforeCreate, so defaults must land here for validation to see
// them.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	if b.Reference == "" {
		b.Reference = uuid.NewString()
	}
	if b.DurationMinutes == 0 {
		b.DurationMinutes = DefaultBookingDuration
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	if b.Source == "" {
		b.Source = BookingSourceApp
	}
	return b.Validate()
}

// IsUpcoming reports whether the visit is still ahead and not cancelled.
func (b *Booking) IsUpcoming() bool {
	return time.Now().Before(b.ScheduledAt) && b.Status != BookingStatusCancelled
}

// IsPast is status-independent: a cancelled booking in the past is still past.
func (b *Booking) IsPast() bool {
	return time.Now().After(b.ScheduledAt)
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
}

// CanTransition reports whether moving to next is allowed from the current
// status. Completed and cancelled are terminal.
func (b *Booking) CanTransition(next BookingStatus) bool {
	for _, s := range bookingTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}
