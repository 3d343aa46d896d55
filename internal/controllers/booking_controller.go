package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"garage_hub/internal/config"
	"garage_hub/internal/models"
)

type bookingInput struct {
	OrganizationID *uint  `json:"organization_id"`
	ClientID       *uint  `json:"client_id"`
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	ClientPhone    string `json:"client_phone"`

	VehicleID    *uint  `json:"vehicle_id"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  int    `json:"vehicle_year"`
	VehiclePlate string `json:"vehicle_plate"`

	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Source          string    `json:"source"`

	QuotationID     *uint  `json:"quotation_id"`
	AnalysisID      *uint  `json:"analysis_id"`
	CalendarEventID string `json:"calendar_event_id"`

	Notes         string `json:"notes"`
	InternalNotes string `json:"internal_notes"`
}

func bookingFromInput(input bookingInput) models.Booking {
	return models.Booking{
		ClientID:        input.ClientID,
		ClientName:      input.ClientName,
		ClientEmail:     input.ClientEmail,
		ClientPhone:     input.ClientPhone,
		VehicleID:       input.VehicleID,
		VehicleMake:     input.VehicleMake,
		VehicleModel:    input.VehicleModel,
		VehicleYear:     input.VehicleYear,
		VehiclePlate:    input.VehiclePlate,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		QuotationID:     input.QuotationID,
		AnalysisID:      input.AnalysisID,
		CalendarEventID: input.CalendarEventID,
		Notes:           input.Notes,
		InternalNotes:   input.InternalNotes,
		IsActive:        true,
	}
}

// CreateBooking books a service visit for an authenticated caller. Staff may
// record walk-ins with embedded client info; customers book for themselves.
func CreateBooking(c *gin.Context) {
	var input bookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationProblem(c, "Invalid booking input: "+err.Error())
		return
	}

	p := currentPrincipal(c)
	booking := bookingFromInput(input)
	booking.CreatedByID = &p.UserID
	booking.Source = models.BookingSourceApp
	if p.OrgID != nil && input.Source == string(models.BookingSourceWalkIn) {
		booking.Source = models.BookingSourceWalkIn
	}

	if input.OrganizationID != nil {
		booking.OrganizationID = *input.OrganizationID
	} else if p.OrgID != nil {
		booking.OrganizationID = *p.OrgID
	}

	// A customer booking without explicit client info is for themselves.
	if booking.ClientID == nil && booking.ClientName == "" &&
		booking.ClientEmail == "" && booking.ClientPhone == "" && p.OrgID == nil {
		booking.ClientID = &p.UserID
	}

	if err := config.DB.Create(&booking).Error; err != nil {
		respondBookingSaveError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
}

// CreatePublicBooking accepts an unauthenticated booking from the public
// booking page. Embedded client contact info is mandatory here.
func CreatePublicBooking(c *gin.Context) {
	var input bookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationProblem(c, "Invalid booking input: "+err.Error())
		return
	}
	if input.OrganizationID == nil {
		validationProblem(c, "organization_id is required")
		return
	}
	if input.ClientName == "" || (input.ClientEmail == "" && input.ClientPhone == "") {
		validationProblem(c, "client name and a phone or email are required")
		return
	}

	booking := bookingFromInput(input)
	booking.ClientID = nil
	booking.OrganizationID = *input.OrganizationID
	booking.Source = models.BookingSourcePublic

	if err := config.DB.Create(&booking).Error; err != nil {
		respondBookingSaveError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
}

// scopedBookingQuery restricts bookings to what the caller may see: their
// garage's bookings for staff, their own for customers.
func scopedBookingQuery(c *gin.Context) *gorm.DB {
	p := currentPrincipal(c)
	q := config.DB.WithContext(c.Request.Context()).Model(&models.Booking{})
	if p.OrgID != nil {
		return q.Where("organization_id = ?", *p.OrgID)
	}
	return q.Where("client_id = ?", p.UserID)
}

// ListBookings returns one page of the caller's bookings, newest first.
func ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = 10
	}

	q := scopedBookingQuery(c).Where("is_active = ?", true)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logrus.WithError(err).Error("could not count bookings")
		internalProblem(c)
		return
	}

	bookings := make([]models.Booking, 0)
	err := q.Preload("Client").Preload("Vehicle").
		Order("scheduled_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		logrus.WithError(err).Error("could not list bookings")
		internalProblem(c)
		return
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
		"total":   total,
		"page":    page,
		"limit":   limit,
		"pages":   pages,
	})
}

// GetBooking fetches one booking the caller may see.
func GetBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		notFoundProblem(c, "Booking not found")
		return
	}

	var booking models.Booking
	err = scopedBookingQuery(c).Preload("Client").Preload("Vehicle").
		Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFoundProblem(c, "Booking not found")
		} else {
			logrus.WithError(err).Error("could not fetch booking")
			internalProblem(c)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

// garageBooking loads a booking belonging to the caller's garage. Transition
// endpoints are garage-side operations.
func garageBooking(c *gin.Context) (*models.Booking, bool) {
	p := currentPrincipal(c)
	if p.OrgID == nil {
		notFoundProblem(c, "Booking not found")
		return nil, false
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		notFoundProblem(c, "Booking not found")
		return nil, false
	}

	var booking models.Booking
	err = config.DB.Where("id = ? AND organization_id = ?", id, *p.OrgID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFoundProblem(c, "Booking not found")
		} else {
			logrus.WithError(err).Error("could not fetch booking")
			internalProblem(c)
		}
		return nil, false
	}
	return &booking, true
}

func saveTransition(c *gin.Context, booking *models.Booking, next models.BookingStatus) {
	if !booking.CanTransition(next) {
		conflictProblem(c, "Booking cannot move from "+string(booking.Status)+" to "+string(next))
		return
	}
	booking.Status = next
	if err := config.DB.Save(booking).Error; err != nil {
		logrus.WithError(err).Error("could not update booking status")
		internalProblem(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

// ConfirmBooking moves a pending booking to confirmed, stamping the actor.
func ConfirmBooking(c *gin.Context) {
	booking, ok := garageBooking(c)
	if !ok {
		return
	}
	p := currentPrincipal(c)
	now := time.Now()
	booking.ConfirmedByID = &p.UserID
	booking.ConfirmedAt = &now
	saveTransition(c, booking, models.BookingStatusConfirmed)
}

// StartBooking moves a booking to in_progress when the vehicle arrives.
func StartBooking(c *gin.Context) {
	booking, ok := garageBooking(c)
	if !ok {
		return
	}
	saveTransition(c, booking, models.BookingStatusInProgress)
}

// CancelBooking cancels a booking, recording the reason and actor. Customers
// may cancel their own bookings; staff those of their garage.
func CancelBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		notFoundProblem(c, "Booking not found")
		return
	}

	var booking models.Booking
	if err := scopedBookingQuery(c).Where("id = ?", id).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFoundProblem(c, "Booking not found")
		} else {
			logrus.WithError(err).Error("could not fetch booking")
			internalProblem(c)
		}
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a missing reason is allowed.
	_ = c.ShouldBindJSON(&input)

	p := currentPrincipal(c)
	now := time.Now()
	booking.CancelledByID = &p.UserID
	booking.CancelledAt = &now
	booking.CancellationReason = input.Reason
	saveTransition(c, &booking, models.BookingStatusCancelled)
}

// CompleteBooking closes out an in-progress booking.
func CompleteBooking(c *gin.Context) {
	booking, ok := garageBooking(c)
	if !ok {
		return
	}
	now := time.Now()
	booking.CompletedAt = &now
	saveTransition(c, booking, models.BookingStatusCompleted)
}

// DeleteBooking soft-deactivates a booking; nothing is ever hard-deleted.
func DeleteBooking(c *gin.Context) {
	booking, ok := garageBooking(c)
	if !ok {
		return
	}
	booking.IsActive = false
	if err := config.DB.Save(booking).Error; err != nil {
		logrus.WithError(err).Error("could not deactivate booking")
		internalProblem(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking deactivated"})
}

// respondBookingSaveError maps the model's validation errors to 400 and
// everything else to 500.
func respondBookingSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrBookingNoGarage),
		errors.Is(err, models.ErrBookingNoSchedule),
		errors.Is(err, models.ErrBookingShort),
		errors.Is(err, models.ErrBookingNotesTooLong),
		errors.Is(err, models.ErrBookingNoClient),
		errors.Is(err, models.ErrBookingClientTwice):
		validationProblem(c, err.Error())
	default:
		logrus.WithError(err).Error("could not save booking")
		internalProblem(c)
	}
}
