package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"garage_hub/internal/config"
	"garage_hub/internal/models"
)

func newBookingRouter(t *testing.T, db *gorm.DB, userID uint, orgID *uint, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.DB = db

	r := gin.New()
	public := r.Group("/public")
	public.POST("/bookings", CreatePublicBooking)

	authed := r.Group("/bookings")
	authed.Use(authAs(userID, orgID, role))
	authed.POST("", CreateBooking)
	authed.GET("", ListBookings)
	authed.GET("/:id", GetBooking)
	authed.POST("/:id/confirm", ConfirmBooking)
	authed.POST("/:id/start", StartBooking)
	authed.POST("/:id/cancel", CancelBooking)
	authed.POST("/:id/complete", CompleteBooking)
	authed.DELETE("/:id", DeleteBooking)
	return r
}

func seedBooking(t *testing.T, db *gorm.DB, orgID uint, status models.BookingStatus) models.Booking {
	t.Helper()
	b := models.Booking{
		OrganizationID: orgID,
		ClientName:     "Jane Mwangi",
		ClientPhone:    "+254700000001",
		ScheduledAt:    time.Now().Add(48 * time.Hour),
		Status:         status,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func TestCreateBookingDefaults(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")

	scheduled := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	w := doJSON(r, http.MethodPost, "/bookings",
		fmt.Sprintf(`{"client_name":"Walk In","client_phone":"+254711000001","scheduled_at":%q}`, scheduled))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b models.Booking
	require.NoError(t, db.First(&b).Error)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.DefaultBookingDuration, b.DurationMinutes)
	assert.Equal(t, models.BookingSourceApp, b.Source)
	assert.Equal(t, uint(10), b.OrganizationID)
	assert.NotEmpty(t, b.Reference)
	require.NotNil(t, b.CreatedByID)
	assert.Equal(t, uint(7), *b.CreatedByID)
}

func TestCreateBookingWalkInSource(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")

	scheduled := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	w := doJSON(r, http.MethodPost, "/bookings",
		fmt.Sprintf(`{"client_name":"Drop In","client_phone":"+254711000002","scheduled_at":%q,"source":"walk_in"}`, scheduled))
	require.Equal(t, http.StatusCreated, w.Code)

	var b models.Booking
	require.NoError(t, db.First(&b).Error)
	assert.Equal(t, models.BookingSourceWalkIn, b.Source)
}

func TestCreateBookingRejectsShortDuration(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")

	scheduled := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	w := doJSON(r, http.MethodPost, "/bookings",
		fmt.Sprintf(`{"client_name":"Jane","client_phone":"+254700000001","scheduled_at":%q,"duration_minutes":10}`, scheduled))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decodeBody(t, w)["type"])

	var n int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestCreateBookingCustomerBooksSelf(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 3, nil, "customer")

	scheduled := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	w := doJSON(r, http.MethodPost, "/bookings",
		fmt.Sprintf(`{"organization_id":10,"scheduled_at":%q}`, scheduled))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b models.Booking
	require.NoError(t, db.First(&b).Error)
	require.NotNil(t, b.ClientID)
	assert.Equal(t, uint(3), *b.ClientID)
}

func TestCreatePublicBooking(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 0, nil, "")
	config.DB = db

	scheduled := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)

	// Missing organization is a client error.
	w := doJSON(r, http.MethodPost, "/public/bookings",
		fmt.Sprintf(`{"client_name":"Visitor","client_phone":"+254722000001","scheduled_at":%q}`, scheduled))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing contact info is a client error.
	w = doJSON(r, http.MethodPost, "/public/bookings",
		fmt.Sprintf(`{"organization_id":10,"scheduled_at":%q}`, scheduled))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/public/bookings",
		fmt.Sprintf(`{"organization_id":10,"client_name":"Visitor","client_phone":"+254722000001","scheduled_at":%q}`, scheduled))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b models.Booking
	require.NoError(t, db.First(&b).Error)
	assert.Equal(t, models.BookingSourcePublic, b.Source)
	assert.Nil(t, b.ClientID)
}

func TestBookingLifecycle(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")

	b := seedBooking(t, db, 10, models.BookingStatusPending)

	// Completing a pending booking is not allowed.
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/complete", b.ID), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decodeBody(t, w)["type"])

	// Confirm stamps the actor and timestamp.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/confirm", b.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var confirmed models.Booking
	require.NoError(t, db.First(&confirmed, b.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedByID)
	assert.Equal(t, uint(7), *confirmed.ConfirmedByID)
	assert.NotNil(t, confirmed.ConfirmedAt)

	// Start, then complete.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/start", b.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/complete", b.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	var completed models.Booking
	require.NoError(t, db.First(&completed, b.ID).Error)
	assert.Equal(t, models.BookingStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Completed is terminal.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/cancel", b.ID), `{"reason":"late"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelBookingRecordsReason(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")

	b := seedBooking(t, db, 10, models.BookingStatusPending)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/cancel", b.ID), `{"reason":"client requested"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cancelled models.Booking
	require.NoError(t, db.First(&cancelled, b.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, "client requested", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledByID)
	assert.Equal(t, uint(7), *cancelled.CancelledByID)
	assert.NotNil(t, cancelled.CancelledAt)
}

func TestBookingScoping(t *testing.T) {
	db := newTestDB(t)
	other := seedBooking(t, db, 20, models.BookingStatusPending)

	// Staff of garage 10 cannot see or touch garage 20's booking.
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")
	w := doJSON(r, http.MethodGet, fmt.Sprintf("/bookings/%d", other.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/confirm", other.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var untouched models.Booking
	require.NoError(t, db.First(&untouched, other.ID).Error)
	assert.Equal(t, models.BookingStatusPending, untouched.Status)
}

// A broken datastore is a 500, not a 404: "not found" is reserved for
// records that genuinely are not there.
func TestGetBookingReportsStoreFailure(t *testing.T) {
	db := newTestDB(t)
	b := seedBooking(t, db, 10, models.BookingStatusPending)
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/bookings/%d", b.ID), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decodeBody(t, w)["type"])

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%d/confirm", b.ID), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decodeBody(t, w)["type"])
}

func TestDeleteBookingSoftDeactivates(t *testing.T) {
	db := newTestDB(t)
	r := newBookingRouter(t, db, 7, uintPtr(10), "staff")

	b := seedBooking(t, db, 10, models.BookingStatusPending)
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/bookings/%d", b.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	// Soft-deactivated, never removed.
	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, b.ID).Error)
	assert.False(t, reloaded.IsActive)

	// Inactive bookings drop out of the listing.
	w = doJSON(r, http.MethodGet, "/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 0)
}
