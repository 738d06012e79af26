package bookings

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autosam-rentals/backend/internal/cars"
	"github.com/autosam-rentals/backend/internal/middleware"
	"github.com/autosam-rentals/backend/internal/models"
	"github.com/autosam-rentals/backend/internal/notify"
	"github.com/autosam-rentals/backend/pkg/response"
)

// CreateRequest is the body for POST /api/bookings.
type CreateRequest struct {
	CarID           string  `json:"car_id" binding:"required,uuid"`
	CustomerName    string  `json:"customer_name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           string  `json:"phone" binding:"required"`
	LicenseNumber   string  `json:"license_number" binding:"required"`
	PickupLocation  string  `json:"pickup_location" binding:"required"`
	DropoffLocation string  `json:"dropoff_location" binding:"required"`
	PickupDate      string  `json:"pickup_date" binding:"required"`
	ReturnDate      string  `json:"return_date" binding:"required"`
	TotalPrice      float64 `json:"total_price" binding:"required,gt=0"`
	Notes           string  `json:"notes"`
	Language        string  `json:"language"`
}

// SetStatusRequest is the body for PUT /api/admin/bookings/:id/status.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	repo     *Repository
	carRepo  *cars.Repository
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewHandler creates a bookings handler.
func NewHandler(repo *Repository, carRepo *cars.Repository, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, carRepo: carRepo, notifier: notifier, logger: logger}
}

// parseRange validates and parses a pickup/return date pair. Zero-night
// bookings (return == pickup) are rejected; the backend is the source of
// truth for this policy.
func parseRange(pickupStr, returnStr string) (pickup, ret models.Date, errMsg string) {
	pickup, err := models.ParseDate(pickupStr)
	if err != nil {
		return pickup, ret, err.Error()
	}
	ret, err = models.ParseDate(returnStr)
	if err != nil {
		return pickup, ret, err.Error()
	}
	if !ret.After(pickup) {
		return pickup, ret, "return_date must be after pickup_date"
	}
	return pickup, ret, ""
}

// Create handles POST /api/bookings. Auth is optional; an authenticated
// request attaches the user as booking owner, otherwise the booking is a
// guest booking keyed by contact email.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		response.BadRequest(c, "invalid car id")
		return
	}
	pickup, ret, errMsg := parseRange(req.PickupDate, req.ReturnDate)
	if errMsg != "" {
		response.BadRequest(c, errMsg)
		return
	}

	car, err := h.carRepo.GetByID(c.Request.Context(), carID)
	if err != nil {
		if errors.Is(err, cars.ErrNotFound) {
			response.NotFound(c, "car not found")
			return
		}
		response.Internal(c, "failed to load car")
		return
	}
	if !car.Available {
		response.Conflict(c, "car is not available for booking")
		return
	}

	language := req.Language
	if language == "" {
		language = "en"
	}
	booking := &models.Booking{
		CarID:           carID,
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		LicenseNumber:   req.LicenseNumber,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		PickupDate:      pickup,
		ReturnDate:      ret,
		TotalPrice:      req.TotalPrice,
		Notes:           req.Notes,
		Language:        language,
	}
	if userID, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := userID.(uuid.UUID); ok {
			booking.UserID = &id
		}
	}

	if err := h.repo.Create(c.Request.Context(), booking); err != nil {
		if errors.Is(err, ErrDateConflict) {
			response.Conflict(c, "car already booked for the requested dates")
			return
		}
		h.logger.Error("create booking failed", zap.Error(err), zap.String("car_id", carID.String()))
		response.Internal(c, "failed to create booking")
		return
	}

	h.notifier.BookingReceived(c.Request.Context(), booking, car)
	response.Created(c, booking)
}

// CheckAvailability handles GET /api/cars/:id/availability?pickup_date=&return_date=.
func (h *Handler) CheckAvailability(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car id")
		return
	}
	pickup, ret, errMsg := parseRange(c.Query("pickup_date"), c.Query("return_date"))
	if errMsg != "" {
		response.BadRequest(c, errMsg)
		return
	}
	overlapping, err := h.repo.IsOverlapping(c.Request.Context(), carID, pickup, ret)
	if err != nil {
		response.Internal(c, "failed to check availability")
		return
	}
	response.OK(c, gin.H{"available": !overlapping})
}

// MyBookings handles GET /api/bookings/my-bookings.
func (h *Handler) MyBookings(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	email := c.GetString(middleware.ContextUserEmail)
	list, err := h.repo.ListByUser(c.Request.Context(), userID, email)
	if err != nil {
		response.Internal(c, "failed to list bookings")
		return
	}
	response.OK(c, list)
}

// Cancel handles POST /api/bookings/:id/cancel. Owners may cancel their own
// pending or confirmed booking; this is the same cancelled transition the
// admin uses, authorization-scoped to the owner.
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}
	userID, ok := userFromContext(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}

	booking, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "booking not found")
			return
		}
		response.Internal(c, "failed to load booking")
		return
	}
	email := c.GetString(middleware.ContextUserEmail)
	owns := (booking.UserID != nil && *booking.UserID == userID) || (booking.UserID == nil && booking.Email == email)
	if !owns {
		response.Forbidden(c, "not your booking")
		return
	}

	h.applyStatus(c, id, models.BookingCancelled)
}

// List handles GET /api/admin/bookings?status=.
func (h *Handler) List(c *gin.Context) {
	var status models.BookingStatus
	if s := c.Query("status"); s != "" {
		parsed, ok := models.ParseBookingStatus(s)
		if !ok {
			response.BadRequest(c, "invalid status")
			return
		}
		status = parsed
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to list bookings")
		return
	}
	response.OK(c, list)
}

// SetStatus handles PUT /api/admin/bookings/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status required")
		return
	}
	status, valid := models.ParseBookingStatus(req.Status)
	if !valid {
		response.BadRequest(c, "invalid status")
		return
	}
	h.applyStatus(c, id, status)
}

// applyStatus performs the transition and fires the status email only when
// the status actually changed.
func (h *Handler) applyStatus(c *gin.Context, id int64, status models.BookingStatus) {
	prior, booking, err := h.repo.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "booking not found")
		case errors.Is(err, ErrInvalidTransition):
			response.BadRequest(c, "cannot transition from "+string(prior)+" to "+string(status))
		default:
			h.logger.Error("set status failed", zap.Error(err), zap.Int64("booking_id", id))
			response.Internal(c, "failed to update status")
		}
		return
	}

	h.notifier.StatusChanged(c.Request.Context(), booking, prior)
	response.OK(c, gin.H{"booking": booking, "prior_status": prior})
}

// Delete handles DELETE /api/admin/bookings/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "booking not found")
			return
		}
		response.Internal(c, "failed to delete booking")
		return
	}
	response.NoContent(c)
}

func parseBookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid booking id")
		return 0, false
	}
	return id, true
}

func userFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
