package emaillogs

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/autosam-rentals/backend/internal/bookings"
	"github.com/autosam-rentals/backend/internal/cars"
	"github.com/autosam-rentals/backend/internal/notify"
	"github.com/autosam-rentals/backend/pkg/response"
)

// Handler handles admin email log endpoints.
type Handler struct {
	repo        *Repository
	bookingRepo *bookings.Repository
	carRepo     *cars.Repository
	notifier    *notify.Notifier
}

// NewHandler creates an email logs handler.
func NewHandler(repo *Repository, bookingRepo *bookings.Repository, carRepo *cars.Repository, notifier *notify.Notifier) *Handler {
	return &Handler{repo: repo, bookingRepo: bookingRepo, carRepo: carRepo, notifier: notifier}
}

// List handles GET /api/admin/emails. Accepts optional booking_id and limit
// query params.
func (h *Handler) List(c *gin.Context) {
	var bookingID *int64
	if s := c.Query("booking_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid booking_id")
			return
		}
		bookingID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.repo.ListRecent(c.Request.Context(), bookingID, limit)
	if err != nil {
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, logs)
}

// Resend handles POST /api/admin/emails/:id/resend. Recomposes the email from
// the booking's current state and enqueues a fresh delivery.
func (h *Handler) Resend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid email log id")
		return
	}
	log, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "email log not found")
			return
		}
		response.Internal(c, "failed to load email log")
		return
	}
	if log.BookingID == nil {
		response.BadRequest(c, "email log has no booking to recompose from")
		return
	}
	booking, err := h.bookingRepo.GetByID(c.Request.Context(), *log.BookingID)
	if err != nil {
		if errors.Is(err, bookings.ErrNotFound) {
			response.NotFound(c, "booking not found")
			return
		}
		response.Internal(c, "failed to load booking")
		return
	}
	car, err := h.carRepo.GetByID(c.Request.Context(), booking.CarID)
	if err != nil {
		car = nil // car may have been removed; summary degrades gracefully
	}

	h.notifier.Resend(c.Request.Context(), log.EmailType, booking, car)
	response.OK(c, gin.H{"message": "resend queued"})
}
