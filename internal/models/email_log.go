package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailType for booking notifications.
const (
	EmailTypeBookingReceivedRenter = "booking_received_renter"
	EmailTypeBookingReceivedAgency = "booking_received_agency"
	EmailTypeBookingConfirmed      = "booking_confirmed"
	EmailTypeStatusUpdate          = "status_update"
)

// EmailLogStatus for delivery.
const (
	EmailLogStatusPending = "pending"
	EmailLogStatusSent    = "sent"
	EmailLogStatusFailed  = "failed"
)

// EmailLog records notification emails queued for delivery.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	BookingID      *int64     `json:"booking_id,omitempty"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
