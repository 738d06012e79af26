package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ParseBookingStatus validates a wire status string.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	st := BookingStatus(s)
	switch st {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return st, true
	}
	return "", false
}

// Blocking reports whether bookings in this status count toward
// availability conflicts.
func (s BookingStatus) Blocking() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Terminal reports whether no further transition is permitted.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// next: pending -> confirmed|cancelled, confirmed -> completed|cancelled.
// Setting the current status again is an idempotent no-op and always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	}
	return false
}

// DisplayLabel returns the human label used in notification emails.
func (s BookingStatus) DisplayLabel() string {
	switch s {
	case BookingPending:
		return "Pending"
	case BookingConfirmed:
		return "Confirmed"
	case BookingCancelled:
		return "Cancelled"
	case BookingCompleted:
		return "Completed"
	}
	return string(s)
}

// ColorHint returns the UI color associated with the status, embedded in
// status-update emails.
func (s BookingStatus) ColorHint() string {
	switch s {
	case BookingPending:
		return "#f59e0b"
	case BookingConfirmed:
		return "#22c55e"
	case BookingCancelled:
		return "#ef4444"
	case BookingCompleted:
		return "#3b82f6"
	}
	return "#6b7280"
}

// Booking is a car reservation over an inclusive date range
// [pickup_date, return_date]. Car and date fields are never mutated in
// place; only the status changes after creation.
type Booking struct {
	ID              int64         `json:"id"`
	CarID           uuid.UUID     `json:"car_id"`
	UserID          *uuid.UUID    `json:"user_id,omitempty"` // nil for guest bookings
	CustomerName    string        `json:"customer_name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	LicenseNumber   string        `json:"license_number"`
	PickupLocation  string        `json:"pickup_location"`
	DropoffLocation string        `json:"dropoff_location"`
	PickupDate      Date          `json:"pickup_date"`
	ReturnDate      Date          `json:"return_date"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	Notes           string        `json:"notes,omitempty"`
	Language        string        `json:"language,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OverlapsRange reports whether the booking's inclusive window intersects
// [pickup, ret].
func (b *Booking) OverlapsRange(pickup, ret Date) bool {
	return RangesOverlap(b.PickupDate, b.ReturnDate, pickup, ret)
}
