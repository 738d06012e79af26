package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is an admin-managed discount. Promotions without a code are
// display-only. CarID nil means the promotion applies to any car.
// "Currently valid" is derived from the window and is_active, never stored.
type Promotion struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	TitleFr         string     `json:"title_fr,omitempty"`
	Description     string     `json:"description,omitempty"`
	DescriptionFr   string     `json:"description_fr,omitempty"`
	DiscountPercent *float64   `json:"discount_percent,omitempty"`
	DiscountAmount  *float64   `json:"discount_amount,omitempty"`
	Code            *string    `json:"code,omitempty"`
	StartDate       *Date      `json:"start_date,omitempty"` // nil = always started
	EndDate         Date       `json:"end_date"`
	IsActive        bool       `json:"is_active"`
	CarID           *uuid.UUID `json:"car_id,omitempty"` // nil = any car
	DisplayOrder    int        `json:"display_order"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Apply returns the subtotal after the promotion's discount. When both a
// percentage and a flat amount are present, the percentage wins. Flat
// discounts floor at zero.
func (p *Promotion) Apply(subtotal float64) float64 {
	if p.DiscountPercent != nil && *p.DiscountPercent > 0 {
		return subtotal * (1 - *p.DiscountPercent/100)
	}
	if p.DiscountAmount != nil && *p.DiscountAmount > 0 {
		out := subtotal - *p.DiscountAmount
		if out < 0 {
			return 0
		}
		return out
	}
	return subtotal
}

// InWindow reports whether the promotion window covers the given date:
// start_date (when set) <= today AND end_date >= today.
func (p *Promotion) InWindow(today Date) bool {
	if p.StartDate != nil && p.StartDate.After(today) {
		return false
	}
	return !p.EndDate.Before(today)
}
