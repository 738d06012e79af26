package models

import (
	"time"

	"github.com/google/uuid"
)

// Car categories.
const (
	CategoryEconomy = "Economy"
	CategoryCompact = "Compact"
	CategorySUV     = "SUV"
	CategoryLuxury  = "Luxury"
)

// Transmission kinds.
const (
	TransmissionManual    = "Manual"
	TransmissionAutomatic = "Automatic"
)

// Fuel kinds.
const (
	FuelPetrol   = "Petrol"
	FuelDiesel   = "Diesel"
	FuelHybrid   = "Hybrid"
	FuelElectric = "Electric"
)

// ValidCategory reports whether s is a known car category.
func ValidCategory(s string) bool {
	switch s {
	case CategoryEconomy, CategoryCompact, CategorySUV, CategoryLuxury:
		return true
	}
	return false
}

// ValidTransmission reports whether s is a known transmission kind.
func ValidTransmission(s string) bool {
	return s == TransmissionManual || s == TransmissionAutomatic
}

// ValidFuel reports whether s is a known fuel kind.
func ValidFuel(s string) bool {
	switch s {
	case FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric:
		return true
	}
	return false
}

// Car is a rental fleet vehicle. Available is an admin-managed flag,
// independent of whether bookings currently cover the car.
type Car struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	PricePerDay  float64    `json:"price_per_day"`
	Seats        int        `json:"seats"`
	Transmission string     `json:"transmission"`
	Fuel         string     `json:"fuel"`
	Available    bool       `json:"available"`
	Images       []CarImage `json:"images,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CarImage is an S3-backed car photo. Exactly one image per car should be
// primary; secondary images are ordered by Position.
type CarImage struct {
	ID        uuid.UUID `json:"id"`
	CarID     uuid.UUID `json:"car_id"`
	URL       string    `json:"url"`
	S3Key     string    `json:"-"`
	IsPrimary bool      `json:"is_primary"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
