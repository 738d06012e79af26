package notify

import (
	"fmt"
	"strings"

	"github.com/autosam-rentals/backend/internal/models"
)

// bookingSummary renders the lines shared by every booking email.
func bookingSummary(b *models.Booking, car *models.Car) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking #%d\n", b.ID)
	if car != nil {
		fmt.Fprintf(&sb, "Car: %s (%s)\n", car.Name, car.Category)
	}
	fmt.Fprintf(&sb, "Pickup: %s at %s\n", b.PickupDate, b.PickupLocation)
	fmt.Fprintf(&sb, "Return: %s at %s\n", b.ReturnDate, b.DropoffLocation)
	fmt.Fprintf(&sb, "Total: %.2f\n", b.TotalPrice)
	return sb.String()
}

// renterReceivedEmail confirms receipt of a new booking to the renter.
func renterReceivedEmail(b *models.Booking, car *models.Car, agencyName string) (subject, body string) {
	subject = fmt.Sprintf("%s — booking request received", agencyName)
	body = fmt.Sprintf("Hello %s,\n\nWe received your booking request. Our team will review it shortly.\n\n%s\nStatus: %s\n\n%s",
		b.CustomerName, bookingSummary(b, car), b.Status.DisplayLabel(), agencyName)
	return subject, body
}

// agencyReceivedEmail notifies the operator of a new booking.
func agencyReceivedEmail(b *models.Booking, car *models.Car) (subject, body string) {
	subject = fmt.Sprintf("New booking #%d — %s", b.ID, b.CustomerName)
	body = fmt.Sprintf("A new booking was created.\n\n%sCustomer: %s <%s> (%s)\nLicense: %s\n",
		bookingSummary(b, car), b.CustomerName, b.Email, b.Phone, b.LicenseNumber)
	if b.Notes != "" {
		body += "Notes: " + b.Notes + "\n"
	}
	return subject, body
}

// statusEmail builds the renter email for a status change. Confirmation gets
// its own flavor; every other change carries the display label and UI color
// hint for the recipient.
func statusEmail(b *models.Booking, agencyName string) (emailType, subject, body string) {
	if b.Status == models.BookingConfirmed {
		subject = fmt.Sprintf("%s — booking #%d confirmed", agencyName, b.ID)
		body = fmt.Sprintf("Hello %s,\n\nGood news: your booking is confirmed.\n\n%s\n%s",
			b.CustomerName, bookingSummary(b, nil), agencyName)
		return models.EmailTypeBookingConfirmed, subject, body
	}
	subject = fmt.Sprintf("%s — booking #%d update: %s", agencyName, b.ID, b.Status.DisplayLabel())
	body = fmt.Sprintf("Hello %s,\n\nYour booking status changed to %s.\nStatus-Color: %s\n\n%s\n%s",
		b.CustomerName, b.Status.DisplayLabel(), b.Status.ColorHint(), bookingSummary(b, nil), agencyName)
	return models.EmailTypeStatusUpdate, subject, body
}
