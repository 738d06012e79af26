package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/autosam-rentals/backend/internal/models"
	"github.com/autosam-rentals/backend/pkg/queue"
)

// Enqueuer pushes email jobs onto the worker queue.
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// LogStore records queued emails for the admin audit trail.
type LogStore interface {
	Insert(ctx context.Context, log *models.EmailLog) error
}

// Notifier dispatches booking notification emails. Dispatch is fire and
// forget: every path logs failures and returns nothing, so a broken queue or
// SMTP setup can never fail the booking request that triggered it.
type Notifier struct {
	queue         Enqueuer
	logs          LogStore
	agencyName    string
	operatorEmail string
	logger        *zap.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(q Enqueuer, logs LogStore, agencyName, operatorEmail string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{queue: q, logs: logs, agencyName: agencyName, operatorEmail: operatorEmail, logger: logger}
}

// BookingReceived dispatches the two creation emails: one to the renter
// confirming receipt, one to the operator. The two are independent; either
// may fail without affecting the other.
func (n *Notifier) BookingReceived(ctx context.Context, b *models.Booking, car *models.Car) {
	subject, body := renterReceivedEmail(b, car, n.agencyName)
	n.dispatch(ctx, models.EmailTypeBookingReceivedRenter, b.ID, b.Email, subject, body)

	if n.operatorEmail != "" {
		subject, body = agencyReceivedEmail(b, car)
		n.dispatch(ctx, models.EmailTypeBookingReceivedAgency, b.ID, n.operatorEmail, subject, body)
	}
}

// StatusChanged dispatches the renter email for a status transition. No email
// fires when the status did not actually change.
func (n *Notifier) StatusChanged(ctx context.Context, b *models.Booking, prior models.BookingStatus) {
	if b.Status == prior {
		return
	}
	emailType, subject, body := statusEmail(b, n.agencyName)
	n.dispatch(ctx, emailType, b.ID, b.Email, subject, body)
}

// Resend re-dispatches a previously logged email, recomposing the body from
// the booking's current state.
func (n *Notifier) Resend(ctx context.Context, emailType string, b *models.Booking, car *models.Car) {
	switch emailType {
	case models.EmailTypeBookingReceivedRenter:
		subject, body := renterReceivedEmail(b, car, n.agencyName)
		n.dispatch(ctx, emailType, b.ID, b.Email, subject, body)
	case models.EmailTypeBookingReceivedAgency:
		if n.operatorEmail != "" {
			subject, body := agencyReceivedEmail(b, car)
			n.dispatch(ctx, emailType, b.ID, n.operatorEmail, subject, body)
		}
	default:
		emailType, subject, body := statusEmail(b, n.agencyName)
		n.dispatch(ctx, emailType, b.ID, b.Email, subject, body)
	}
}

func (n *Notifier) dispatch(ctx context.Context, emailType string, bookingID int64, recipient, subject, body string) {
	log := &models.EmailLog{
		BookingID:      &bookingID,
		EmailType:      emailType,
		RecipientEmail: recipient,
		Subject:        subject,
		Status:         models.EmailLogStatusPending,
	}
	if err := n.logs.Insert(ctx, log); err != nil {
		n.logger.Error("email log insert failed",
			zap.Error(err), zap.Int64("booking_id", bookingID), zap.String("email_type", emailType))
		return
	}
	payload := queue.EmailPayload{
		EmailType:      emailType,
		BookingID:      bookingID,
		EmailLogID:     log.ID,
		RecipientEmail: recipient,
		Subject:        subject,
		Body:           body,
	}
	if err := n.queue.EnqueueEmail(ctx, payload); err != nil {
		n.logger.Error("email enqueue failed",
			zap.Error(err), zap.Int64("booking_id", bookingID), zap.String("email_type", emailType))
	}
}
