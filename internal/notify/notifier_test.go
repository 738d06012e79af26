package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autosam-rentals/backend/internal/models"
	"github.com/autosam-rentals/backend/pkg/queue"
)

type fakeQueue struct {
	jobs []queue.EmailPayload
	err  error
}

func (f *fakeQueue) EnqueueEmail(_ context.Context, p queue.EmailPayload) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, p)
	return nil
}

type fakeLogStore struct {
	logs []*models.EmailLog
	err  error
}

func (f *fakeLogStore) Insert(_ context.Context, l *models.EmailLog) error {
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, l)
	return nil
}

func testBooking(t *testing.T) *models.Booking {
	t.Helper()
	pickup, err := models.ParseDate("2025-06-10")
	require.NoError(t, err)
	ret, err := models.ParseDate("2025-06-14")
	require.NoError(t, err)
	return &models.Booking{
		ID:           42,
		CustomerName: "Alex Renter",
		Email:        "alex@example.com",
		PickupDate:   pickup,
		ReturnDate:   ret,
		TotalPrice:   480,
		Status:       models.BookingPending,
	}
}

func TestBookingReceivedDispatchesBothEmails(t *testing.T) {
	q := &fakeQueue{}
	logs := &fakeLogStore{}
	n := NewNotifier(q, logs, "AutoSam", "ops@autosam.example", nil)

	n.BookingReceived(context.Background(), testBooking(t), &models.Car{Name: "Corolla"})

	require.Len(t, q.jobs, 2)
	require.Len(t, logs.logs, 2)
	require.Equal(t, models.EmailTypeBookingReceivedRenter, q.jobs[0].EmailType)
	require.Equal(t, "alex@example.com", q.jobs[0].RecipientEmail)
	require.Equal(t, models.EmailTypeBookingReceivedAgency, q.jobs[1].EmailType)
	require.Equal(t, "ops@autosam.example", q.jobs[1].RecipientEmail)
}

func TestBookingReceivedWithoutOperator(t *testing.T) {
	q := &fakeQueue{}
	n := NewNotifier(q, &fakeLogStore{}, "AutoSam", "", nil)

	n.BookingReceived(context.Background(), testBooking(t), nil)

	require.Len(t, q.jobs, 1)
	require.Equal(t, models.EmailTypeBookingReceivedRenter, q.jobs[0].EmailType)
}

func TestStatusChangedSkipsUnchanged(t *testing.T) {
	q := &fakeQueue{}
	n := NewNotifier(q, &fakeLogStore{}, "AutoSam", "", nil)

	b := testBooking(t)
	b.Status = models.BookingConfirmed
	n.StatusChanged(context.Background(), b, models.BookingConfirmed)
	require.Empty(t, q.jobs)

	n.StatusChanged(context.Background(), b, models.BookingPending)
	require.Len(t, q.jobs, 1)
	require.Equal(t, models.EmailTypeBookingConfirmed, q.jobs[0].EmailType)
}

func TestStatusChangedGenericUpdate(t *testing.T) {
	q := &fakeQueue{}
	n := NewNotifier(q, &fakeLogStore{}, "AutoSam", "", nil)

	b := testBooking(t)
	b.Status = models.BookingCancelled
	n.StatusChanged(context.Background(), b, models.BookingPending)

	require.Len(t, q.jobs, 1)
	require.Equal(t, models.EmailTypeStatusUpdate, q.jobs[0].EmailType)
	require.Contains(t, q.jobs[0].Body, "Cancelled")
}

func TestDispatchSkipsQueueWhenLogInsertFails(t *testing.T) {
	q := &fakeQueue{}
	logs := &fakeLogStore{err: errors.New("db down")}
	n := NewNotifier(q, logs, "AutoSam", "", nil)

	// Fire and forget: a failed audit insert drops the email silently
	// instead of failing the request.
	n.BookingReceived(context.Background(), testBooking(t), nil)
	require.Empty(t, q.jobs)
}

func TestResendRecomposesByType(t *testing.T) {
	q := &fakeQueue{}
	n := NewNotifier(q, &fakeLogStore{}, "AutoSam", "ops@autosam.example", nil)

	b := testBooking(t)
	n.Resend(context.Background(), models.EmailTypeBookingReceivedAgency, b, nil)
	require.Len(t, q.jobs, 1)
	require.Equal(t, "ops@autosam.example", q.jobs[0].RecipientEmail)

	b.Status = models.BookingConfirmed
	n.Resend(context.Background(), models.EmailTypeBookingConfirmed, b, nil)
	require.Len(t, q.jobs, 2)
	require.Equal(t, models.EmailTypeBookingConfirmed, q.jobs[1].EmailType)
	require.Equal(t, "alex@example.com", q.jobs[1].RecipientEmail)
}
