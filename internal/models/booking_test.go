package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted} {
		got, ok := ParseBookingStatus(string(s))
		require.True(t, ok)
		require.Equal(t, s, got)
	}
	_, ok := ParseBookingStatus("archived")
	require.False(t, ok)
	_, ok = ParseBookingStatus("")
	require.False(t, ok)
}

func TestBookingStatusBlocking(t *testing.T) {
	require.True(t, BookingPending.Blocking())
	require.True(t, BookingConfirmed.Blocking())
	require.False(t, BookingCancelled.Blocking())
	require.False(t, BookingCompleted.Blocking())
}

func TestCanTransitionTo(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}

	allowed := map[BookingStatus][]BookingStatus{
		BookingPending:   {BookingConfirmed, BookingCancelled},
		BookingConfirmed: {BookingCompleted, BookingCancelled},
		BookingCancelled: {},
		BookingCompleted: {},
	}

	for _, from := range all {
		for _, to := range all {
			want := from == to // same-status is always a no-op
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			require.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingOverlapsRange(t *testing.T) {
	b := &Booking{
		PickupDate: mustDate(t, "2025-06-10"),
		ReturnDate: mustDate(t, "2025-06-14"),
	}
	require.True(t, b.OverlapsRange(mustDate(t, "2025-06-14"), mustDate(t, "2025-06-16")))
	require.True(t, b.OverlapsRange(mustDate(t, "2025-06-08"), mustDate(t, "2025-06-10")))
	require.False(t, b.OverlapsRange(mustDate(t, "2025-06-15"), mustDate(t, "2025-06-18")))
}
