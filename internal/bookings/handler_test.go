package bookings

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	pickup, ret, errMsg := parseRange("2025-06-10", "2025-06-14")
	require.Empty(t, errMsg)
	require.Equal(t, "2025-06-10", pickup.String())
	require.Equal(t, "2025-06-14", ret.String())

	_, _, errMsg = parseRange("garbage", "2025-06-14")
	require.NotEmpty(t, errMsg)

	_, _, errMsg = parseRange("2025-06-10", "10-06-2025")
	require.NotEmpty(t, errMsg)

	// Same-day rentals are rejected; a booking must span at least one night.
	_, _, errMsg = parseRange("2025-06-10", "2025-06-10")
	require.Equal(t, "return_date must be after pickup_date", errMsg)

	_, _, errMsg = parseRange("2025-06-14", "2025-06-10")
	require.Equal(t, "return_date must be after pickup_date", errMsg)
}

func TestConflictOr(t *testing.T) {
	require.Equal(t, ErrDateConflict, conflictOr(&pgconn.PgError{Code: pgSerializationFailure}))
	require.Equal(t, ErrDateConflict, conflictOr(&pgconn.PgError{Code: pgExclusionViolation}))
	require.Equal(t, ErrDateConflict, conflictOr(fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgExclusionViolation})))

	other := errors.New("connection reset")
	require.Equal(t, other, conflictOr(other))
	require.NotEqual(t, ErrDateConflict, conflictOr(&pgconn.PgError{Code: "23505"}))
}
