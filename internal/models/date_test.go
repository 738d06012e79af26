package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-01")
	require.NoError(t, err)
	require.Equal(t, "2025-06-01", d.String())

	_, err = ParseDate("06/01/2025")
	require.Error(t, err)

	_, err = ParseDate("")
	require.Error(t, err)
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"disjoint before", "2025-06-01", "2025-06-03", "2025-06-10", "2025-06-12", false},
		{"disjoint after", "2025-06-10", "2025-06-12", "2025-06-01", "2025-06-03", false},
		{"contained", "2025-06-01", "2025-06-10", "2025-06-03", "2025-06-05", true},
		{"partial", "2025-06-01", "2025-06-04", "2025-06-03", "2025-06-05", true},
		// Boundaries are inclusive: a return on the same day as the next
		// pickup still conflicts.
		{"touching at end", "2025-06-01", "2025-06-04", "2025-06-04", "2025-06-06", true},
		{"touching at start", "2025-06-04", "2025-06-06", "2025-06-01", "2025-06-04", true},
		{"identical", "2025-06-01", "2025-06-04", "2025-06-01", "2025-06-04", true},
		{"adjacent days", "2025-06-01", "2025-06-03", "2025-06-04", "2025-06-06", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(
				mustDate(t, tc.aStart), mustDate(t, tc.aEnd),
				mustDate(t, tc.bStart), mustDate(t, tc.bEnd))
			require.Equal(t, tc.want, got)

			// Overlap is symmetric.
			rev := RangesOverlap(
				mustDate(t, tc.bStart), mustDate(t, tc.bEnd),
				mustDate(t, tc.aStart), mustDate(t, tc.aEnd))
			require.Equal(t, tc.want, rev)
		})
	}
}

func TestDateJSON(t *testing.T) {
	d := mustDate(t, "2025-06-01")
	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"2025-06-01"`, string(raw))

	var parsed Date
	require.NoError(t, parsed.UnmarshalJSON(raw))
	require.Equal(t, d.String(), parsed.String())

	require.Error(t, parsed.UnmarshalJSON([]byte(`"not-a-date"`)))
}
