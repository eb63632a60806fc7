package timezone_test

import (
	"housing/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pin(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	require.NoError(t, err)

	previous := timezone.GetLocation()
	timezone.SetLocation(loc)
	t.Cleanup(func() { timezone.SetLocation(previous) })

	return loc
}

func TestLoad(t *testing.T) {
	assert.Equal(t, time.UTC, timezone.Load(""))
	assert.Equal(t, time.UTC, timezone.Load("Mars/Olympus_Mons"))
	assert.Equal(t, "Europe/Paris", timezone.Load("Europe/Paris").String())
}

func TestSetLocation_NilFallsBackToUTC(t *testing.T) {
	previous := timezone.GetLocation()
	t.Cleanup(func() { timezone.SetLocation(previous) })

	timezone.SetLocation(nil)

	assert.Equal(t, time.UTC, timezone.GetLocation())
	assert.Equal(t, time.UTC, timezone.Now().Location())
}

func TestParse_InApplicationZone(t *testing.T) {
	loc := pin(t, "Europe/Paris")

	parsed, err := timezone.Parse(time.DateOnly, "2025-03-10")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), parsed)

	_, err = timezone.Parse(time.DateOnly, "10/03/2025")
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	loc := pin(t, "Europe/Paris")

	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{
			name:     "afternoon truncates to midnight",
			in:       time.Date(2025, 3, 10, 17, 45, 12, 0, loc),
			expected: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		},
		{
			name:     "late UTC evening is already the next day in Paris",
			in:       time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 11, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(timezone.Date(tt.in)), "got %v", timezone.Date(tt.in))
		})
	}
}

func TestFormat(t *testing.T) {
	pin(t, "America/New_York")

	assert.Equal(t, "2025-03-09", timezone.Format(time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC), time.DateOnly))
}

func TestFixedClockToday(t *testing.T) {
	loc := timezone.GetLocation()
	clock := timezone.Fixed(time.Date(2025, 3, 1, 23, 59, 0, 0, loc))

	assert.True(t, timezone.Today(clock).Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, loc)))
	assert.Equal(t, clock.Now(), clock.Now())
}
