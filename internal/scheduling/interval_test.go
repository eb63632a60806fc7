package scheduling_test

import (
	"net/http"
	"testing"
	"time"

	"housing/internal/scheduling"
	"housing/shared/failure"

	"github.com/stretchr/testify/assert"
)

func day(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return t
}

func dayPtr(value string) *time.Time {
	t := day(value)

	return &t
}

func TestValidateInterval(t *testing.T) {
	today := day("2025-03-10")

	tests := []struct {
		name     string
		interval scheduling.Interval
		rules    scheduling.Rules
		wantErr  error
	}{
		{
			name:     "valid reservation",
			interval: scheduling.Interval{Start: day("2025-03-10"), End: dayPtr("2025-03-15")},
			rules:    scheduling.ReservationRules,
		},
		{
			name:     "reservation without end",
			interval: scheduling.Interval{Start: day("2025-03-10")},
			rules:    scheduling.ReservationRules,
			wantErr:  scheduling.ErrEndDateRequired,
		},
		{
			name:     "work order without end",
			interval: scheduling.Interval{Start: day("2025-03-11")},
			rules:    scheduling.WorkOrderRules,
		},
		{
			name:     "work order without end starting yesterday",
			interval: scheduling.Interval{Start: day("2025-03-09")},
			rules:    scheduling.WorkOrderRules,
			wantErr:  scheduling.ErrDateInPast,
		},
		{
			name:     "start after end",
			interval: scheduling.Interval{Start: day("2025-03-15"), End: dayPtr("2025-03-12")},
			rules:    scheduling.ReservationRules,
			wantErr:  scheduling.ErrStartAfterEnd,
		},
		{
			name:     "start after end is reported before the past check",
			interval: scheduling.Interval{Start: day("2025-03-05"), End: dayPtr("2025-03-01")},
			rules:    scheduling.ReservationRules,
			wantErr:  scheduling.ErrStartAfterEnd,
		},
		{
			name:     "start in the past",
			interval: scheduling.Interval{Start: day("2025-03-09"), End: dayPtr("2025-03-12")},
			rules:    scheduling.ReservationRules,
			wantErr:  scheduling.ErrDateInPast,
		},
		{
			name:     "same day reservation",
			interval: scheduling.Interval{Start: day("2025-03-12"), End: dayPtr("2025-03-12")},
			rules:    scheduling.ReservationRules,
			wantErr:  scheduling.ErrMinimumOneDay,
		},
		{
			name:     "same day work order",
			interval: scheduling.Interval{Start: day("2025-03-12"), End: dayPtr("2025-03-12")},
			rules:    scheduling.WorkOrderRules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scheduling.ValidateInterval(tt.interval, tt.rules, today)

			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateInterval_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)

	err := scheduling.ValidateInterval(scheduling.Interval{Start: day("2025-03-10"), End: dayPtr("2025-03-11")}, scheduling.ReservationRules, today)

	assert.NoError(t, err)
}

func TestParseInterval(t *testing.T) {
	interval, err := scheduling.ParseInterval("2025-03-10", "2025-03-15")
	assert.NoError(t, err)
	assert.Equal(t, day("2025-03-10"), interval.Start)
	assert.Equal(t, day("2025-03-15"), *interval.End)

	open, err := scheduling.ParseInterval("2025-03-10", "")
	assert.NoError(t, err)
	assert.Nil(t, open.End)

	_, err = scheduling.ParseInterval("10/03/2025", "")
	assert.ErrorIs(t, err, failure.InvalidDateFormat)

	_, err = scheduling.ParseInterval("2025-03-10", "2025-02-30")
	assert.ErrorIs(t, err, failure.InvalidDateFormat)
}
