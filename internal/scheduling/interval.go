// Package scheduling holds the date-interval rules shared by reservations and
// work orders: validation against today and conflict detection per room.
package scheduling

import (
	"net/http"
	"time"

	"housing/shared/constant"
	"housing/shared/failure"
	"housing/shared/timezone"
)

var (
	ErrEndDateRequired = &failure.Failure{Code: http.StatusBadRequest, Message: "end date is required"}
	ErrStartAfterEnd   = &failure.Failure{Code: http.StatusBadRequest, Message: "start after end"}
	ErrDateInPast      = &failure.Failure{Code: http.StatusBadRequest, Message: "date in the past"}
	ErrMinimumOneDay   = &failure.Failure{Code: http.StatusBadRequest, Message: "minimum one day"}
)

// Interval is a calendar date range. End is nil for open-ended work orders.
type Interval struct {
	Start time.Time
	End   *time.Time
}

// Rules selects which checks apply. A mandatory end also enforces a one day minimum.
type Rules struct {
	EndRequired bool
}

var (
	ReservationRules = Rules{EndRequired: true}
	WorkOrderRules   = Rules{EndRequired: false}
)

// ValidateInterval checks interval against today and returns the first rule it breaks.
func ValidateInterval(interval Interval, rules Rules, today time.Time) error {
	today = timezone.Date(today)
	start := timezone.Date(interval.Start)

	if interval.End == nil {
		if rules.EndRequired {
			return ErrEndDateRequired
		}

		if start.Before(today) {
			return ErrDateInPast
		}

		return nil
	}

	end := timezone.Date(*interval.End)

	if start.After(end) {
		return ErrStartAfterEnd
	}

	if start.Before(today) || end.Before(today) {
		return ErrDateInPast
	}

	if rules.EndRequired && start.Equal(end) {
		return ErrMinimumOneDay
	}

	return nil
}

// ParseInterval reads YYYY-MM-DD dates in the application timezone. An empty end stays nil.
func ParseInterval(start, end string) (Interval, error) {
	startDate, err := timezone.Parse(constant.DateOnlyFormat, start)
	if err != nil {
		return Interval{}, failure.InvalidDateFormat
	}

	interval := Interval{Start: startDate}

	if end != constant.Empty {
		endDate, err := timezone.Parse(constant.DateOnlyFormat, end)
		if err != nil {
			return Interval{}, failure.InvalidDateFormat
		}

		interval.End = &endDate
	}

	return interval, nil
}
