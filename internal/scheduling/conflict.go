package scheduling

import (
	"context"
	"fmt"
	"time"
)

// Candidate is an interval about to be stored for a scope (room) and kind (work type).
type Candidate struct {
	ScopeID   string
	KindID    string
	Start     time.Time
	End       *time.Time
	ExcludeID string
}

// Span is a stored interval as seen by a conflict finder.
type Span struct {
	ID    string
	Start time.Time
	End   *time.Time
}

type ConflictFinder interface {
	FindConflicts(ctx context.Context, candidate Candidate) ([]string, error)
}

// OverlapSource returns stored spans of a room that may intersect [start, end).
type OverlapSource interface {
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]Span, error)
}

// DuplicateSource returns stored spans of a room and kind sharing the same start.
type DuplicateSource interface {
	FindDuplicates(ctx context.Context, roomID, kindID string, start time.Time, end *time.Time, excludeID string) ([]Span, error)
}

// Overlaps reports whether the half-open ranges [s1, e1) and [s2, e2) intersect.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// RangeOverlap rejects any interval intersecting another one on the same room.
type RangeOverlap struct {
	source OverlapSource
}

func NewRangeOverlap(source OverlapSource) *RangeOverlap {
	return &RangeOverlap{source: source}
}

func (r *RangeOverlap) FindConflicts(ctx context.Context, candidate Candidate) ([]string, error) {
	if candidate.End == nil {
		return nil, ErrEndDateRequired
	}

	return r.FindOverlapping(ctx, candidate.ScopeID, candidate.Start, *candidate.End, candidate.ExcludeID)
}

// FindOverlapping returns the ids of reservations of roomID overlapping [start, end),
// leaving out excludeID. The result is empty, never nil, when nothing conflicts.
func (r *RangeOverlap) FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]string, error) {
	spans, err := r.source.FindOverlapping(ctx, roomID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping spans: %w", err)
	}

	ids := []string{}

	for _, span := range spans {
		if span.ID == excludeID {
			continue
		}

		if Overlaps(calendarDay(start), calendarDay(end), calendarDay(span.Start), calendarDay(spanEnd(span))) {
			ids = append(ids, span.ID)
		}
	}

	return ids, nil
}

// ExactMatch rejects an interval equal to a stored one for the same room and kind.
type ExactMatch struct {
	source DuplicateSource
}

func NewExactMatch(source DuplicateSource) *ExactMatch {
	return &ExactMatch{source: source}
}

func (e *ExactMatch) FindConflicts(ctx context.Context, candidate Candidate) ([]string, error) {
	spans, err := e.source.FindDuplicates(ctx, candidate.ScopeID, candidate.KindID, candidate.Start, candidate.End, candidate.ExcludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate spans: %w", err)
	}

	ids := []string{}

	for _, span := range spans {
		if span.ID == candidate.ExcludeID {
			continue
		}

		if calendarDay(span.Start).Equal(calendarDay(candidate.Start)) && sameEnd(span.End, candidate.End) {
			ids = append(ids, span.ID)
		}
	}

	return ids, nil
}

func sameEnd(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return calendarDay(*a).Equal(calendarDay(*b))
}

// calendarDay keeps the wall-clock date of t in its own location. Postgres dates come
// back as UTC midnight while parsed requests are midnight in the application timezone.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// an open end never closes, so it sorts after any real date
func spanEnd(span Span) time.Time {
	if span.End == nil {
		return time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	return *span.End
}
