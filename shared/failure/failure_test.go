package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"housing/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{name: "bad request from error", err: failure.BadRequest(errors.New("validation failed")), wantCode: http.StatusBadRequest, wantMessage: "validation failed"},
		{name: "bad request from string", err: failure.BadRequestFromString("end before start"), wantCode: http.StatusBadRequest, wantMessage: "end before start"},
		{name: "not found", err: failure.NotFound("reservation not found"), wantCode: http.StatusNotFound, wantMessage: "reservation not found"},
		{name: "conflict", err: failure.Conflict("reservation already exists for room/dates"), wantCode: http.StatusConflict, wantMessage: "reservation already exists for room/dates"},
		{name: "no content", err: failure.NoContent("no reservations for center"), wantCode: http.StatusNoContent, wantMessage: "no reservations for center"},
		{name: "invalid date format", err: failure.InvalidDateFormat, wantCode: http.StatusBadRequest, wantMessage: "dates must use the YYYY-MM-DD format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure

			assert.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.wantCode, fail.Code)
			assert.EqualError(t, tt.err, tt.wantMessage)
		})
	}
}

func TestBadRequest_Nil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "failure", err: failure.New(http.StatusConflict, "taken"), want: http.StatusConflict},
		{name: "wrapped failure", err: fmt.Errorf("update reservation: %w", failure.NotFound("missing")), want: http.StatusNotFound},
		{name: "plain error", err: errors.New("connection reset"), want: http.StatusInternalServerError},
		{name: "nil", err: nil, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("create reservation: %w", failure.Conflict("taken"))

	assert.True(t, failure.HasCode(wrapped, http.StatusConflict))
	assert.False(t, failure.HasCode(errors.New("plain"), http.StatusConflict))
	assert.False(t, failure.HasCode(failure.InvalidDateFormat, http.StatusNotFound))
}
