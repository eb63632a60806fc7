// Package failure carries HTTP status codes through the service layer. A Failure reaching
// the transport is written with its code and message; any other error becomes a 500.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var InvalidDateFormat = &Failure{Code: http.StatusBadRequest, Message: "dates must use the YYYY-MM-DD format"}

func (e *Failure) Error() string {
	return e.Message
}

func New(code int, message string) error {
	return &Failure{Code: code, Message: message}
}

// BadRequest turns err into a 400. It returns nil for a nil err.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(message string) error {
	return New(http.StatusBadRequest, message)
}

func NotFound(message string) error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) error {
	return New(http.StatusConflict, message)
}

// NoContent signals a successful lookup that produced nothing to return.
func NoContent(message string) error {
	return New(http.StatusNoContent, message)
}

// GetCode returns the code of the first Failure in err's chain, 500 when there is none.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

func HasCode(err error, code int) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Code == code
}
