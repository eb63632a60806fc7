package response

import (
	"encoding/json"
	"errors"
	"housing/infras/otel"
	"housing/shared/constant"
	"housing/shared/failure"
	"housing/shared/lock"
	"housing/shared/logger"
	"net/http"

	"github.com/rs/zerolog/log"
)

// retryAfterSeconds is advertised when a room lock could not be acquired.
const retryAfterSeconds = "1"

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

// WithJSON wraps payload in a data envelope.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError writes err with the status of its failure code. Errors without one are
// storage or programming errors and their text never reaches the client.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	switch {
	case code == http.StatusNoContent:
		writer.WriteHeader(code)

		return
	case code >= http.StatusInternalServerError:
		message := constant.ResponseErrorInternal
		write(writer, code, Error{Error: &message})

		return
	case errors.Is(err, lock.ErrBusy):
		writer.Header().Set(constant.ResponseHeaderRetryAfter, retryAfterSeconds)
	}

	message := err.Error()

	var fail *failure.Failure
	if errors.As(err, &fail) {
		message = fail.Message
	}

	write(writer, code, Error{Error: &message})
}

// Fail records err on scope, logs it and writes it. Client errors are logged at warn level.
func Fail(writer http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceIfError(&err)

	if failure.GetCode(err) >= http.StatusInternalServerError {
		logger.ErrorWithStack(err)
		log.Error().Err(err).Msg(msg)
	} else {
		log.Warn().Err(err).Msg(msg)
	}

	WithError(writer, err)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
