package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/goinsights/goinsights/internal/datasource"
)

// Exception types reported in error bodies.
const (
	ExcValidation     = "ValidationError"
	ExcDoesNotExist   = "DoesNotExistError"
	ExcAuthentication = "AuthenticationError"
	ExcPermission     = "PermissionError"
	ExcDuplicateEntry = "DuplicateEntryError"
	ExcServer         = "Exception"
)

// ExceptionBody is the JSON body of a failed procedure call.
type ExceptionBody struct {
	ExcType   string `json:"exc_type"`
	Exception string `json:"exception"`
}

// RPCCalls counts procedure calls by outcome.
var RPCCalls = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "insights_rpc_calls_total",
	Help: "Remote procedure calls by procedure and outcome.",
}, []string{"procedure", "outcome"})

// Reply writes a procedure result. Procedures without a result reply {}.
func Reply(c *fiber.Ctx, result any) error {
	if result == nil {
		return c.JSON(fiber.Map{})
	}

	return c.JSON(fiber.Map{"message": result})
}

// Validation marks err as caused by the caller's input.
func Validation(err error) error {
	return &validationError{err: err}
}

type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }

func (e *validationError) Unwrap() error { return e.err }

// Classify maps an error to its HTTP status and exception type.
func Classify(err error) (int, string) {
	var (
		fe *fiber.Error
		ve *validationError
	)

	switch {
	case errors.As(err, &fe):
		switch fe.Code {
		case fiber.StatusUnauthorized:
			return fe.Code, ExcAuthentication
		case fiber.StatusForbidden:
			return fe.Code, ExcPermission
		case fiber.StatusNotFound:
			return fe.Code, ExcDoesNotExist
		case fiber.StatusBadRequest, fiber.StatusExpectationFailed, fiber.StatusUnprocessableEntity:
			return fiber.StatusExpectationFailed, ExcValidation
		default:
			return fe.Code, ExcServer
		}
	case errors.Is(err, datasource.ErrDataSourceNotFound):
		return fiber.StatusNotFound, ExcDoesNotExist
	case errors.Is(err, datasource.ErrDataSourceExists):
		return fiber.StatusConflict, ExcDuplicateEntry
	case errors.As(err, &ve),
		errors.Is(err, datasource.ErrUnsupportedDatabaseType),
		errors.Is(err, datasource.ErrSQLiteFileNotFound),
		errors.Is(err, datasource.ErrConnectionFailed):
		return fiber.StatusExpectationFailed, ExcValidation
	default:
		return fiber.StatusInternalServerError, ExcServer
	}
}

// ErrorHandler is the fiber error handler writing exception bodies.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, excType := Classify(err)

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(code).JSON(ExceptionBody{ExcType: excType, Exception: err.Error()})
}

// Observe is the first handler of a procedure route; it counts the outcome
// of the rest of the chain, permission checks included.
func Observe(procedure string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		outcome := "success"
		if err != nil {
			_, outcome = Classify(err)
		}

		RPCCalls.WithLabelValues(procedure, outcome).Inc()

		return err
	}
}
