package httperr

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MatrixDriver/neuromem/pkg/logger"
)

// Response is the uniform error body returned by every handled error.
// The trace ID is freshly generated per error.
type Response struct {
	Detail  string `json:"detail"`
	TraceID string `json:"traceId"`
}

// JSON writes the uniform error body with the given status
func JSON(c echo.Context, status int, detail string) error {
	return c.JSON(status, Response{
		Detail:  detail,
		TraceID: uuid.New().String(),
	})
}

// Validation aggregates all field problems into a single 400 response
func Validation(c echo.Context, problems []string) error {
	return JSON(c, http.StatusBadRequest, "Validation failed: "+strings.Join(problems, ", "))
}

// EchoErrorHandler maps unhandled errors (including recovered panics) to
// the uniform error body. Registered as the Echo HTTPErrorHandler.
func EchoErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := "Internal server error: " + err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
	}

	logger.FromContext(c).Error("Unhandled request error",
		zap.Int("status", status),
		zap.Error(err))

	if writeErr := JSON(c, status, detail); writeErr != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(writeErr))
	}
}
