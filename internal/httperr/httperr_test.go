package httperr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, JSON(c, http.StatusNotFound, "Preference not found: theme"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Preference not found: theme", body.Detail)

	// Trace ID is a freshly generated UUID
	_, err := uuid.Parse(body.TraceID)
	assert.NoError(t, err)
}

func TestJSON_FreshTraceIDPerError(t *testing.T) {
	e := echo.New()

	traceIDs := make(map[string]bool)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, JSON(c, http.StatusInternalServerError, "boom"))

		var body Response
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, traceIDs[body.TraceID], "trace ID reused across errors")
		traceIDs[body.TraceID] = true
	}
}

func TestValidation_AggregatesProblems(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	problems := []string{"name: name is required", "email: email is required"}
	assert.NoError(t, Validation(c, problems))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed: name: name is required, email: email is required", body.Detail)
}

func TestEchoErrorHandler(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	EchoErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body.Detail)
	assert.NotEmpty(t, body.TraceID)
}

func TestEchoErrorHandler_GenericError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	EchoErrorHandler(assert.AnError, c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Detail, "Internal server error")
}
