package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestIsPublicPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "service root", path: "/", want: true},
		{name: "health check", path: "/v1/health", want: true},
		{name: "tenant registration", path: "/v1/tenants/register", want: true},
		{name: "metrics", path: "/metrics", want: true},
		{name: "preferences", path: "/v1/preferences", want: false},
		{name: "memories", path: "/v1/memories", want: false},
		{name: "search", path: "/v1/search", want: false},
		{name: "user overview", path: "/v1/users/u1/memories", want: false},
		{name: "health lookalike", path: "/v1/healthz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPublicPath(tt.path))
		})
	}
}

func runAuth(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := APIKeyAuthMiddleware(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"reached": true})
	})
	assert.NoError(t, handler(c))
	return rec
}

func TestAPIKeyAuthMiddleware_PublicPathPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := runAuth(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuthMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/preferences", nil)
	rec := runAuth(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Missing API key", body["detail"])
	assert.NotEmpty(t, body["traceId"])
}

func TestAPIKeyAuthMiddleware_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "no scheme", header: "nm_raw-key"},
		{name: "lowercase bearer", header: "bearer nm_raw-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/preferences", nil)
			req.Header.Set("Authorization", tt.header)
			rec := runAuth(t, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Authorization header must use Bearer scheme", body["detail"])
			assert.NotEmpty(t, body["traceId"])
		})
	}
}
