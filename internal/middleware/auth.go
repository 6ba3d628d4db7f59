package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MatrixDriver/neuromem/internal/httperr"
	"github.com/MatrixDriver/neuromem/internal/model"
	"github.com/MatrixDriver/neuromem/pkg/database"
	"github.com/MatrixDriver/neuromem/pkg/logger"
	"github.com/MatrixDriver/neuromem/prometheus"
)

const bearerPrefix = "Bearer "

// IsPublicPath reports whether a request path bypasses API key
// authentication: service root, health check, tenant registration and the
// metrics endpoint.
func IsPublicPath(path string) bool {
	return path == "/" ||
		path == "/v1/health" ||
		strings.HasPrefix(path, "/v1/tenants/register") ||
		path == "/metrics"
}

// APIKeyAuthMiddleware authenticates every non-public request by resolving
// the presented bearer key to a tenant. The key is hashed with the same
// SHA-256 scheme used at registration and looked up by hash equality; on
// success the owning tenant ID is attached to the request context.
func APIKeyAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if IsPublicPath(c.Request().URL.Path) {
			return next(c)
		}

		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header")
			prometheus.RecordAuthError("missing_header")
			return httperr.JSON(c, http.StatusUnauthorized, "Missing API key")
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Warn("Invalid authorization header format")
			prometheus.RecordAuthError("malformed_header")
			return httperr.JSON(c, http.StatusUnauthorized, "Authorization header must use Bearer scheme")
		}

		apiKey := authHeader[len(bearerPrefix):]

		defer prometheus.TrackDBOperation("query")(time.Now())

		var key model.APIKey
		if err := database.GetDB().Where("key_hash = ?", model.HashAPIKey(apiKey)).First(&key).Error; err != nil {
			log.Warn("Unknown API key", zap.String("key_prefix", model.KeyPrefixOf(apiKey)))
			prometheus.RecordAuthError("unknown_key")
			return httperr.JSON(c, http.StatusUnauthorized, "Invalid API key")
		}

		// Best-effort usage tracking; a failed update never fails the request
		keyID := key.ID
		go func() {
			if err := database.GetDB().Model(&model.APIKey{}).
				Where("id = ?", keyID).
				Update("last_used_at", time.Now()).Error; err != nil {
				logger.GetLogger().Warn("Failed to update key last_used_at", zap.Error(err))
			}
		}()

		c.Set("tenant_id", key.TenantID)

		// Update logger with tenant information
		log = log.With(zap.String("tenant_id", key.TenantID.String()))
		c.Set("logger", log)

		return next(c)
	}
}
