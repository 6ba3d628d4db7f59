package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// tenantFromContext retrieves the tenant identity attached by the
// authentication middleware
func tenantFromContext(c echo.Context) (uuid.UUID, bool) {
	tenantID, ok := c.Get("tenant_id").(uuid.UUID)
	return tenantID, ok
}
