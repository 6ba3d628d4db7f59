package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MatrixDriver/neuromem/pkg/database"
	"github.com/MatrixDriver/neuromem/pkg/logger"
)

// ServiceVersion is reported by the root and health endpoints
const ServiceVersion = "2.0.0"

// Root returns basic service identification
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"service": "NeuroMemory",
		"version": ServiceVersion,
	})
}

// HealthCheck reports service and database health
func HealthCheck(c echo.Context) error {
	status := "healthy"
	dbStatus := "connected"

	if err := database.Ping(); err != nil {
		logger.FromContext(c).Error("Database ping failed", zap.Error(err))
		status = "degraded"
		dbStatus = "disconnected"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   status,
		"database": dbStatus,
		"version":  ServiceVersion,
	})
}
