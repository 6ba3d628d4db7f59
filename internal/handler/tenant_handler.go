package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MatrixDriver/neuromem/internal/httperr"
	"github.com/MatrixDriver/neuromem/internal/model"
	"github.com/MatrixDriver/neuromem/pkg/database"
	"github.com/MatrixDriver/neuromem/pkg/logger"
	"github.com/MatrixDriver/neuromem/prometheus"
)

// RegisterTenant creates a tenant and issues its one-time API key. The raw
// key is returned exactly once; only its SHA-256 hash is stored.
func RegisterTenant(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse tenant registration request", zap.Error(err))
		return httperr.JSON(c, http.StatusBadRequest, "Invalid request body")
	}

	var problems []string
	if req.Name == "" {
		problems = append(problems, "name: name is required")
	}
	if req.Email == "" {
		problems = append(problems, "email: email is required")
	}
	if len(problems) > 0 {
		log.Warn("Invalid tenant registration request", zap.Strings("problems", problems))
		return httperr.Validation(c, problems)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	// Enforce unique email before creating anything
	var existing model.Tenant
	err := database.GetDB().Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		log.Warn("Duplicate tenant email", zap.String("email", req.Email))
		return httperr.JSON(c, http.StatusConflict, "Tenant already exists with email: "+req.Email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Failed to check tenant email", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Internal server error")
	}

	// Generate the raw key up front; only hash and prefix are persisted
	rawKey := model.GenerateAPIKey()

	tenant := model.Tenant{
		Name:  req.Name,
		Email: req.Email,
	}

	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		key := model.APIKey{
			TenantID:  tenant.ID,
			KeyHash:   model.HashAPIKey(rawKey),
			KeyPrefix: model.KeyPrefixOf(rawKey),
		}
		return tx.Create(&key).Error
	})
	if txErr != nil {
		log.Error("Tenant registration failed", zap.Error(txErr))
		return httperr.JSON(c, http.StatusInternalServerError, "Tenant registration failed")
	}

	prometheus.TenantRegistrationCounter.Inc()
	log.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("email", tenant.Email))

	return c.JSON(http.StatusCreated, echo.Map{
		"tenantId": tenant.ID.String(),
		"apiKey":   rawKey,
		"message":  "Tenant registered successfully. Save your API key securely!",
	})
}
