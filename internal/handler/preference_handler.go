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

// SetPreference creates or updates a preference. Upserts on
// (tenant, user, key): an existing row is updated in place.
func SetPreference(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPreferenceOperation("set")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		log.Error("Missing tenant identity in context")
		return httperr.JSON(c, http.StatusUnauthorized, "Authentication required")
	}

	var req struct {
		UserID   string         `json:"userId"`
		Key      string         `json:"key"`
		Value    string         `json:"value"`
		Metadata model.Metadata `json:"metadata,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse preference request", zap.Error(err))
		return httperr.JSON(c, http.StatusBadRequest, "Invalid request body")
	}

	var problems []string
	if req.UserID == "" {
		problems = append(problems, "userId: userId is required")
	}
	if req.Key == "" {
		problems = append(problems, "key: key is required")
	}
	if req.Value == "" {
		problems = append(problems, "value: value is required")
	}
	if len(problems) > 0 {
		return httperr.Validation(c, problems)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var pref model.Preference
	err := database.GetDB().
		Where("tenant_id = ? AND user_id = ? AND key = ?", tenantID, req.UserID, req.Key).
		First(&pref).Error

	switch {
	case err == nil:
		// Update existing row in place
		pref.Value = req.Value
		pref.Metadata = req.Metadata
		if err := database.GetDB().Save(&pref).Error; err != nil {
			log.Error("Failed to update preference", zap.Error(err))
			return httperr.JSON(c, http.StatusInternalServerError, "Failed to save preference")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		pref = model.Preference{
			TenantID: tenantID,
			UserID:   req.UserID,
			Key:      req.Key,
			Value:    req.Value,
			Metadata: req.Metadata,
		}
		if err := database.GetDB().Create(&pref).Error; err != nil {
			log.Error("Failed to create preference", zap.Error(err))
			return httperr.JSON(c, http.StatusInternalServerError, "Failed to save preference")
		}
	default:
		log.Error("Failed to look up preference", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to save preference")
	}

	log.Info("Preference saved",
		zap.String("user_id", pref.UserID),
		zap.String("key", pref.Key))

	return c.JSON(http.StatusOK, pref)
}

// ListPreferences returns all preferences for a user. Result order is not
// part of the contract.
func ListPreferences(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPreferenceOperation("list")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		log.Error("Missing tenant identity in context")
		return httperr.JSON(c, http.StatusUnauthorized, "Authentication required")
	}

	userID := c.QueryParam("userId")
	if userID == "" {
		return httperr.Validation(c, []string{"userId: userId is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var prefs []model.Preference
	if err := database.GetDB().
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Find(&prefs).Error; err != nil {
		log.Error("Failed to list preferences", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to list preferences")
	}

	return c.JSON(http.StatusOK, prefs)
}

// GetPreference returns a single preference by key
func GetPreference(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPreferenceOperation("get")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		log.Error("Missing tenant identity in context")
		return httperr.JSON(c, http.StatusUnauthorized, "Authentication required")
	}

	userID := c.QueryParam("userId")
	if userID == "" {
		return httperr.Validation(c, []string{"userId: userId is required"})
	}
	key := c.Param("key")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var pref model.Preference
	err := database.GetDB().
		Where("tenant_id = ? AND user_id = ? AND key = ?", tenantID, userID, key).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.JSON(c, http.StatusNotFound, "Preference not found: "+key)
	}
	if err != nil {
		log.Error("Failed to get preference", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to get preference")
	}

	return c.JSON(http.StatusOK, pref)
}

// DeletePreference removes a preference by key
func DeletePreference(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPreferenceOperation("delete")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		log.Error("Missing tenant identity in context")
		return httperr.JSON(c, http.StatusUnauthorized, "Authentication required")
	}

	userID := c.QueryParam("userId")
	if userID == "" {
		return httperr.Validation(c, []string{"userId: userId is required"})
	}
	key := c.Param("key")

	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := database.GetDB().
		Where("tenant_id = ? AND user_id = ? AND key = ?", tenantID, userID, key).
		Delete(&model.Preference{})
	if result.Error != nil {
		log.Error("Failed to delete preference", zap.Error(result.Error))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to delete preference")
	}
	if result.RowsAffected == 0 {
		return httperr.JSON(c, http.StatusNotFound, "Preference not found: "+key)
	}

	log.Info("Preference deleted",
		zap.String("user_id", userID),
		zap.String("key", key))

	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
