package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MatrixDriver/neuromem/internal/httperr"
	"github.com/MatrixDriver/neuromem/internal/model"
	"github.com/MatrixDriver/neuromem/pkg/database"
	"github.com/MatrixDriver/neuromem/pkg/logger"
	"github.com/MatrixDriver/neuromem/prometheus"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
)

// Embedder converts text to a fixed-length vector. Satisfied by
// embedding.Client; tests substitute a stub.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var embedder Embedder

// InitMemoryHandler wires the embedding client used by memory handlers
func InitMemoryHandler(client Embedder) {
	embedder = client
}

// embed calls the external embedding provider, recording duration and
// failures
func embed(ctx context.Context, text string) ([]float32, error) {
	defer prometheus.TrackEmbeddingCall()(time.Now())
	vector, err := embedder.Embed(ctx, text)
	if err != nil {
		prometheus.EmbeddingErrorCounter.Inc()
	}
	return vector, err
}

// AddMemory stores a memory with an automatically generated embedding.
// If the embedding call fails nothing is stored.
func AddMemory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMemoryOperation("add")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		log.Error("Missing tenant identity in context")
		return httperr.JSON(c, http.StatusUnauthorized, "Authentication required")
	}

	var req struct {
		UserID     string         `json:"userId"`
		Content    string         `json:"content"`
		MemoryType string         `json:"memoryType,omitempty"`
		Metadata   model.Metadata `json:"metadata,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse memory request", zap.Error(err))
		return httperr.JSON(c, http.StatusBadRequest, "Invalid request body")
	}

	var problems []string
	if req.UserID == "" {
		problems = append(problems, "userId: userId is required")
	}
	if req.Content == "" {
		problems = append(problems, "content: content is required")
	}
	if len(problems) > 0 {
		return httperr.Validation(c, problems)
	}

	if req.MemoryType == "" {
		req.MemoryType = model.DefaultMemoryType
	}

	vector, err := embed(c.Request().Context(), req.Content)
	if err != nil {
		log.Error("Failed to generate embedding", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to generate embedding")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	memory := model.Embedding{
		TenantID:   tenantID,
		UserID:     req.UserID,
		Content:    req.Content,
		MemoryType: req.MemoryType,
		Embedding:  model.Vector(vector),
		Metadata:   req.Metadata,
	}

	if err := database.GetDB().Create(&memory).Error; err != nil {
		log.Error("Failed to store memory", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to store memory")
	}

	log.Info("Memory stored",
		zap.String("memory_id", memory.ID.String()),
		zap.String("user_id", memory.UserID),
		zap.String("memory_type", memory.MemoryType))

	return c.JSON(http.StatusOK, echo.Map{
		"id":         memory.ID.String(),
		"userId":     memory.UserID,
		"content":    memory.Content,
		"memoryType": memory.MemoryType,
	})
}

// SearchMemories answers a nearest-neighbor query over stored memories.
// Scores are raw vector distances: ascending means more similar.
func SearchMemories(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMemoryOperation("search")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		log.Error("Missing tenant identity in context")
		return httperr.JSON(c, http.StatusUnauthorized, "Authentication required")
	}

	var req struct {
		UserID     string `json:"userId"`
		Query      string `json:"query"`
		Limit      *int   `json:"limit,omitempty"`
		MemoryType string `json:"memoryType,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse search request", zap.Error(err))
		return httperr.JSON(c, http.StatusBadRequest, "Invalid request body")
	}

	var problems []string
	if req.UserID == "" {
		problems = append(problems, "userId: userId is required")
	}
	if req.Query == "" {
		problems = append(problems, "query: query is required")
	}
	limit := defaultSearchLimit
	if req.Limit != nil {
		limit = *req.Limit
		if limit < 1 || limit > maxSearchLimit {
			problems = append(problems, "limit: limit must be between 1 and 50")
		}
	}
	if len(problems) > 0 {
		return httperr.Validation(c, problems)
	}

	queryVector, err := embed(c.Request().Context(), req.Query)
	if err != nil {
		log.Error("Failed to embed search query", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to generate embedding")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	results, err := model.SearchMemories(database.GetDB(), tenantID, req.UserID,
		model.Vector(queryVector), req.MemoryType, limit)
	if err != nil {
		log.Error("Memory search failed", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Memory search failed")
	}

	log.Info("Memory search completed",
		zap.String("user_id", req.UserID),
		zap.Int("results", len(results)))

	return c.JSON(http.StatusOK, echo.Map{
		"userId":  req.UserID,
		"query":   req.Query,
		"results": results,
	})
}

// GetUserMemoriesOverview returns per-user record counts
func GetUserMemoriesOverview(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMemoryOperation("overview")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		log.Error("Missing tenant identity in context")
		return httperr.JSON(c, http.StatusUnauthorized, "Authentication required")
	}

	userID := c.Param("userId")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var embeddingCount int64
	if err := database.GetDB().Model(&model.Embedding{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Count(&embeddingCount).Error; err != nil {
		log.Error("Failed to count memories", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to load memory overview")
	}

	var preferenceCount int64
	if err := database.GetDB().Model(&model.Preference{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Count(&preferenceCount).Error; err != nil {
		log.Error("Failed to count preferences", zap.Error(err))
		return httperr.JSON(c, http.StatusInternalServerError, "Failed to load memory overview")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userId":          userID,
		"embeddingCount":  embeddingCount,
		"preferenceCount": preferenceCount,
	})
}
