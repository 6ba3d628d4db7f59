package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMemoryType is assigned when a memory is stored without an
// explicit type.
const DefaultMemoryType = "general"

// Embedding is a stored memory: a piece of text plus its embedding vector,
// scoped to a tenant and an application-defined user. Rows are immutable
// once created.
type Embedding struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;index:idx_emb_tenant_user;not null" json:"tenant_id"`
	UserID     string    `gorm:"index:idx_emb_tenant_user;not null" json:"user_id"`
	Content    string    `gorm:"not null" json:"content"`
	MemoryType string    `gorm:"default:general" json:"memory_type"`
	Embedding  Vector    `gorm:"type:vector(1024);not null" json:"-"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate hook assigns a UUID primary key
func (e *Embedding) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// MemorySearchRow is one nearest-neighbor result. Score is the raw pgvector
// distance between the stored and query vectors: ascending means more similar.
type MemorySearchRow struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	MemoryType string    `json:"memoryType"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	Score      float64   `json:"score"`
}

// SearchMemoriesQuery builds the nearest-neighbor SQL over the embeddings
// table. The query vector is passed as a pgvector text literal and compared
// with the <-> distance operator; results are ordered by ascending distance.
// Placeholders, in order: vector, tenant_id, user_id, [memory_type], limit.
func SearchMemoriesQuery(withType bool) string {
	q := "SELECT id, content, memory_type, metadata, embedding <-> ?::vector AS score " +
		"FROM embeddings WHERE tenant_id = ? AND user_id = ?"
	if withType {
		q += " AND memory_type = ?"
	}
	return q + " ORDER BY score ASC LIMIT ?"
}

// SearchMemories runs the nearest-neighbor query for (tenant, user),
// optionally filtered by memory type, truncated to limit rows.
func SearchMemories(db *gorm.DB, tenantID uuid.UUID, userID string, query Vector, memoryType string, limit int) ([]MemorySearchRow, error) {
	args := []interface{}{query.String(), tenantID, userID}
	if memoryType != "" {
		args = append(args, memoryType)
	}
	args = append(args, limit)

	rows := []MemorySearchRow{}
	if err := db.Raw(SearchMemoriesQuery(memoryType != ""), args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
