package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey represents a tenant credential. Only the SHA-256 hash of the raw
// key is stored; the raw key is returned to the caller exactly once at
// registration and is never retrievable afterwards.
type APIKey struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	KeyHash    string     `gorm:"uniqueIndex;not null" json:"-"`
	KeyPrefix  string     `json:"key_prefix"` // reserved for indexed-prefix lookup
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// BeforeCreate hook assigns a UUID primary key
func (k *APIKey) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
