package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preference is a per-tenant, per-user key/value record with upsert
// semantics on (tenant_id, user_id, key).
type Preference struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	TenantID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_pref_tenant_user_key;not null" json:"-"`
	UserID    string    `gorm:"uniqueIndex:idx_pref_tenant_user_key;not null" json:"userId"`
	Key       string    `gorm:"uniqueIndex:idx_pref_tenant_user_key;not null" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate hook assigns a UUID primary key
func (p *Preference) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
