package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is an optional structured blob attached to preferences and
// memories. It maps to a JSONB column.
type Metadata map[string]interface{}

// GormDataType tells GORM which column type to migrate
func (Metadata) GormDataType() string {
	return "jsonb"
}

// Value serializes the metadata for storage
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan deserializes the metadata from the database
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}

	return json.Unmarshal(data, m)
}
