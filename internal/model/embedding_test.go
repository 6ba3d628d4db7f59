package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchMemoriesQuery(t *testing.T) {
	base := "SELECT id, content, memory_type, metadata, embedding <-> ?::vector AS score " +
		"FROM embeddings WHERE tenant_id = ? AND user_id = ?"

	assert.Equal(t, base+" ORDER BY score ASC LIMIT ?", SearchMemoriesQuery(false))
	assert.Equal(t, base+" AND memory_type = ? ORDER BY score ASC LIMIT ?", SearchMemoriesQuery(true))
}

func TestSearchMemoriesQuery_OrderedAscending(t *testing.T) {
	// Lower distance means more similar; the contract is ascending order
	assert.Contains(t, SearchMemoriesQuery(false), "ORDER BY score ASC")
	assert.Contains(t, SearchMemoriesQuery(true), "ORDER BY score ASC")
}
