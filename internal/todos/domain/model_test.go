package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoPatch_NullableFields(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		var p TodoPatch
		require.NoError(t, json.Unmarshal([]byte(`{"completed":true}`), &p))
		assert.False(t, p.DueDate.Set)
		assert.False(t, p.Description.Set)
		assert.False(t, p.Empty())
	})

	t.Run("explicit null", func(t *testing.T) {
		var p TodoPatch
		require.NoError(t, json.Unmarshal([]byte(`{"due_date":null,"related_destination_id":null}`), &p))
		assert.True(t, p.DueDate.Set)
		assert.Nil(t, p.DueDate.Value)
		assert.True(t, p.RelatedDestinationID.Set)
		assert.Nil(t, p.RelatedDestinationID.Value)
		assert.False(t, p.Description.Set)
		assert.False(t, p.Empty())
	})

	t.Run("value", func(t *testing.T) {
		var p TodoPatch
		require.NoError(t, json.Unmarshal([]byte(`{"description":"2 nights","due_date":"2026-11-01T09:00:00Z"}`), &p))
		require.NotNil(t, p.Description.Value)
		assert.Equal(t, "2 nights", *p.Description.Value)
		require.NotNil(t, p.DueDate.Value)
		assert.True(t, p.DueDate.Value.Equal(time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)))
	})

	t.Run("wrong type", func(t *testing.T) {
		var p TodoPatch
		assert.Error(t, json.Unmarshal([]byte(`{"due_date":"tomorrow"}`), &p))
	})

	t.Run("null title counts as absent", func(t *testing.T) {
		var p TodoPatch
		require.NoError(t, json.Unmarshal([]byte(`{"title":null}`), &p))
		assert.True(t, p.Empty())
	})
}
