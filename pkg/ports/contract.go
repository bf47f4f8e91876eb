package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractDocument(name string) *snapshot.Document {
	return &snapshot.Document{
		Name: name,
		Parameters: []snapshot.Entry{
			{Name: "speed", Type: "float", Value: 5.0},
			{Empty: true},
			{Name: "label", Type: "string", Value: "npc"},
			{Name: "tags", Type: "[string]", Value: []any{"guard"}},
		},
	}
}

// RunTemplateStoreContract verifies that a TemplateStore implementation
// honours the interface contract.
func RunTemplateStoreContract(t *testing.T, store TemplateStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractDocument(name)))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, name, loaded.Name)
		require.Len(t, loaded.Parameters, 4)
		assert.Equal(t, "speed", loaded.Parameters[0].Name)
		assert.True(t, loaded.Parameters[1].Empty, "empty slots survive")
		assert.Equal(t, "npc", loaded.Parameters[2].Value)
		// Numbers may come back as any numeric type; decoding coerces them.
		assert.NotNil(t, loaded.Parameters[0].Value)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		doc := contractDocument(name)
		doc.Description = "second version"
		require.NoError(t, store.Save(ctx, name, doc))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "second version", loaded.Description)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.Parameters[2].Value = "mutated"

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "npc", again.Parameters[2].Value)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrTemplateNotFound, "Load after Delete should return ErrTemplateNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		n1, n2 := name+"-1", name+"-2"
		require.NoError(t, store.Save(ctx, n1, contractDocument(n1)))
		require.NoError(t, store.Save(ctx, n2, contractDocument(n2)))
		defer func() {
			_ = store.Delete(ctx, n1)
			_ = store.Delete(ctx, n2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, n1)
		assert.Contains(t, names, n2)
		assert.NotContains(t, names, name)
	})
}
