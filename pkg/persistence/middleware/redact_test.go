package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/blackboard/pkg/adapters/memory"
	"github.com/aretw0/blackboard/pkg/persistence/middleware"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactionMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewRedactionMiddleware([]string{"token", "^password$"})(underlyingStore)
	ctx := context.Background()

	doc := &snapshot.Document{
		Name: "service",
		Parameters: []snapshot.Entry{
			{Name: "endpoint", Type: "string", Value: "https://example.test"},
			{Name: "api_token", Type: "string", Value: "secret123"},
			{Empty: true},
			{Name: "password", Type: "string", Value: "hunter2"},
			{Name: "password_hint", Type: "string", Value: "animal"},
		},
	}

	require.NoError(t, secureStore.Save(ctx, "service", doc))

	// The caller's document is untouched
	assert.Equal(t, "secret123", doc.Parameters[1].Value)

	stored, err := underlyingStore.Load(ctx, "service")
	require.NoError(t, err)
	require.Len(t, stored.Parameters, 5)
	assert.Equal(t, "https://example.test", stored.Parameters[0].Value)
	assert.Nil(t, stored.Parameters[1].Value)
	assert.Equal(t, "string", stored.Parameters[1].Type, "redacted slots keep their type")
	assert.True(t, stored.Parameters[2].Empty)
	assert.Nil(t, stored.Parameters[3].Value)
	assert.Equal(t, "animal", stored.Parameters[4].Value)

	// Redacted documents still decode, to zero values
	r, err := snapshot.Decode(stored, nil)
	require.NoError(t, err)
	p, ok := r.Parameter("api_token")
	require.True(t, ok)
	assert.Equal(t, "", p.Value())
}

func TestChain_Order(t *testing.T) {
	underlyingStore := memory.NewStore()
	key := make([]byte, 32)
	store := middleware.Chain(underlyingStore,
		middleware.NewRedactionMiddleware([]string{"token"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)
	ctx := context.Background()

	doc := &snapshot.Document{
		Name:       "service",
		Parameters: []snapshot.Entry{{Name: "api_token", Type: "string", Value: "secret"}},
	}
	require.NoError(t, store.Save(ctx, "service", doc))

	// Encryption is innermost, so the store only holds the envelope
	raw, err := underlyingStore.Load(ctx, "service")
	require.NoError(t, err)
	assert.Equal(t, "__encrypted__", raw.Parameters[0].Name)

	// Redaction ran before encryption
	loaded, err := store.Load(ctx, "service")
	require.NoError(t, err)
	assert.Nil(t, loaded.Parameters[0].Value)

	assert.Same(t, underlyingStore, middleware.Chain(underlyingStore))
}
