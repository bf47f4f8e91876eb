package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/blackboard/pkg/adapters/memory"
	"github.com/aretw0/blackboard/pkg/persistence/middleware"
	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/aretw0/blackboard/pkg/snapshot"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func credentials(token string) *snapshot.Document {
	return &snapshot.Document{
		Name: "service",
		Parameters: []snapshot.Entry{
			{Name: "endpoint", Type: "string", Value: "https://example.test"},
			{Name: "api_token", Type: "string", Value: token},
		},
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()

	// 1. Save
	if err := secureStore.Save(ctx, "service", credentials("my-secret-sauce")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Verify underlying store directly (should be an envelope)
	stored, err := underlyingStore.Load(ctx, "service")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if len(stored.Parameters) != 1 || stored.Parameters[0].Name != "__encrypted__" {
		t.Fatalf("Expected a single __encrypted__ parameter, got %+v", stored.Parameters)
	}
	if stored.Name != "service" {
		t.Errorf("Expected envelope to keep the name, got %q", stored.Name)
	}

	// 3. Load via middleware (should be decrypted)
	loaded, err := secureStore.Load(ctx, "service")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Parameters[1].Value != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", loaded.Parameters[1].Value)
	}

	// List and Delete pass through
	if names, _ := secureStore.List(ctx); len(names) != 1 {
		t.Errorf("List() = %v", names)
	}
	if err := secureStore.Delete(ctx, "service"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	ctx := context.Background()

	// 1. Save with OLD key
	if err := secureStoreOld.Save(ctx, "service", credentials("old")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Load with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "service")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.Parameters[1].Value != "old" {
		t.Errorf("Decryption with fallback key failed")
	}

	// 3. Save again, now under the NEW key
	if err := secureStoreNew.Save(ctx, "service", credentials("new")); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	// 4. The OLD key alone can no longer read it
	if _, err := secureStoreOld.Load(ctx, "service"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainDocuments(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "plain", credentials("visible")); err != nil {
		t.Fatal(err)
	}

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	if _, err := secureStore.Load(ctx, "plain"); err == nil {
		t.Error("Expected plain document to be refused")
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunTemplateStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
