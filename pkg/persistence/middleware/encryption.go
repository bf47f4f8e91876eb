package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/aretw0/blackboard/pkg/snapshot"
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// envelopeKey names the single parameter of an encrypted document.
const envelopeKey = "__encrypted__"

type encryptionMiddleware struct {
	next   ports.TemplateStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts template
// documents using AES-GCM. The stored document is an envelope holding one
// string parameter, so any store can keep it.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.TemplateStore) ports.TemplateStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	// 1. Serialize the real document
	plainText, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	// 2. Encrypt
	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt template: %w", err)
	}

	// 3. Create envelope. Only the name stays readable.
	envelope := &snapshot.Document{
		Name: doc.Name,
		Parameters: []snapshot.Entry{{
			Name:  envelopeKey,
			Type:  "string",
			Value: base64.StdEncoding.EncodeToString(ciphertext),
		}},
	}

	return m.next.Save(ctx, name, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	// 1. Load envelope
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	// 2. Extract ciphertext. A plain document is refused.
	if len(envelope.Parameters) != 1 || envelope.Parameters[0].Name != envelopeKey {
		return nil, errors.New("template is missing encrypted data envelope")
	}
	encryptedStr, ok := envelope.Parameters[0].Value.(string)
	if !ok {
		return nil, errors.New("template envelope does not hold a string")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	// 3. Decrypt (Try Active, then Fallback)
	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt template: %w", err)
	}

	// 4. Deserialize
	var doc snapshot.Document
	if err := json.Unmarshal(plainText, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted template: %w", err)
	}

	return &doc, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	// Try active key first
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	// Try fallbacks in order
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
