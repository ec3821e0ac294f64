package vault

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
)

// saltSize is the KDF salt length in bytes.
const saltSize = 16

// LoadOrCreateSalt returns the KDF salt stored at path, generating and
// persisting a fresh random one on first use. Losing the salt makes every
// stored secret unrecoverable, so the write is atomic.
func LoadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != saltSize {
			return nil, fmt.Errorf("salt file %s has %d bytes, want %d", path, len(salt), saltSize)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read salt file: %w", err)
	}

	salt = make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("could not generate salt: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(salt)); err != nil {
		return nil, fmt.Errorf("could not write salt file: %w", err)
	}
	return salt, nil
}

// seal encrypts plain with the vault key, prefixes the random nonce, and
// encodes the result as base64 for storage in a TEXT column.
func (v *Vault) seal(plain []byte) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}
	sealed := v.aead.Seal(nonce, nonce, plain, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// open reverses seal, returning ErrDecrypt when the ciphertext does not
// authenticate under the vault key.
func (v *Vault) open(encoded string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(sealed) < v.aead.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, ciphertext := sealed[:v.aead.NonceSize()], sealed[v.aead.NonceSize():]
	plain, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}
