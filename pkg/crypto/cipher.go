/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// CipherExecutor encrypts and decrypts opaque payloads. The ticket registry
// wraps its raw CRUD operations with it when enabled.
type CipherExecutor interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	Enabled() bool
}

type noOpCipher struct {
}

// NewNoOpCipher passes payloads through unchanged.
func NewNoOpCipher() CipherExecutor {
	return &noOpCipher{}
}

func (c *noOpCipher) Encode(data []byte) ([]byte, error) { return data, nil }
func (c *noOpCipher) Decode(data []byte) ([]byte, error) { return data, nil }
func (c *noOpCipher) Enabled() bool                      { return false }

const (
	keyLength        = 32
	pbkdf2Iterations = 4096
)

type aesGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCMCipher derives a 256-bit key from the configured secret and salt
// and encrypts with AES-GCM. Encode output is nonce||ciphertext.
func NewAESGCMCipher(secret, salt string) (CipherExecutor, error) {
	if secret == "" {
		return nil, fmt.Errorf("cipher secret is empty")
	}
	key := pbkdf2.Key([]byte(secret), []byte(salt), pbkdf2Iterations, keyLength, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesGCMCipher{aead: aead}, nil
}

func (c *aesGCMCipher) Enabled() bool {
	return true
}

func (c *aesGCMCipher) Encode(data []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, data, nil), nil
}

func (c *aesGCMCipher) Decode(data []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	return c.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
}

// DigestID deterministically hashes a plaintext ticket id into the
// externally visible form stored by encoding registries, so lookups by the
// original id still resolve.
func DigestID(id string) string {
	sum := sha512.Sum512_256([]byte(id))
	return hex.EncodeToString(sum[:])
}
