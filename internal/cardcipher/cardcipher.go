// Package cardcipher seals and opens the credit card column stored at rest.
package cardcipher

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertextTooShort indicates the stored blob is missing its nonce prefix.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Cipher encrypts and decrypts card payloads with XChaCha20-Poly1305.
// The random nonce is prepended to the ciphertext, so no separate nonce
// storage is needed.
type Cipher struct {
	key [32]byte
}

// New derives a cipher key from the configured secret.
func New(secret string) *Cipher {
	return &Cipher{key: sha256.Sum256([]byte(secret))}
}

// Seal encrypts plaintext and returns nonce||ciphertext.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, plaintext, nil)...)
	return out, nil
}

// Open decrypts a blob produced by Seal.
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return nil, ErrCiphertextTooShort
	}
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return nil, err
	}
	nonce := sealed[:chacha20poly1305.NonceSizeX]
	ct := sealed[chacha20poly1305.NonceSizeX:]
	return aead.Open(nil, nonce, ct, nil)
}
