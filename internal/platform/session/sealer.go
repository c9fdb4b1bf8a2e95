package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24

	hkdfInfo = "finboard upstream cookies v1"
)

// Sealer encrypts upstream cookies at rest with a key derived from the session secret
type Sealer struct {
	key [keySize]byte
}

// storedCookie is the part of an http.Cookie worth replaying upstream
type storedCookie struct {
	Name    string    `json:"n"`
	Value   string    `json:"v"`
	Expires time.Time `json:"e,omitzero"`
}

// NewSealer derives the sealing key from secret
func NewSealer(secret string) (*Sealer, error) {
	s := &Sealer{}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(r, s.key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive sealing key: %w", err)
	}
	return s, nil
}

// Seal encrypts cookies; the random nonce is prepended to the box
func (s *Sealer) Seal(cookies []*http.Cookie) ([]byte, error) {
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}
	plain, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cookies: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &s.key), nil
}

// Open decrypts what Seal produced
func (s *Sealer) Open(box []byte) ([]*http.Cookie, error) {
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, ErrUnsealFailed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])

	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrUnsealFailed
	}

	var stored []storedCookie
	if err := json.Unmarshal(plain, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsealFailed, err)
	}
	cookies := make([]*http.Cookie, len(stored))
	for i, c := range stored {
		cookies[i] = &http.Cookie{Name: c.Name, Value: c.Value, Expires: c.Expires}
	}
	return cookies, nil
}
