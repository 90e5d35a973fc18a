// Package auth gates the admin read surface behind peppered API keys.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/go-faster/errors"
)

// ScopeAdmin grants access to the admin read endpoints.
const ScopeAdmin = "admin"

// ErrKeyNotFound is returned when no active key matches the presented hash.
var ErrKeyNotFound = errors.New("api key not found")

// APIKey is a validated admin credential. Only the HMAC hash of the raw key
// is ever stored or compared.
type APIKey struct {
	ID      string
	KeyHash string
	Name    string
	Scopes  []string
}

// HasScope reports whether the key carries the given scope.
func (k *APIKey) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Repository provides lookup of API keys by their peppered hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKey, error)
}

// HashKey derives the stored form of a raw API key: HMAC-SHA256 under the
// server pepper, hex encoded. The pepper keeps a leaked table from being
// usable without the server config.
func HashKey(rawKey, pepper string) string {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(rawKey))
	return hex.EncodeToString(mac.Sum(nil))
}
