// Package auth guards the HTTP API with a bcrypt-hashed API key stored
// in settings.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/briefd/internal/db"
)

const bcryptCost = 12
const apiKeySetting = "api_key_hash"

// GenerateKey returns a random 32-byte hex API key.
func GenerateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth.GenerateKey: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashKey hashes an API key using bcrypt cost 12.
func HashKey(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("auth.HashKey: %w", err)
	}
	return string(b), nil
}

// CheckKey compares a plain key against a bcrypt hash.
func CheckKey(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// SetKey stores the bcrypt hash of an API key in settings.
func SetKey(database *db.DB, plain string) error {
	hash, err := HashKey(plain)
	if err != nil {
		return err
	}
	if err := database.SetSetting(apiKeySetting, hash); err != nil {
		return fmt.Errorf("auth.SetKey: %w", err)
	}
	return nil
}

// SeedKey stores the hash of key if no key is configured yet. Returns
// true if it seeded one.
func SeedKey(database *db.DB, key string) (bool, error) {
	if database.GetSetting(apiKeySetting, "") != "" || key == "" {
		return false, nil
	}
	if err := SetKey(database, key); err != nil {
		return false, err
	}
	return true, nil
}

// Validate checks a presented key against the stored hash. An empty
// stored hash means no key is configured and all requests pass.
func Validate(database *db.DB, key string) bool {
	hash := database.GetSetting(apiKeySetting, "")
	if hash == "" {
		return true
	}
	return key != "" && CheckKey(key, hash)
}

// RequireAPIKey is middleware that validates a Bearer token from the
// Authorization header, falling back to the X-API-Key header.
func RequireAPIKey(database *db.DB, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ""
		if v := r.Header.Get("Authorization"); strings.HasPrefix(v, "Bearer ") {
			key = strings.TrimPrefix(v, "Bearer ")
		}
		if key == "" {
			key = r.Header.Get("X-API-Key")
		}
		if !Validate(database, key) {
			http.Error(w, `{"success":false,"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
