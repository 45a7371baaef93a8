package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/briefd/internal/db"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())
	return database
}

func TestHashAndCheckKey(t *testing.T) {
	hash, err := HashKey("secret-key")
	require.NoError(t, err)
	assert.True(t, CheckKey("secret-key", hash))
	assert.False(t, CheckKey("wrong", hash))
}

func TestSeedKey_OnlyOnce(t *testing.T) {
	database := testDB(t)

	seeded, err := SeedKey(database, "first")
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = SeedKey(database, "second")
	require.NoError(t, err)
	assert.False(t, seeded)

	assert.True(t, Validate(database, "first"))
	assert.False(t, Validate(database, "second"))
}

func TestValidate_NoKeyConfigured(t *testing.T) {
	database := testDB(t)
	assert.True(t, Validate(database, ""))
}

func TestRequireAPIKey(t *testing.T) {
	database := testDB(t)
	require.NoError(t, SetKey(database, "letmein"))

	handler := RequireAPIKey(database, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer letmein")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("X-API-Key", "letmein")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
