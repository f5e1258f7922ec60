package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginProfileFlow(t *testing.T) {
	_, r := setupTestAPI(t)
	token := registerUser(t, r, "alice", "alice@test.local")

	// Profile with the registration token
	w := doJSON(t, r, http.MethodGet, "/api/users/profile", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Nil(t, user["password"]) // Hash must never be serialized

	// Login with the same credentials
	w = doJSON(t, r, http.MethodPost, "/api/users/login", "", `{"email":"alice@test.local","password":"secret-pass-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	_, r := setupTestAPI(t)
	registerUser(t, r, "bob", "bob@test.local")

	w := doJSON(t, r, http.MethodPost, "/api/users/register", "", `{"username":"bob","email":"bob2@test.local","password":"secret-pass-1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/users/register", "", `{"username":"bobby","email":"bob@test.local","password":"secret-pass-1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidationDetails(t *testing.T) {
	_, r := setupTestAPI(t)
	w := doJSON(t, r, http.MethodPost, "/api/users/register", "", `{"username":"x","email":"not-an-email","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Len(t, body["details"], 3)
}

func TestLoginWrongPassword(t *testing.T) {
	_, r := setupTestAPI(t)
	registerUser(t, r, "carol", "carol@test.local")
	w := doJSON(t, r, http.MethodPost, "/api/users/login", "", `{"email":"carol@test.local","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, r := setupTestAPI(t)
	for _, path := range []string{"/api/users/profile", "/api/clients", "/api/invoices", "/api/payment-details", "/api/bill-from-addresses"} {
		w := doJSON(t, r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := doJSON(t, r, http.MethodGet, "/api/clients", "not-a-real-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthIsPublic(t *testing.T) {
	_, r := setupTestAPI(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["database"])
}
