package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nke/backend/internal/response"
)

const (
	testSecret = "test-secret"
	adminEmail = "nke_admin@gmail.com"
)

func signToken(t *testing.T, secret, email string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin",
		"email": email,
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	RequireAdmin(testSecret, adminEmail)(next).ServeHTTP(rec, req)
	return rec, captured
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRequireAdminMissingHeader(t *testing.T) {
	rec, _ := callProtected(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization token required", decodeEnvelope(t, rec).Error)
}

func TestRequireAdminMalformedHeader(t *testing.T) {
	rec, _ := callProtected(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminBadSignature(t *testing.T) {
	token := signToken(t, "other-secret", adminEmail, time.Now().Add(time.Hour))
	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication failed", decodeEnvelope(t, rec).Error)
}

func TestRequireAdminExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, adminEmail, time.Now().Add(-time.Hour))
	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminWrongEmail(t *testing.T) {
	token := signToken(t, testSecret, "intruder@example.com", time.Now().Add(time.Hour))
	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", decodeEnvelope(t, rec).Error)
}

func TestRequireAdminSetsIdentityContext(t *testing.T) {
	token := signToken(t, testSecret, adminEmail, time.Now().Add(time.Hour))
	rec, req := callProtected(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, req)

	assert.Equal(t, "admin", req.Context().Value(UserIDKey))
	assert.Equal(t, adminEmail, req.Context().Value(UserEmailKey))
}
