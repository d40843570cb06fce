package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nke/backend/internal/config"
)

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(&config.Config{
		JWTSecret:         "test-secret",
		AdminEmail:        "nke_admin@gmail.com",
		AdminPasswordHash: string(hash),
	})
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t, "s3cret")

	token, err := svc.Login("nke_admin@gmail.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", id.UID)
	assert.Equal(t, "nke_admin@gmail.com", id.Email)
	assert.True(t, id.IsAdmin)
}

func TestLoginRejectsNonAdminBeforePasswordCheck(t *testing.T) {
	svc := newTestService(t, "s3cret")

	_, err := svc.Login("someone@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t, "s3cret")

	_, err := svc.Login("nke_admin@gmail.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTestService(t, "s3cret")

	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t, "s3cret")

	other := NewService(&config.Config{
		JWTSecret:  "different-secret",
		AdminEmail: "nke_admin@gmail.com",
	})
	token, err := other.issueToken("nke_admin@gmail.com")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsNonHMACAlgorithm(t *testing.T) {
	svc := newTestService(t, "s3cret")

	// alg "none" tokens must never validate.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "admin",
		"email": "nke_admin@gmail.com",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.Error(t, err)
}
