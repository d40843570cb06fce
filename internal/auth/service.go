// Package auth implements the single-administrator login and token
// verification flows.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nke/backend/internal/config"
)

const tokenTTL = 30 * 24 * time.Hour

// ErrNotAdmin is returned when a non-administrator email attempts to log in.
var ErrNotAdmin = errors.New("access restricted to administrators only")

// ErrInvalidCredentials is returned when the password does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Identity is the decoded subject of a verified token.
type Identity struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Service contains the business logic for admin authentication.
type Service struct {
	cfg *config.Config
}

// NewService creates a new auth Service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Login checks the credentials against the configured administrator account
// and issues a signed token. The email gate runs before the password check,
// so unknown emails are rejected as non-admins rather than bad passwords.
func (s *Service) Login(email, password string) (string, error) {
	if email != s.cfg.AdminEmail {
		return "", ErrNotAdmin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(email)
}

// Verify parses and validates a token, returning the identity it carries.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	uid, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	return &Identity{
		UID:     uid,
		Email:   email,
		IsAdmin: email == s.cfg.AdminEmail,
	}, nil
}

// issueToken creates a signed JWT for the administrator.
func (s *Service) issueToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   "admin",
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
