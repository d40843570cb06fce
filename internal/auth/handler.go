package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nke/backend/internal/response"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password"`
}

type loginData struct {
	Token string   `json:"token" example:"eyJhbGci..."`
	User  Identity `json:"user"`
}

type verifyRequest struct {
	Token string `json:"token" example:"eyJhbGci..."`
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Authenticate the administrator account and receive a bearer token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	response.Envelope{data=loginData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, "Email and password are required")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if errors.Is(err, ErrNotAdmin) {
		response.Forbidden(w, "Access restricted to administrators only")
		return
	}
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, "Invalid email or password")
		return
	}
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.OK(w, loginData{
		Token: token,
		User:  Identity{UID: "admin", Email: req.Email, IsAdmin: true},
	})
}

// Verify godoc
//
//	@Summary		Verify token
//	@Description	Validate a bearer token and return the identity it carries.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyRequest	true	"Token"
//	@Success		200		{object}	response.Envelope{data=Identity}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Router			/auth/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Token == "" {
		response.BadRequest(w, "Token is required")
		return
	}

	identity, err := h.svc.Verify(req.Token)
	if err != nil {
		response.Unauthorized(w, "Authentication failed")
		return
	}

	response.OK(w, identity)
}
