package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Chinmay1190/stepup-storefront/internal/identity"
)

// AuthHandler signs the caller's session in and out. Identity lives on the
// session, never process-wide.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type CredentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}

	var req CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	ident, err := sess.Identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		reason := identity.MapAuthError(err)
		respondError(w, authStatus(reason), string(reason), reason.Message(err))
		return
	}
	respondJSON(w, http.StatusOK, ident)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}

	var req CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	ident, err := sess.Identity.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		reason := identity.MapAuthError(err)
		respondError(w, authStatus(reason), string(reason), reason.Message(err))
		return
	}
	respondJSON(w, http.StatusCreated, ident)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	if err := sess.Identity.SignOut(r.Context()); err != nil && !errors.Is(err, identity.ErrNotSignedIn) {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session not resolved")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"identity": sess.CurrentIdentity(),
	})
}

func authStatus(reason identity.AuthReason) int {
	switch reason {
	case identity.ReasonInvalidCredentials:
		return http.StatusUnauthorized
	case identity.ReasonEmailNotVerified:
		return http.StatusForbidden
	case identity.ReasonAlreadyRegistered:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
