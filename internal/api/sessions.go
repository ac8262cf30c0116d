// ABOUTME: Session handlers: POST /sessions (login) and GET /sessions/me
// ABOUTME: Login failures are uniform so neither email nor password leaks

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/jgrassis/devconnect/internal/auth"
	"github.com/jgrassis/devconnect/internal/store"
)

// LoginRequest is the JSON request body for POST /sessions.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityResponse is the JSON shape of an identity. The password hash
// never appears here.
type IdentityResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"created_at"`
}

func identityResponse(identity *store.Identity) IdentityResponse {
	return IdentityResponse{
		ID:        identity.ID,
		Name:      identity.Name,
		Email:     identity.Email,
		Avatar:    identity.Avatar,
		CreatedAt: identity.CreatedAt.Format(time.RFC3339),
	}
}

// handleLogin handles POST /sessions.
// Unknown email and wrong password produce the same 400 body; the
// unknown-email path still burns a bcrypt comparison.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var msgs []string
	if req.Email == "" {
		msgs = append(msgs, "Please include a valid email")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		s.sendValidationErrors(w, msgs)
		return
	}

	identity, err := s.store.GetIdentityByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.DummyCompare(req.Password)
			s.sendValidationErrors(w, []string{"Credentials are invalid"})
			return
		}
		s.internalError(w, "failed to look up identity", err)
		return
	}

	if !auth.CheckPassword(req.Password, identity.PasswordHash) {
		s.sendValidationErrors(w, []string{"Credentials are invalid"})
		return
	}

	token, err := s.verifier.Issue(identity.ID, s.tokenTTL)
	if err != nil {
		s.internalError(w, "failed to issue token", err)
		return
	}

	s.logger.Info("issued session token", "id", identity.ID)
	s.sendJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// handleMe handles GET /sessions/me.
// The gate only proves the signature, so the identity row can already
// be gone; that surfaces as 401 here.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identityID := auth.MustIdentityFromContext(r.Context())

	identity, err := s.store.GetIdentity(r.Context(), identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "token is not valid")
			return
		}
		s.internalError(w, "failed to load identity", err)
		return
	}

	s.sendJSON(w, http.StatusOK, identityResponse(identity))
}
