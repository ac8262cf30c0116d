// ABOUTME: Registration handler for POST /identities
// ABOUTME: Validates input, hashes the password, issues the first token

package api

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jgrassis/devconnect/internal/auth"
	"github.com/jgrassis/devconnect/internal/avatar"
	"github.com/jgrassis/devconnect/internal/store"
)

// RegisterRequest is the JSON request body for POST /identities.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the JSON response for registration and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// validate returns field-level messages for every failed check.
func (req *RegisterRequest) validate() []string {
	var msgs []string
	if strings.TrimSpace(req.Name) == "" {
		msgs = append(msgs, "Name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		msgs = append(msgs, "Please include a valid email")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "Please enter a password with 6 or more characters")
	}
	return msgs
}

// handleRegister handles POST /identities.
// Duplicate emails are rejected before any token is issued.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if msgs := req.validate(); len(msgs) > 0 {
		s.sendValidationErrors(w, msgs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.internalError(w, "failed to hash password", err)
		return
	}

	identity := &store.Identity{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Avatar:       avatar.URL(req.Email),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateIdentity(r.Context(), identity); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.sendValidationErrors(w, []string{"User already exists"})
			return
		}
		s.internalError(w, "failed to create identity", err)
		return
	}

	token, err := s.verifier.Issue(identity.ID, s.tokenTTL)
	if err != nil {
		s.internalError(w, "failed to issue token", err)
		return
	}

	s.logger.Info("registered identity", "id", identity.ID)
	s.sendJSON(w, http.StatusOK, TokenResponse{Token: token})
}
