// ABOUTME: HTTP server wiring for the devconnect JSON API
// ABOUTME: Registers public and token-protected routes on an httprouter

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/jgrassis/devconnect/internal/auth"
	"github.com/jgrassis/devconnect/internal/store"
)

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	store    store.Store
	verifier *auth.JWTVerifier
	tokenTTL time.Duration
	logger   *slog.Logger
}

// New creates an API server. The verifier carries the process-wide
// signing secret; tokenTTL bounds every issued token.
func New(st store.Store, verifier *auth.JWTVerifier, tokenTTL time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    st,
		verifier: verifier,
		tokenTTL: tokenTTL,
		logger:   logger.With("component", "api"),
	}
}

// Handler builds the full route table. Protected routes run behind the
// auth gate; everything else is public.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	protect := auth.RequireAuth(s.verifier, s.logger)

	public := func(method, path string, h http.HandlerFunc) {
		router.Handler(method, path, h)
	}
	protected := func(method, path string, h http.HandlerFunc) {
		router.Handler(method, path, protect(h))
	}

	public(http.MethodGet, "/health", s.handleHealth)

	public(http.MethodPost, "/identities", s.handleRegister)
	public(http.MethodPost, "/sessions", s.handleLogin)
	protected(http.MethodGet, "/sessions/me", s.handleMe)

	protected(http.MethodPost, "/posts", s.handleCreatePost)
	protected(http.MethodGet, "/posts", s.handleListPosts)
	protected(http.MethodGet, "/posts/:post_id", s.handleGetPost)
	protected(http.MethodDelete, "/posts/:post_id", s.handleDeletePost)
	protected(http.MethodPut, "/posts/:post_id/like", s.handleToggleLike)
	protected(http.MethodPost, "/posts/:post_id/comments", s.handleAddComment)
	protected(http.MethodDelete, "/posts/:post_id/comments/:comment_id", s.handleDeleteComment)

	public(http.MethodGet, "/profiles", s.handleListProfiles)
	public(http.MethodGet, "/profiles/user/:user_id", s.handleGetProfileByUser)
	protected(http.MethodGet, "/profiles/me", s.handleMyProfile)
	protected(http.MethodPost, "/profiles", s.handleUpsertProfile)
	protected(http.MethodDelete, "/profiles", s.handleDeleteAccount)
	protected(http.MethodPut, "/profiles/experience", s.handleAddExperience)
	protected(http.MethodDelete, "/profiles/experience/:exp_id", s.handleDeleteExperience)

	return router
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// param reads a named httprouter path parameter.
func param(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// sendJSON writes a JSON response body.
func (s *Server) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}

// validationError is a single field-level message.
type validationError struct {
	Msg string `json:"msg"`
}

// sendValidationErrors writes the field-level 400 body.
func (s *Server) sendValidationErrors(w http.ResponseWriter, msgs []string) {
	body := struct {
		Errors []validationError `json:"errors"`
	}{Errors: make([]validationError, len(msgs))}
	for i, msg := range msgs {
		body.Errors[i] = validationError{Msg: msg}
	}
	s.sendJSON(w, http.StatusBadRequest, body)
}

// internalError logs the failure detail and responds with a generic 500.
func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "error", err)
	s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
