// ABOUTME: HTTP middleware for JWT authentication on API endpoints
// ABOUTME: Extracts the bearer token and adds the identity id to context

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// denyRequest writes the uniform 401 JSON body.
func denyRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and whether one was present at all.
func extractBearerToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth creates an HTTP middleware that extracts and validates the
// bearer token, attaching the verified identity id to the request
// context. The gate never touches the identity store: a well-signed
// token is trusted even if the identity was deleted afterwards.
//
// Failures are reported with a uniform 401 body; expired tokens are
// only distinguished in the log.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				denyRequest(w, "no token, authorization denied")
				return
			}

			subjectID, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					logger.Debug("rejected expired token", "path", r.URL.Path)
				} else {
					logger.Warn("rejected invalid token", "path", r.URL.Path, "error", err)
				}
				denyRequest(w, "token is not valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), subjectID)))
		})
	}
}
