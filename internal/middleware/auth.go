package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/model"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "linkboard_session"

// TokenVerifier validates a session token into an identity.
// Implemented by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// SessionAuthConfig holds configuration for the session auth middleware.
type SessionAuthConfig struct {
	Logger   *slog.Logger
	Verifier TokenVerifier
}

// SessionAuth returns a middleware that authenticates requests from the
// session token. The token is read from the Authorization header
// (Bearer) or the session cookie, verified, and the resulting identity
// is injected into the request context.
func SessionAuth(cfg SessionAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			identity, err := cfg.Verifier.Verify(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractSessionToken reads the session token from the request.
// Supports both "Authorization: Bearer <token>" and the session cookie.
func extractSessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing session","code":"UNAUTHORIZED"}`))
}
