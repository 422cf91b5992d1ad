package middleware

import (
	"net/http"

	"github.com/linkboard/linkboard/internal/auth"
)

// RequireAdmin returns middleware that restricts a route to
// administrators. Must be applied after SessionAuth; the admin decision
// rides on the role stored in the session claim, not on re-deriving it
// from the email.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			writeAuthError(w)
			return
		}

		if !identity.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Administrator access required","code":"FORBIDDEN"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
