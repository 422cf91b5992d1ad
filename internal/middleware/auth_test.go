package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/model"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func newTestVerifier(t *testing.T) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return svc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func issueToken(t *testing.T, svc *auth.TokenService, email string, role model.Role) string {
	t.Helper()
	token, err := svc.Generate(&model.User{ID: "11111111-1111-1111-1111-111111111111", Email: email, Role: role})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return token
}

func identityEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			t.Error("handler reached without identity in context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(identity.Email))
	})
}

func TestSessionAuthBearer(t *testing.T) {
	t.Parallel()

	svc := newTestVerifier(t)
	handler := SessionAuth(SessionAuthConfig{Logger: discardLogger(), Verifier: svc})(identityEcho(t))

	token := issueToken(t, svc, "person@clint.digital", model.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shortcuts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "person@clint.digital" {
		t.Fatalf("identity email = %q, want %q", got, "person@clint.digital")
	}
}

func TestSessionAuthCookie(t *testing.T) {
	t.Parallel()

	svc := newTestVerifier(t)
	handler := SessionAuth(SessionAuthConfig{Logger: discardLogger(), Verifier: svc})(identityEcho(t))

	token := issueToken(t, svc, "person@clint.digital", model.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shortcuts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSessionAuthRejects(t *testing.T) {
	t.Parallel()

	svc := newTestVerifier(t)
	otherSvc, err := auth.NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	tests := []struct {
		name    string
		request func() *http.Request
	}{
		{
			name: "no token",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/v1/shortcuts", nil)
			},
		},
		{
			name: "garbage token",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/v1/shortcuts", nil)
				req.Header.Set("Authorization", "Bearer not-a-jwt")
				return req
			},
		},
		{
			name: "token signed with another secret",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/v1/shortcuts", nil)
				req.Header.Set("Authorization", "Bearer "+issueToken(t, otherSvc, "person@clint.digital", model.RoleUser))
				return req
			},
		},
	}

	handler := SessionAuth(SessionAuthConfig{Logger: discardLogger(), Verifier: svc})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached with invalid session")
		}),
	)

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, test.request())

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
				t.Fatalf("body = %q, want UNAUTHORIZED error code", rec.Body.String())
			}
		})
	}
}
