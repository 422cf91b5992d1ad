package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/model"
)

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		identity   *model.Identity
		wantStatus int
	}{
		{
			name:       "admin allowed",
			identity:   &model.Identity{UserID: "u1", Email: "admin@linkboard.com", Role: model.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "regular user forbidden",
			identity:   &model.Identity{UserID: "u2", Email: "person@clint.digital", Role: model.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no identity unauthorized",
			identity:   nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/fixed-links", nil)
			if test.identity != nil {
				req = req.WithContext(auth.ContextWithIdentity(req.Context(), test.identity))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != test.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, test.wantStatus)
			}
		})
	}
}
