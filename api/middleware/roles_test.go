package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := RequireRole(enums.RoleAdmin, logg)(next)

	cases := []struct {
		name   string
		role   string
		status int
	}{
		{"admin passes", enums.RoleAdmin.String(), http.StatusNoContent},
		{"vendor rejected", enums.RoleVendor.String(), http.StatusForbidden},
		{"missing role rejected", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tc.role != "" {
				req = req.WithContext(WithRole(req.Context(), tc.role))
			}
			resp := httptest.NewRecorder()
			guard.ServeHTTP(resp, req)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
		})
	}
}
