package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mind-engage/examdesk/internal/rbac"
)

func TestAllowed(t *testing.T) {
	saved := rbac.RolePermissions
	t.Cleanup(func() { rbac.RolePermissions = saved })
	rbac.RolePermissions = map[string][]string{
		"editor": {"sets:*", "results:view"},
		"admin":  {"*"},
	}
	cases := []struct {
		role  string
		perms []string
		want  bool
	}{
		{"editor", []string{"sets:edit"}, true},
		{"editor", []string{"sets:view-live"}, true},
		{"editor", []string{"results:view"}, true},
		{"editor", []string{"users:manage"}, false},
		{"editor", []string{"users:manage", "results:view"}, true},
		{"ghost", []string{"sets:edit"}, false},
		{"admin", []string{"anything:at-all"}, true},
	}
	for _, tc := range cases {
		if got := rbac.Allowed(tc.role, tc.perms...); got != tc.want {
			t.Fatalf("Allowed(%q, %v) = %v, want %v", tc.role, tc.perms, got, tc.want)
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	if rbac.Allowed("user", "sets:manage") || rbac.Allowed("user", "users:manage") {
		t.Fatal("test-takers must not manage sets or users")
	}
	if !rbac.Allowed("user", "sets:view-live") || !rbac.Allowed("user", "results:submit") {
		t.Fatal("test-takers must see the live set and submit")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := rbac.Require("users:manage")(ok)

	for role, want := range map[string]int{"": 401, "user": 403, "admin": 204} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			req = req.WithContext(rbac.WithRole(req.Context(), role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %q: status %d, want %d", role, rec.Code, want)
		}
	}
}
