package rbac

import (
	"context"
	"strings"
)

// Allowed reports whether role holds any of perms under RolePermissions.
func Allowed(role string, perms ...string) bool {
	for _, granted := range RolePermissions[role] {
		for _, p := range perms {
			if matchPerm(granted, p) {
				return true
			}
		}
	}
	return false
}

// matchPerm: "*" grants everything, "sets:*" grants by prefix.
func matchPerm(granted, perm string) bool {
	if granted == "*" || granted == perm {
		return true
	}
	prefix, ok := strings.CutSuffix(granted, "*")
	return ok && strings.HasPrefix(perm, prefix)
}

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext is "" outside the JWT middleware.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
