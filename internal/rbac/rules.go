package rbac

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"user": {
		"sets:view-live",
		"results:submit",
	},
	"admin": {
		"*", // everything
	},
}
