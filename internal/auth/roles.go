package auth

// Admin console roles. Support staff can inspect the redemption queue; only
// admin and superadmin change missions, prizes, and redemption outcomes.
const (
	RoleSupport    = "support"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// AllAdminRoles lists every role accepted on the admin realm.
func AllAdminRoles() []string {
	return []string{RoleSupport, RoleAdmin, RoleSuperAdmin}
}

// WriteRoles lists the roles allowed to modify reward configuration.
func WriteRoles() []string {
	return []string{RoleAdmin, RoleSuperAdmin}
}
