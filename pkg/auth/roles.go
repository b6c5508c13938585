package auth

import "aquamon.io/water-quality-service/pkg/models"

// RoleSatisfies reports whether a caller with role have clears the given
// allowed set. Roles form a two level hierarchy: admin satisfies every tier,
// so an endpoint gated on "user" also admits admins. An empty allowed set
// admits any authenticated caller.
func RoleSatisfies(have models.Role, allowed []models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if have == r {
			return true
		}
		if r == models.RoleUser && have == models.RoleAdmin {
			return true
		}
	}
	return false
}
