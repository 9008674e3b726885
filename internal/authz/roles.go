package authz

import "workdesk/internal/models"

func IsAdmin(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanActFor allows admins to act on anyone and users only on themselves.
func CanActFor(role models.Role, actorID, targetID string) bool {
	if IsAdmin(role) {
		return true
	}
	return actorID == targetID
}
