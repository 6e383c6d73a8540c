// Package session holds the authenticated principal for the lifetime of a
// browser session and maps roles to their home dashboards.
package session

import "strings"

// Role is the closed set of user types known to the portal.
type Role string

const (
	RolePatient       Role = "patient"
	RoleDoctor        Role = "doctor"
	RolePharmacist    Role = "pharmacist"
	RoleNurse         Role = "nurse"
	RoleLabTechnician Role = "lab_technician"
	RoleAdministrator Role = "administrator"
)

// ParseRole maps a raw user_type string onto a known Role. Unknown values
// return ok=false so callers fail closed.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(raw)) {
	case RolePatient:
		return RolePatient, true
	case RoleDoctor:
		return RoleDoctor, true
	case RolePharmacist:
		return RolePharmacist, true
	case RoleNurse:
		return RoleNurse, true
	case RoleLabTechnician:
		return RoleLabTechnician, true
	case RoleAdministrator:
		return RoleAdministrator, true
	}
	return "", false
}

// RoleHome returns the canonical dashboard route for a role. Every redirect
// decision in the portal goes through this one mapping; anything outside the
// known set lands on /login.
func RoleHome(role Role) string {
	switch role {
	case RolePatient:
		return "/patient"
	case RoleDoctor:
		return "/doctor"
	case RolePharmacist:
		return "/pharmacist"
	case RoleNurse:
		return "/nurse"
	case RoleLabTechnician:
		return "/labtech"
	case RoleAdministrator:
		return "/admin"
	default:
		return "/login"
	}
}

// Principal is the authenticated user held for the session.
type Principal struct {
	ID        string `json:"id"`
	Role      Role   `json:"user_type"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// DisplayName returns "First Last", falling back to the username.
func (p Principal) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}
