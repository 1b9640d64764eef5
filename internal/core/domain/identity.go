package domain

import "strings"

// Role is the permission class of a session.
type Role string

const (
	// RoleNone is the role of an anonymous session.
	RoleNone     Role = ""
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole maps a wire value onto a known role. Unknown values are rejected
// so that a misconfigured credential store can never mint a new role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleNone:
		return RoleNone, nil
	}
	return RoleNone, ErrUnknownRole
}

func (r Role) String() string {
	if r == RoleNone {
		return "NONE"
	}
	return string(r)
}

// Authenticated reports whether r denotes a signed-in session.
func (r Role) Authenticated() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// SessionIdentity is the role and display name held for an application run.
type SessionIdentity struct {
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

// Anonymous is the identity every run starts with.
var Anonymous = SessionIdentity{}

// Authenticated reports whether the identity carries a role.
func (s SessionIdentity) Authenticated() bool {
	return s.Role.Authenticated()
}

// Validate checks that role and username are either both set or both empty.
func (s SessionIdentity) Validate() error {
	switch {
	case s.Role == RoleNone && s.Username == "":
		return nil
	case s.Role == RoleNone:
		return ErrInvalidIdentity
	case !s.Role.Authenticated():
		return ErrUnknownRole
	case strings.TrimSpace(s.Username) == "":
		return ErrInvalidIdentity
	}
	return nil
}
