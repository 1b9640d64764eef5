// Package access decides, for a session identity and a destination, whether
// the destination renders or the router redirects somewhere else.
package access

import (
	"github.com/99minutos/staff-portal/internal/core/domain"
)

// Outcome is the result of checking a session against a policy.
type Outcome int

const (
	Unauthenticated Outcome = iota
	Authorized
	ForbiddenButAuthenticated
)

func (o Outcome) String() string {
	switch o {
	case Authorized:
		return "authorized"
	case ForbiddenButAuthenticated:
		return "forbidden_but_authenticated"
	default:
		return "unauthenticated"
	}
}

// Policy lists the roles allowed to view a destination. An empty set means
// any authenticated role.
type Policy struct {
	AllowedRoles []domain.Role
}

// AnyAuthenticated admits every signed-in role.
func AnyAuthenticated() Policy {
	return Policy{}
}

// Only admits the given roles.
func Only(roles ...domain.Role) Policy {
	return Policy{AllowedRoles: roles}
}

// Restricted reports whether the policy names explicit roles.
func (p Policy) Restricted() bool {
	return len(p.AllowedRoles) > 0
}

func (p Policy) permits(role domain.Role) bool {
	if !p.Restricted() {
		return true
	}
	for _, r := range p.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize is the single authorization function. Authentication is checked
// before role membership, so an anonymous session is never "forbidden".
func Authorize(identity domain.SessionIdentity, policy Policy) Outcome {
	if !identity.Authenticated() {
		return Unauthenticated
	}
	if !policy.permits(identity.Role) {
		return ForbiddenButAuthenticated
	}
	return Authorized
}

// Allows reports whether identity may use an affordance restricted to roles.
func Allows(identity domain.SessionIdentity, roles ...domain.Role) bool {
	return Authorize(identity, Only(roles...)) == Authorized
}
