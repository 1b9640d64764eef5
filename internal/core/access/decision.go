package access

import "github.com/99minutos/staff-portal/internal/core/domain"

// Kind tags a Decision.
type Kind int

const (
	KindRender Kind = iota
	KindRedirect
)

// Decision is either Render(destination, identity) or Redirect(destination).
// The router consumes both the same way.
type Decision struct {
	Kind        Kind
	Destination Destination
	// Identity is set on Render decisions only.
	Identity domain.SessionIdentity
	Outcome  Outcome
}

func render(dest Destination, identity domain.SessionIdentity, outcome Outcome) Decision {
	return Decision{Kind: KindRender, Destination: dest, Identity: identity, Outcome: outcome}
}

func redirect(dest Destination, outcome Outcome) Decision {
	return Decision{Kind: KindRedirect, Destination: dest, Outcome: outcome}
}

// Redirect reports whether the router should navigate away.
func (d Decision) Redirect() bool {
	return d.Kind == KindRedirect
}

// Guard evaluates a navigation to a protected destination. It is called on
// every navigation; nothing is cached between calls.
func Guard(dest Destination, identity domain.SessionIdentity) Decision {
	outcome := Authorize(identity, dest.Policy)
	switch outcome {
	case Unauthenticated:
		return redirect(Login, outcome)
	case ForbiddenButAuthenticated:
		return redirect(Home(identity.Role), outcome)
	default:
		return render(dest, identity, outcome)
	}
}

// LoginPage decides what the login destination shows. A signed-in session is
// sent to its home before any form state is looked at.
func LoginPage(identity domain.SessionIdentity) Decision {
	if identity.Authenticated() {
		return redirect(Home(identity.Role), Authorized)
	}
	return render(Login, identity, Unauthenticated)
}

// Evaluate dispatches to LoginPage or Guard depending on the destination.
func Evaluate(dest Destination, identity domain.SessionIdentity) Decision {
	if dest.Public {
		return LoginPage(identity)
	}
	return Guard(dest, identity)
}
