package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/staff-portal/internal/core/domain"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	identity := domain.SessionIdentity{Role: domain.RoleEmployee, Username: "Joana Doe"}

	issued, err := iss.Issue(identity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.ID == "" {
		t.Fatalf("expected token id")
	}

	claims, err := iss.Parse(issued.Value)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := claims.Identity()
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if got != identity {
		t.Fatalf("expected %+v, got %+v", identity, got)
	}
	if claims.ID != issued.ID {
		t.Fatalf("expected jti %s, got %s", issued.ID, claims.ID)
	}
}

func TestIssuer_RejectsAnonymous(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	if _, err := iss.Issue(domain.Anonymous); !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	issued, err := NewIssuer("secret", time.Hour).Issue(domain.SessionIdentity{Role: domain.RoleAdmin, Username: "John Doe"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("other", time.Hour).Parse(issued.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_Expired(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	issued, err := iss.Issue(domain.SessionIdentity{Role: domain.RoleAdmin, Username: "John Doe"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	iss.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := iss.Parse(issued.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Role: "ADMIN", Username: "John Doe"})
	signed, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestClaims_UnknownRole(t *testing.T) {
	c := &Claims{Role: "OWNER", Username: "x"}
	if _, err := c.Identity(); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
