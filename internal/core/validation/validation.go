// Package validation holds the login field predicates. They are registered as
// go-playground/validator tags so request structs can reuse them.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// TagEmail validates the local@domain.tld shape.
	TagEmail = "portal_email"
	// TagPassword validates the four password rules.
	TagPassword = "portal_password"

	minPasswordLength = 8
)

const (
	MessageEmailRequired    = "The email is required"
	MessagePasswordRequired = "The password is required"
	MessageEmailInvalid     = "The email is invalid. Example: john.doe@mail.com"
	MessagePasswordInvalid  = "The password must contain at least 8 characters, one upper case letter, one number and one special character"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var std = New()

// New returns a validator with the portal tags registered.
func New() *validator.Validate {
	v := validator.New()
	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation(TagEmail, func(fl validator.FieldLevel) bool {
		return isEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(TagPassword, func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	return v
}

// ValidateEmail reports whether value looks like local@domain.tld.
func ValidateEmail(value string) bool {
	return std.Var(value, TagEmail) == nil
}

// ValidatePassword reports whether value is at least 8 characters long and
// contains an upper case letter, a digit and a non-alphanumeric character.
func ValidatePassword(value string) bool {
	return std.Var(value, TagPassword) == nil
}

func isEmail(s string) bool {
	// RE2 \s is ASCII only; vertical tab, NBSP and other Unicode spaces are
	// rejected here.
	if strings.IndexFunc(s, isSpace) >= 0 {
		return false
	}
	return emailPattern.MatchString(s)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func isStrongPassword(s string) bool {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false
	}
	var upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	return upper && digit && special
}
