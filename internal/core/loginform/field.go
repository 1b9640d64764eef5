package loginform

import (
	"errors"

	"github.com/99minutos/staff-portal/internal/core/validation"
)

// FieldName identifies one of the two form inputs.
type FieldName string

const (
	FieldEmail    FieldName = "email"
	FieldPassword FieldName = "password"
)

var ErrUnknownField = errors.New("unknown form field")

// ParseFieldName accepts the input names used by the login page.
func ParseFieldName(s string) (FieldName, error) {
	switch FieldName(s) {
	case FieldEmail, FieldPassword:
		return FieldName(s), nil
	}
	return "", ErrUnknownField
}

// Field is one input: its raw value and its validation message. An empty
// message means valid or not yet checked.
type Field struct {
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Invalid reports whether a message is showing.
func (f Field) Invalid() bool {
	return f.Message != ""
}

type fieldRules struct {
	valid    func(string) bool
	invalid  string
	required string
}

var rules = map[FieldName]fieldRules{
	FieldEmail: {
		valid:    validation.ValidateEmail,
		invalid:  validation.MessageEmailInvalid,
		required: validation.MessageEmailRequired,
	},
	FieldPassword: {
		valid:    validation.ValidatePassword,
		invalid:  validation.MessagePasswordInvalid,
		required: validation.MessagePasswordRequired,
	},
}
