package handler

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/staff-portal/internal/core/validation"
)

// FieldErrors maps a JSON field name to the message shown for it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fe[name])
	}
	return strings.Join(parts, "; ")
}

// requestValidator lets handlers call c.Validate(req) with the portal tags.
type requestValidator struct {
	v *validator.Validate
}

func NewValidator() *requestValidator {
	v := validation.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s is required", fe.Field())
	case validation.TagEmail:
		return validation.MessageEmailInvalid
	case validation.TagPassword:
		return validation.MessagePasswordInvalid
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("The %s is invalid", fe.Field())
}
