// Package forms validates user input for the auth forms before it is sent to
// the platform, mirroring the validation the API applies server-side so the
// user gets immediate feedback instead of a round-trip error.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginInput is the login form payload.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterInput is the registration form payload. ConfirmPassword must match
// Password exactly.
type RegisterInput struct {
	Email            string `validate:"required,email"`
	Password         string `validate:"required,min=8"`
	ConfirmPassword  string `validate:"required,eqfield=Password"`
	FullName         string `validate:"required,min=2"`
	OrganizationName string `validate:"omitempty,min=2"`
}

// ValidationError aggregates per-field messages for one form submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	return strings.Join(msgs, "; ")
}

// Message returns the message for a specific field, or "".
func (e *ValidationError) Message(field string) string {
	return e.Fields[field]
}

// ValidateLogin checks the login form. The returned error, if any, is a
// *ValidationError.
func ValidateLogin(in LoginInput) error {
	return translate(validate.Struct(in))
}

// ValidateRegister checks the registration form. The returned error, if any,
// is a *ValidationError.
func ValidateRegister(in RegisterInput) error {
	return translate(validate.Struct(in))
}

// ValidateField checks a single field of a form struct, for live per-field
// feedback while the user types. An empty return means the field is valid.
func ValidateField(form any, field string) string {
	err := validate.StructPartial(form, field)
	if err == nil {
		return ""
	}
	var verr validator.ValidationErrors
	if errors.As(err, &verr) && len(verr) > 0 {
		return fieldMessage(verr[0])
	}
	return err.Error()
}

// translate converts validator's error chain into readable field messages.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return err
	}

	fields := make(map[string]string, len(verr))
	for _, fe := range verr {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldLabel(fe.Field()))
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("invalid %s", fieldLabel(fe.Field()))
	}
}

func fieldLabel(field string) string {
	switch field {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "ConfirmPassword":
		return "password confirmation"
	case "FullName":
		return "full name"
	case "OrganizationName":
		return "organization name"
	default:
		return field
	}
}
