package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Credentials is the login form
type Credentials struct {
	Email    string `form:"email" validate:"required" label:"Email"`
	Password string `form:"password" validate:"required" label:"Password"`
}

// Registration is the signup form
type Registration struct {
	Name     string `form:"name" validate:"required" label:"Name"`
	Phone    string `form:"phone" validate:"required,len=10,numeric" label:"Phone Number"`
	Email    string `form:"email" validate:"required,email" label:"Email"`
	Password string `form:"password" validate:"required,min=6" label:"Password"`
	Role     string `form:"role" validate:"required,oneof=user admin" label:"Role"`
}

// ValidationError lists every field that failed validation, in field order
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// NewValidator returns a validator that reports fields by their label tag
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// Validate checks s against its validate tags and converts failures into
// a *ValidationError with form-style messages
func Validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("Min %s chars", fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s digits", name, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
