// Package validate checks console forms with go-playground/validator and
// turns the first failure into a message fit to show next to the field.
//
// Forms are plain structs. The `validate` tag holds the rules, `form` names
// the input the error belongs to and `label` is the human name used in the
// message:
//
//	Name string `form:"name" label:"Tenant name" validate:"notblank,min=2"`
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FieldError is a rejected form field. It never reaches the network.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns the first failing field, in declaration
// order, as a *FieldError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate form: %w", err)
	}
	fe := verrs[0]
	return &FieldError{
		Field:   formName(s, fe.StructField()),
		Message: message(fe),
	}
}

var std = New()

// Struct validates s with a shared Validator.
func Struct(s any) error {
	return std.Struct(s)
}

// AsFieldError unwraps err into a *FieldError.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "eqfield":
		return label + " do not match"
	case "email":
		return label + " must be a valid email address"
	case "url":
		return label + " must be a valid URL"
	default:
		return label + " is invalid"
	}
}

func formName(s any, field string) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(field)
	}
	sf, ok := t.FieldByName(field)
	if !ok {
		return strings.ToLower(field)
	}
	if name := sf.Tag.Get("form"); name != "" {
		return name
	}
	return strings.ToLower(field)
}
