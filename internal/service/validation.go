package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MsgFieldRequired = "Field required"
	MsgEmptyString   = "String must not be empty"
	MsgAuthorFormat  = "Author name must start with uppercase letter, is: %s"
)

const (
	tagRequired    = "required"
	tagNonBlank    = "nonblank"
	tagCapitalized = "capitalized"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(tagNonBlank, nonBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation(tagCapitalized, capitalized); err != nil {
		panic(err)
	}
	return v
}

func nonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// capitalized rejects a value whose first rune is a lowercase letter.
func capitalized(fl validator.FieldLevel) bool {
	r, _ := utf8.DecodeRuneInString(fl.Field().String())
	return !unicode.IsLower(r)
}

// validateRequest runs the struct tags of req and converts failures into a *ValidationError.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	out := &ValidationError{Violations: make([]FieldViolation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, toViolation(fe))
	}
	return out
}

func toViolation(fe validator.FieldError) FieldViolation {
	v := FieldViolation{Field: fe.Field(), Input: deref(fe.Value())}

	switch fe.Tag() {
	case tagRequired:
		v.Type = "missing"
		v.Message = MsgFieldRequired
		v.Input = nil
	case tagNonBlank:
		v.Type = "value_error"
		v.Message = MsgEmptyString
	case tagCapitalized:
		v.Type = "value_error"
		v.Message = fmt.Sprintf(MsgAuthorFormat, v.Input)
	default:
		v.Type = fe.Tag()
		v.Message = fe.Error()
	}
	return v
}

func deref(v any) any {
	if p, ok := v.(*string); ok {
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
