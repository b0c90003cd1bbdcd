// Package validation checks request inputs with go-playground/validator and
// converts failures into field-level application errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "trivedia/internal/errors"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	httpURLPattern  = regexp.MustCompile(`^https?://.+`)
)

// Enum is implemented by the string enums of the model package.
type Enum interface {
	Valid() bool
}

// Validator validates structs and reports every failing field.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom tags registered:
//
//	username  letters, digits and underscores only
//	httpurl   http(s) URL
//	link      http(s) URL or a path starting with "/"
//	enum      value's Valid() method returns true
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		fl, _ := d.Float64()
		return fl
	}, decimal.Decimal{})

	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "httpurl", func(fl validator.FieldLevel) bool {
		return httpURLPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "link", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return httpURLPattern.MatchString(s) || strings.HasPrefix(s, "/")
	})
	mustRegister(v, "enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(Enum)
		return ok && e.Valid()
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates s. Failures come back as a Validation *apperrors.Error
// carrying one FieldError per offending field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Internal(err)
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return apperrors.Validation(fields...)
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.Struct(i)
}

// fieldPath drops the top-level struct name from the namespace, leaving
// e.g. "testimonials[0].quote".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	kind := fe.Kind()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return boundMessage(kind, "at least", fe.Param())
	case "max":
		return boundMessage(kind, "at most", fe.Param())
	case "len":
		return boundMessage(kind, "exactly", fe.Param())
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "username":
		return "can only contain letters, numbers, and underscores"
	case "httpurl":
		return "must be a valid URL"
	case "link":
		return "must be a valid URL or internal path"
	case "enum":
		return fmt.Sprintf("has an invalid value %q", fmt.Sprint(fe.Value()))
	}
	return "is invalid"
}

func boundMessage(kind reflect.Kind, rel, n string) string {
	switch kind {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", rel, n)
	case reflect.Slice, reflect.Map, reflect.Array:
		return fmt.Sprintf("must contain %s %s items", rel, n)
	}
	return fmt.Sprintf("must be %s %s", rel, n)
}
