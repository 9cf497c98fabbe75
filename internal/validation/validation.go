package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Errors maps a request field (by its json name) to a client-facing message.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}

// messages holds the text for each field/rule pair, keyed "field.tag".
var messages = map[string]string{
	"name.required":         "Name field is required",
	"email.required":        "Email field is required",
	"email.email":           "Email is invalid",
	"password.required":     "Password field is required",
	"password.min":          "Password must be at least 6 characters",
	"password.max":          "Password must be at least 6 characters",
	"password2.required":    "Confirm password field is required",
	"password2.eqfield":     "Passwords must match",
	"resetcode.required":    "Reset code is required",
	"validatecode.required": "Validation code is required",
}

// Validator checks request structs.
type Validator interface {
	Validate(s any) error
}

type structValidator struct{}

// New returns the shared struct-tag validator.
func New() Validator {
	return structValidator{}
}

func (structValidator) Validate(s any) error {
	return ValidateStruct(s)
}

// ValidateStruct validates s using its `validate` tags. Failures are
// returned as Errors with one message per field.
func ValidateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(Errors, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if tag == "required" {
		return field + " field is required"
	}
	return field + " is invalid"
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if comma := strings.Index(name, ","); comma != -1 {
				name = name[:comma]
			}
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}
