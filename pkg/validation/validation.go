package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// Errors is the list of field errors returned with a 400 response.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Path, fe.Msg))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Has reports whether a field error exists for path.
func (e Errors) Has(path string) bool {
	for _, fe := range e {
		if fe.Path == path {
			return true
		}
	}
	return false
}

// ErrorResponse is the body of a 400 response carrying field errors.
type ErrorResponse struct {
	Errors Errors `json:"errors"`
}

func Field(path string, value any, msg string) FieldError {
	return FieldError{
		Type:     "field",
		Value:    value,
		Msg:      msg,
		Path:     path,
		Location: "body",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates v against its `validate` tags. Paths are reported relative
// to prefix, e.g. "order_items[0].price".
func Struct(prefix string, v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{Field(prefix, nil, err.Error())}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		out = append(out, Field(path, fe.Value(), message(fe)))
	}
	return out
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "email":
		return "must be a valid email"
	default:
		return "Invalid value"
	}
}

// Column widths of the contact fields.
const (
	MaxNameLength  = 255
	MaxEmailLength = 255
	MaxPhoneLength = 50
)

// Length returns a field error when s is longer than max characters.
func Length(path string, s *string, max int) (FieldError, bool) {
	if s == nil || validate.Var(*s, "max="+strconv.Itoa(max)) == nil {
		return FieldError{}, false
	}
	return Field(path, *s, fmt.Sprintf("must be at most %d characters", max)), true
}

// Sanitize trims s and escapes HTML special characters.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// NormalizeEmail lower-cases the address. For gmail.com and googlemail.com
// addresses dots and "+tag" suffixes are removed from the local part and the
// domain is rewritten to gmail.com.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]

	if domain == "gmail.com" || domain == "googlemail.com" {
		if i := strings.IndexByte(local, '+'); i >= 0 {
			local = local[:i]
		}
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	}
	return local + "@" + domain
}
