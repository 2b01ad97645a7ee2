// Package schemas decodes and validates request payloads.
//
// A payload is loaded in two passes: every known field is decoded on its own
// so type mismatches are reported per field, then the typed struct is checked
// with validator tags and the rules from package validators. Failures are
// collected into FieldErrors instead of stopping at the first one.
package schemas

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired     = "Missing data for required field."
	msgInvalidEmail = "Not a valid email address."
	msgNotString    = "Not a valid string."
	msgUnknown      = "Unknown field."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a payload field to its validation messages.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Has reports whether field already failed.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(f[field], " "))
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

// orNil returns nil when no field failed so callers can test with == nil.
func (f FieldErrors) orNil() FieldErrors {
	if len(f) == 0 {
		return nil
	}
	return f
}

// payload is a JSON object split into its raw members.
type payload map[string]json.RawMessage

// parsePayload decodes body as a JSON object. Anything that is not an object
// is treated as an empty payload, so missing fields are reported as such.
func parsePayload(body []byte) payload {
	p := payload{}
	if len(body) == 0 {
		return p
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return payload{}
	}
	return p
}

// stringField decodes key as a string. A JSON null or an absent key yields nil.
func (p payload) stringField(key string, errs FieldErrors) *string {
	raw, ok := p[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		errs.Add(key, msgNotString)
		return nil
	}
	return &s
}

// rejectUnknown reports every key that is not in allowed.
func (p payload) rejectUnknown(errs FieldErrors, allowed ...string) {
	known := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		known[k] = struct{}{}
	}
	for key := range p {
		if _, ok := known[key]; !ok {
			errs.Add(key, msgUnknown)
		}
	}
}

// checkStruct runs the validator tags of s and records a message per failure,
// skipping fields that already failed to decode.
func checkStruct(s interface{}, errs FieldErrors) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return
	}
	for _, fe := range vErrs {
		field := fe.Field()
		if errs.Has(field) {
			continue
		}
		switch fe.Tag() {
		case "required":
			errs.Add(field, msgRequired)
		case "email":
			errs.Add(field, msgInvalidEmail)
		default:
			errs.Add(field, "Invalid value.")
		}
	}
}
