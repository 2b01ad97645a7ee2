package schemas

import "strings"

// Login is the payload of a login attempt.
type Login struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoadLogin decodes a login payload. Missing, blank or non-string values are
// reported as required fields. The email is trimmed, the password is not.
func LoadLogin(body []byte) (*Login, FieldErrors) {
	errs := FieldErrors{}
	p := parsePayload(body)

	var in Login
	if email := p.stringField("email", FieldErrors{}); email != nil {
		in.Email = strings.TrimSpace(*email)
	}
	if password := p.stringField("password", FieldErrors{}); password != nil {
		in.Password = *password
	}
	checkStruct(in, errs)

	if errs = errs.orNil(); errs != nil {
		return nil, errs
	}
	return &in, nil
}
