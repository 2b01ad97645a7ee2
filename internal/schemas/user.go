package schemas

import (
	"strings"
	"time"

	"galaxia/internal/models"
	"galaxia/internal/validators"
)

// UserCreate is the payload accepted when registering a user.
type UserCreate struct {
	Name     *string `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required"`
}

// NewUser holds the normalized fields of a valid UserCreate payload.
type NewUser struct {
	Name     string
	Email    string
	Password string
}

// LoadUserCreate decodes and validates a user creation payload.
func LoadUserCreate(body []byte) (*NewUser, FieldErrors) {
	errs := FieldErrors{}
	p := parsePayload(body)
	p.rejectUnknown(errs, "name", "email", "password")

	in := UserCreate{
		Name:     p.stringField("name", errs),
		Email:    trimmed(p.stringField("email", errs)),
		Password: p.stringField("password", errs),
	}
	checkStruct(in, errs)
	checkName(in.Name, errs)
	checkPassword(in.Password, errs)

	if errs = errs.orNil(); errs != nil {
		return nil, errs
	}
	return &NewUser{
		Name:     strings.TrimSpace(*in.Name),
		Email:    *in.Email,
		Password: *in.Password,
	}, nil
}

// UserUpdate is the payload accepted when updating a user. Every field is optional.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
}

// UserChanges holds only the fields explicitly supplied in an update.
type UserChanges struct {
	Name     *string
	Email    *string
	Password *string
}

// Empty reports whether no field was supplied.
func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.Password == nil
}

// LoadUserUpdate decodes and validates a partial user update. Fields sent as
// null are dropped, so only explicitly supplied values reach the store.
func LoadUserUpdate(body []byte) (*UserChanges, FieldErrors) {
	errs := FieldErrors{}
	p := parsePayload(body)
	p.rejectUnknown(errs, "name", "email", "password")

	in := UserUpdate{
		Name:     p.stringField("name", errs),
		Email:    trimmed(p.stringField("email", errs)),
		Password: p.stringField("password", errs),
	}
	if in.Email != nil && *in.Email == "" {
		errs.Add("email", msgInvalidEmail)
	}
	checkStruct(in, errs)
	if in.Name != nil {
		checkName(in.Name, errs)
	}
	if in.Password != nil {
		checkPassword(in.Password, errs)
	}

	if errs = errs.orNil(); errs != nil {
		return nil, errs
	}
	changes := &UserChanges{Email: in.Email, Password: in.Password}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		changes.Name = &name
	}
	return changes, nil
}

// UserOutput is the public representation of a user. It never carries the password hash.
type UserOutput struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserOutput converts a stored user to its public representation.
func NewUserOutput(u *models.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserOutputs converts a list of users.
func NewUserOutputs(users []models.User) []UserOutput {
	out := make([]UserOutput, 0, len(users))
	for i := range users {
		out = append(out, NewUserOutput(&users[i]))
	}
	return out
}

func checkName(name *string, errs FieldErrors) {
	if name == nil || errs.Has("name") {
		return
	}
	if err := validators.ValidateName(name); err != nil {
		errs.Add("name", err.Error())
	}
}

func checkPassword(password *string, errs FieldErrors) {
	if password == nil || errs.Has("password") {
		return
	}
	if err := validators.ValidatePassword(password); err != nil {
		errs.Add("password", err.Error())
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
