package models

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register is the registration DTO. Exactly one of Phone/Email must be set.
type Register struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	DeviceID string `json:"device_id"`
}

// Validate checks every field eagerly and returns the full list of problems.
// An empty slice means the request is well-formed.
func (r *Register) Validate() []FieldError {
	var errs []FieldError

	if !isAlnum(r.Username) {
		errs = append(errs, FieldError{"username", "Username must contain only alphanumeric characters."})
	}
	if len(r.Username) < 3 || len(r.Username) > 20 {
		errs = append(errs, FieldError{"username", "Username must be between 3 and 20 characters."})
	}

	if len(r.Password) < 8 {
		errs = append(errs, FieldError{"password", "Password must be at least 8 characters."})
	} else if len(r.Password) > 32 {
		errs = append(errs, FieldError{"password", "Password must be at most 32 characters."})
	}

	switch {
	case r.Phone == "" && r.Email == "":
		errs = append(errs, FieldError{"phone", "At least one of phone or email must be provided."})
	case r.Phone != "" && r.Email != "":
		errs = append(errs, FieldError{"phone", "Only one of phone or email can be provided."})
	}

	if r.Phone != "" && r.Phone[0] != '+' {
		errs = append(errs, FieldError{"phone", "Phone number must be in E.164 format."})
	}
	if r.Email != "" && !emailPattern.MatchString(r.Email) {
		errs = append(errs, FieldError{"email", "Email address is not valid."})
	}

	if r.DeviceID == "" {
		errs = append(errs, FieldError{"device_id", "Device ID must be provided."})
	}

	return errs
}

// Login is the login DTO. Identity is a username or an email address.
type Login struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

// Validate checks the login fields eagerly.
func (l *Login) Validate() []FieldError {
	var errs []FieldError

	if !emailPattern.MatchString(l.Identity) && !isAlnum(l.Identity) {
		errs = append(errs, FieldError{"identity", "Identity must be a valid email or username."})
	}
	if l.Password == "" {
		errs = append(errs, FieldError{"password", "Password must be provided."})
	}
	if l.DeviceID == "" {
		errs = append(errs, FieldError{"device_id", "Device ID must be provided."})
	}

	return errs
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
