package authclient

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nameRe  = regexp.MustCompile(`^[A-Za-z]+$`)
	// Egyptian mobile numbers: carrier prefix plus 8 digits.
	phoneRe = regexp.MustCompile(`^(010|011|012|015)[0-9]{8}$`)
)

// FieldErrors maps a field name to its validation message. It reports every
// failing field at once so a form can show all messages inline.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + fe[f]
	}
	return strings.Join(parts, "; ")
}

func ValidateRegistration(req RegisterRequest) error {
	fe := FieldErrors{}

	switch {
	case req.Email == "":
		fe["email"] = "email is required"
	case !emailRe.MatchString(req.Email):
		fe["email"] = "invalid email address"
	}

	switch {
	case req.Password == "":
		fe["password"] = "password is required"
	case len(req.Password) < 6:
		fe["password"] = "password must be at least 6 characters"
	}

	switch {
	case req.FirstName == "":
		fe["first_name"] = "first name is required"
	case !nameRe.MatchString(req.FirstName):
		fe["first_name"] = "first name must only contain letters"
	}

	switch {
	case req.LastName == "":
		fe["last_name"] = "last name is required"
	case !nameRe.MatchString(req.LastName):
		fe["last_name"] = "last name must only contain letters"
	}

	switch {
	case req.PhoneNumber == "":
		fe["phone_number"] = "phone number is required"
	case !phoneRe.MatchString(req.PhoneNumber):
		fe["phone_number"] = "phone number is not valid"
	}

	if len(fe) > 0 {
		return fe
	}
	return nil
}
