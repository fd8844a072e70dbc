package service

import (
	"regexp"
	"strings"
)

const (
	handleMinLen   = 3
	handleMaxLen   = 150
	passwordMinLen = 3
	passwordMaxLen = 128
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validateRegistration checks all fields and returns one message per failing
// field, keyed by field name. An empty map means the input is acceptable.
func validateRegistration(in RegisterInput) map[string]any {
	problems := map[string]any{}

	switch {
	case in.Handle == "":
		problems["handle"] = "handle is required"
	case len(in.Handle) < handleMinLen || len(in.Handle) > handleMaxLen:
		problems["handle"] = "handle must be between 3 and 150 characters"
	case !handlePattern.MatchString(in.Handle):
		problems["handle"] = "handle may contain only letters, digits, hyphen and underscore"
	}

	switch {
	case in.Password == "":
		problems["password"] = "password is required"
	case len(in.Password) < passwordMinLen || len(in.Password) > passwordMaxLen:
		problems["password"] = "password must be between 3 and 128 characters"
	}

	if in.PasswordConfirm != in.Password {
		problems["password_confirm"] = "passwords do not match"
	}

	if msg := validateEmail(in.Email); msg != "" {
		problems["email"] = msg
	}

	return problems
}

func validateEmail(email string) string {
	if email == "" {
		return "email is required"
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "email address is invalid"
	}
	if !strings.Contains(email[at+1:], ".") {
		return "email address is invalid"
	}
	return ""
}
