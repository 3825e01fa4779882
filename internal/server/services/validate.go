package services

import (
	"net/mail"
	"regexp"
	"strings"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 200
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9._]{3,30}$`)
	codePattern     = regexp.MustCompile(`^[0-9]{6}$`)
)

func validateName(name string) error {
	switch {
	case name == "":
		return invalid("name", "is required")
	case len(name) > maxNameLength:
		return invalid("name", "is too long")
	}
	return nil
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return invalid("username", "must be 3-30 characters of a-z, 0-9, '.' or '_'")
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "is not a valid address")
	}
	_, domain, _ := strings.Cut(addr.Address, "@")
	if !strings.Contains(domain, ".") {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// isCode reports whether credential has the shape of a TOTP code rather
// than a bearer token.
func isCode(credential string) bool {
	return codePattern.MatchString(credential)
}
