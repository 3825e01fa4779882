package services

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// CodeLength is the number of digits in a second-factor code.
const CodeLength = 6

var aliasPattern = regexp.MustCompile(`^[a-z0-9._]{3,30}$`)

// ValidateCode rejects anything but exactly six ASCII digits.
func ValidateCode(code string) error {
	if len(code) != CodeLength {
		return client.Invalid("code", "must be 6 digits")
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return client.Invalid("code", "must be 6 digits")
		}
	}
	return nil
}

func ValidateAlias(alias string) error {
	if strings.TrimSpace(alias) == "" {
		return client.Invalid("alias", "is required")
	}
	if !aliasPattern.MatchString(alias) {
		return client.Invalid("alias", "may contain only lowercase letters, digits, dots and underscores (3-30)")
	}
	return nil
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return client.Invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return client.Invalid("email", "is not a valid address")
	}
	return nil
}

// ValidateIdentity checks what a user asserts before registration.
func ValidateIdentity(id models.Identity) error {
	if strings.TrimSpace(id.Name) == "" {
		return client.Invalid("name", "is required")
	}
	if err := ValidateAlias(id.Alias); err != nil {
		return err
	}
	return ValidateEmail(id.Email)
}

// ValidateTransfer checks a request before any network call is made.
func ValidateTransfer(from string, req models.TransferRequest) error {
	if req.Amount <= 0 {
		return client.Invalid("amount", "must be positive")
	}
	to := strings.TrimSpace(req.ToAlias)
	if to == "" {
		return client.Invalid("recipient", "is required")
	}
	if to == from {
		return client.Invalid("recipient", "must differ from sender")
	}
	if strings.TrimSpace(req.Description) == "" {
		return client.Invalid("description", "is required")
	}
	return nil
}
