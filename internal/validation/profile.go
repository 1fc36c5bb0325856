package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const maxNamePartLength = 100

// NormalizeEmail trims email and requires a bare syntactically valid address.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email address")
	}
	return email, nil
}

// NamePart trims a first or last name and enforces the length limit.
func NamePart(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if len([]rune(value)) > maxNamePartLength {
		return "", fmt.Errorf("%s too long (max %d characters)", field, maxNamePartLength)
	}
	return value, nil
}
