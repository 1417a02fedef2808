package session

import (
	"regexp"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/domain"
)

type IdentifierKind int

const (
	IdentifierUsername IdentifierKind = iota
	IdentifierEmail
	IdentifierPhone
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierEmail:
		return "email"
	case IdentifierPhone:
		return "phone"
	default:
		return "username"
	}
}

var digitsOnly = regexp.MustCompile(`^\d{10,}$`)

// Classify decides which login field an identifier fills: anything with an
// "@" is an email, a leading "+" or ten or more digits is a phone number,
// and everything else is a username.
func Classify(identifier string) IdentifierKind {
	switch {
	case strings.Contains(identifier, "@"):
		return IdentifierEmail
	case strings.HasPrefix(identifier, "+"), digitsOnly.MatchString(identifier):
		return IdentifierPhone
	default:
		return IdentifierUsername
	}
}

// Credentials builds the login payload for identifier and password.
func Credentials(identifier, password string) domain.LoginRequest {
	identifier = strings.TrimSpace(identifier)
	req := domain.LoginRequest{Password: password}
	switch Classify(identifier) {
	case IdentifierEmail:
		req.Email = identifier
	case IdentifierPhone:
		req.Phone = identifier
	default:
		req.Username = identifier
	}
	return req
}

// Recovery builds the forgot-password payload for identifier.
func Recovery(identifier string) domain.ForgotPasswordRequest {
	creds := Credentials(identifier, "")
	return domain.ForgotPasswordRequest{Email: creds.Email, Phone: creds.Phone, Username: creds.Username}
}
