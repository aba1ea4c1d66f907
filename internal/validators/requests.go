// Package validators holds request and upload validation for the speakai
// server. Validation is decoupled from the transport layer so both handlers
// and services can enforce the same rules.
package validators

import (
	"net/mail"
	"strings"

	"github.com/speakai-app/speakai-server/models"
)

const minPasswordLength = 8

// ValidateRegisterRequest checks a registration payload.
func ValidateRegisterRequest(req models.RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrEmptyName
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if len(req.Password) < minPasswordLength {
		return ErrPasswordTooWeak
	}
	return nil
}

// ValidateLoginRequest checks a login payload.
func ValidateLoginRequest(req models.LoginRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return ErrPasswordTooWeak
	}
	return nil
}

// ValidateStartSessionRequest checks the session-start payload. Level is
// required; practice type defaults to freestyle when omitted.
func ValidateStartSessionRequest(req models.StartSessionRequest) error {
	if !req.Level.Valid() {
		return ErrInvalidLevel
	}
	if req.PracticeType != "" && !req.PracticeType.Valid() {
		return ErrInvalidPracticeType
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return ErrInvalidEmail
	}
	return nil
}
