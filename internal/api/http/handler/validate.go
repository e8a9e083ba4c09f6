package handler

import (
	"regexp"
	"strings"

	"github.com/kindnet/kindnet-server/internal/apierrors"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
)

const (
	minPasswordLength = 6
	minNameLength     = 2
)

func validateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return apierrors.NewValidation("invalid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apierrors.NewValidation("password must be at least 6 characters")
	}
	return nil
}

func validateRegistration(req registerRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if len(strings.TrimSpace(req.FirstName)) < minNameLength {
		return apierrors.NewValidation("first name must be at least 2 characters")
	}
	if len(strings.TrimSpace(req.LastName)) < minNameLength {
		return apierrors.NewValidation("last name must be at least 2 characters")
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		return apierrors.NewValidation("invalid phone number")
	}
	if !zipPattern.MatchString(req.ZipCode) {
		return apierrors.NewValidation("invalid zip code")
	}
	return nil
}
