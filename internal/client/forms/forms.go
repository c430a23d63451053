// Package forms validates user input before anything is sent to the API.
package forms

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"urlshortener/internal/domain/models"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 150
	minPasswordLen = 6
)

// Имена полей в ValidationError
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldOriginalURL     = "original_url"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type LoginForm struct {
	Username string
	Password string
}

func (f LoginForm) Validate() error {
	v := models.NewValidationError()

	if strings.TrimSpace(f.Username) == "" {
		v.Add(FieldUsername, "Username is required")
	}
	checkPassword(v, f.Password)

	return v.OrNil()
}

type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (f RegisterForm) Validate() error {
	v := models.NewValidationError()

	switch n := utf8.RuneCountInString(f.Username); {
	case strings.TrimSpace(f.Username) == "":
		v.Add(FieldUsername, "Username is required")
	case n < minUsernameLen:
		v.Add(FieldUsername, "Username must be at least 3 characters")
	case n > maxUsernameLen:
		v.Add(FieldUsername, "Username must be less than 150 characters")
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		v.Add(FieldEmail, "Email is required")
	case !emailRegex.MatchString(f.Email):
		v.Add(FieldEmail, "Please enter a valid email address")
	}

	checkPassword(v, f.Password)

	if f.Password != f.ConfirmPassword {
		v.Add(FieldConfirmPassword, "Passwords do not match")
	}

	return v.OrNil()
}

func checkPassword(v *models.ValidationError, password string) {
	switch {
	case password == "":
		v.Add(FieldPassword, "Password is required")
	case utf8.RuneCountInString(password) < minPasswordLen:
		v.Add(FieldPassword, "Password must be at least 6 characters")
	}
}

// ValidateURL проверяет адрес для новой ссылки.
func ValidateURL(raw string) error {
	return validateURL(raw, "URL is required")
}

// ValidateEditURL - то же для редактирования существующей ссылки.
func ValidateEditURL(raw string) error {
	return validateURL(raw, "URL cannot be empty")
}

func validateURL(raw, emptyMessage string) error {
	v := models.NewValidationError()

	switch {
	case strings.TrimSpace(raw) == "":
		v.Add(FieldOriginalURL, emptyMessage)
	case !IsAbsoluteURL(raw):
		v.Add(FieldOriginalURL, "Please enter a valid URL")
	}

	return v.OrNil()
}

// IsAbsoluteURL - есть схема и хост (или opaque часть, как у mailto:).
func IsAbsoluteURL(raw string) bool {
	if strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}
