package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrEmailTaken       = errors.New("email already taken")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("password too short")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotLoggedIn      = errors.New("not logged in")
)

const minPasswordLength = 6

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PhotoURL     string    `json:"photoURL"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfileUpdate holds the profile fields to change. Nil fields are left as they are.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// NormalizeEmail lower-cases and trims the email and checks it is a bare address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, minPasswordLength)
	}
	return nil
}
