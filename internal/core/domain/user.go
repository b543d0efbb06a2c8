package domain

import (
	"strings"
	"time"
)

// User is the public identity of an account.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	FullName  string    `json:"full_name" yaml:"full_name"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Validate checks that every field is present.
func (r RegisterRequest) Validate() error {
	if err := requireEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return ErrMissingArgument.WithDetails("password")
	}
	if strings.TrimSpace(r.FullName) == "" {
		return ErrMissingArgument.WithDetails("full_name")
	}
	return nil
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	if err := requireEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return ErrMissingArgument.WithDetails("password")
	}
	return nil
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token" yaml:"-"`
	User  User   `json:"user" yaml:"user"`
}

func requireEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingArgument.WithDetails("email")
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidArgument.WithDetails("email " + email)
	}
	return nil
}
