package models

import "time"

type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// Credential material; both nil for an account created without a
	// password (it stays disabled until the reset token is consumed).
	Salt         *string `json:"-"`
	PasswordHash *string `json:"-"`

	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is a matched (username, email) pair returned by identity_check.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
