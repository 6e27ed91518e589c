package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// One DTO per RPC operation. Validation runs before any storage or
// crypto work; all violations are collected into a single error.

type SignUpDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d SignUpDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.Required, validation.Length(2, 0)),
		validation.Field(&d.Email, validation.Required, is.Email),
		validation.Field(&d.Password, validation.Required, validation.Length(6, 0)),
	)
}

type SignUpWithoutPasswordDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (d SignUpWithoutPasswordDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.Required, validation.Length(2, 0)),
		validation.Field(&d.Email, validation.Required, is.Email),
	)
}

type SignInDTO struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

func (d SignInDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.UsernameOrEmail, validation.Required, validation.Length(1, 0)),
		validation.Field(&d.Password, validation.Required, validation.Length(6, 0)),
	)
}

type AuthenticateDTO struct {
	Token string `json:"token"`
}

func (d AuthenticateDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Token, validation.Required, validation.Length(1, 0)),
	)
}

type UpdatePasswordDTO struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (d UpdatePasswordDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Token, validation.Required, validation.Length(1, 0)),
		validation.Field(&d.Password, validation.Required, validation.Length(6, 0)),
	)
}

type IdentityCheckDTO struct {
	Identity string `json:"identity"`
}

func (d IdentityCheckDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Identity, validation.Required, validation.Length(1, 0)),
	)
}

type ForgotMyPasswordDTO struct {
	UsernameOrEmail string `json:"username_or_email"`
}

func (d ForgotMyPasswordDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.UsernameOrEmail, validation.Required, validation.Length(1, 0)),
	)
}
