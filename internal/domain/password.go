package domain

import "errors"

var (
	ErrPasswordFieldsRequired = errors.New("password fields required")
	ErrPasswordMismatch       = errors.New("password confirmation mismatch")
)

// PasswordResetForm is the new password and its confirmation.
type PasswordResetForm struct {
	NewPassword     string
	ConfirmPassword string
}

// Validate checks the form at submit time.
func (f PasswordResetForm) Validate() error {
	if f.NewPassword == "" || f.ConfirmPassword == "" {
		return ErrPasswordFieldsRequired
	}
	if f.NewPassword != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}
