package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/service"
)

func TestPasswordResetSubmit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		form        domain.PasswordResetForm
		wantErr     string
		wantErrIs   error
		wantSuccess string
	}{
		{"equal", domain.PasswordResetForm{NewPassword: "hunter22", ConfirmPassword: "hunter22"}, "", nil, "Password reset successfully!"},
		{"unequal", domain.PasswordResetForm{NewPassword: "hunter22", ConfirmPassword: "hunter23"}, "New password and confirmation do not match.", domain.ErrPasswordMismatch, ""},
		{"missing confirm", domain.PasswordResetForm{NewPassword: "hunter22"}, "Please fill in both fields.", domain.ErrPasswordFieldsRequired, ""},
		{"missing new", domain.PasswordResetForm{ConfirmPassword: "hunter22"}, "Please fill in both fields.", domain.ErrPasswordFieldsRequired, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			notices := &service.NoticeList{}
			screen := service.NewPasswordReset(notices)
			err := screen.Submit(context.Background(), tc.form)

			errMsg, success := screen.Messages()
			assert.Equal(t, tc.wantErr, errMsg)
			assert.Equal(t, tc.wantSuccess, success)
			if tc.wantErr != "" {
				assert.ErrorIs(t, err, tc.wantErrIs)
				assert.Equal(t, []domain.Notice{{Kind: domain.NoticeError, Message: tc.wantErr}}, notices.Notices())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, []domain.Notice{{Kind: domain.NoticeSuccess, Message: tc.wantSuccess}}, notices.Notices())
			}
		})
	}
}

func TestPasswordResetClearsPreviousError(t *testing.T) {
	t.Parallel()

	screen := service.NewPasswordReset(nil)
	_ = screen.Submit(context.Background(), domain.PasswordResetForm{NewPassword: "a", ConfirmPassword: "b"})
	_ = screen.Submit(context.Background(), domain.PasswordResetForm{NewPassword: "a", ConfirmPassword: "a"})

	errMsg, success := screen.Messages()
	assert.Empty(t, errMsg)
	assert.Equal(t, "Password reset successfully!", success)
}
