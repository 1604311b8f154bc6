package service

import (
	"context"
	"errors"
	"sync"

	"github.com/spec-kit/invoich-web/internal/domain"
)

const (
	msgPasswordReset          = "Password reset successfully!"
	msgPasswordFieldsRequired = "Please fill in both fields."
	msgPasswordMismatch       = "New password and confirmation do not match."
)

// PasswordReset is the new-password form. Validation is local; nothing is sent
// to the backend and nothing is persisted.
type PasswordReset struct {
	notify Notifier

	mu      sync.Mutex
	errMsg  string
	success string
}

// NewPasswordReset builds the screen.
func NewPasswordReset(notify Notifier) *PasswordReset {
	return &PasswordReset{notify: notify}
}

// Submit validates form. Exactly one of the error or success message is set afterwards.
func (p *PasswordReset) Submit(ctx context.Context, form domain.PasswordResetForm) error {
	if err := form.Validate(); err != nil {
		msg := msgPasswordFieldsRequired
		if errors.Is(err, domain.ErrPasswordMismatch) {
			msg = msgPasswordMismatch
		}
		p.mu.Lock()
		p.errMsg, p.success = msg, ""
		p.mu.Unlock()
		notifyTo(ctx, p.notify, domain.NoticeError, "", msg)
		return err
	}

	p.mu.Lock()
	p.errMsg, p.success = "", msgPasswordReset
	p.mu.Unlock()
	notifyTo(ctx, p.notify, domain.NoticeSuccess, "", msgPasswordReset)
	return nil
}

// Messages returns the current error and success messages.
func (p *PasswordReset) Messages() (errMsg, success string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg, p.success
}
