package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/domain"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

var (
	ErrEmailRequired = errors.New("otp email required")
	ErrIncompleteOTP = errors.New("otp incomplete")
	ErrBusy          = errors.New("a submission is already in flight")
)

// MsgEmailMissing is shown when the screen has no address to verify against.
const MsgEmailMissing = "Email not found. Please go back and resend the OTP."

const (
	msgIncompleteOTP = "Please enter the complete OTP."
	msgOTPVerified  = "OTP Verified Successfully!"
	msgOTPRejected  = "Invalid or expired OTP."
	msgOTPTransport = "An error occurred while verifying OTP. Please try again."
)

// OTPVerifier is the backend call used by the verification screen.
type OTPVerifier interface {
	VerifyOTP(ctx context.Context, otp, email string) (string, error)
}

// OTPDependencies bundles the capabilities of the verification screen.
type OTPDependencies struct {
	API           OTPVerifier
	Notifier      Notifier
	Navigator     Navigator
	RedirectDelay time.Duration
	Logger        *zap.Logger
}

// OTPVerification is the six-digit code entry screen.
type OTPVerification struct {
	api           OTPVerifier
	notify        Notifier
	nav           Navigator
	redirectDelay time.Duration
	logger        *zap.Logger

	mu     sync.Mutex
	email  string
	digits domain.OTPCode
	focus  int
	busy   bool
}

// NewOTPVerification builds the screen for email, the address the code was sent to.
func NewOTPVerification(email string, deps OTPDependencies) (*OTPVerification, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPVerification{
		api:           deps.API,
		notify:        deps.Notifier,
		nav:           deps.Navigator,
		redirectDelay: deps.RedirectDelay,
		logger:        logger,
		email:         email,
	}, nil
}

// Input applies a change to field i. Only an empty value or a single digit is
// accepted; a digit moves focus to the next field.
func (s *OTPVerification) Input(i int, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.digits.Set(i, value) {
		return false
	}
	if value != "" && i < domain.OTPLength-1 {
		s.focus = i + 1
	}
	return true
}

// Backspace handles backspace in field i. On an empty field focus moves back
// one field; nothing is deleted.
func (s *OTPVerification) Backspace(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i <= 0 || i >= domain.OTPLength {
		return
	}
	if s.digits[i] == "" {
		s.focus = i - 1
	}
}

// Focus returns the index of the focused field.
func (s *OTPVerification) Focus() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// Digits returns the entered digits.
func (s *OTPVerification) Digits() domain.OTPCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digits
}

// Busy reports whether a verification call is in flight.
func (s *OTPVerification) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Email returns the address being verified.
func (s *OTPVerification) Email() string {
	return s.email
}

// Submit verifies the code. Local validation failures never reach the backend.
func (s *OTPVerification) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if !s.digits.Complete() {
		s.mu.Unlock()
		notifyTo(ctx, s.notify, domain.NoticeError, "", msgIncompleteOTP)
		return ErrIncompleteOTP
	}
	if s.email == "" {
		s.mu.Unlock()
		notifyTo(ctx, s.notify, domain.NoticeError, "", MsgEmailMissing)
		return ErrEmailRequired
	}
	s.busy = true
	code := s.digits.String()
	email := s.email
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	if _, err := s.api.VerifyOTP(ctx, code, email); err != nil {
		msg := msgOTPTransport
		if !apperrors.IsTransport(err) {
			msg = apperrors.UserMessage(err, msgOTPRejected)
		}
		s.logger.Info("otp verification failed", zap.Error(err))
		notifyTo(ctx, s.notify, domain.NoticeError, "", msg)
		return err
	}

	notifyTo(ctx, s.notify, domain.NoticeSuccess, "", msgOTPVerified)
	if s.nav != nil {
		s.nav.Navigate(domain.RouteResetPassword, s.redirectDelay)
	}
	return nil
}
