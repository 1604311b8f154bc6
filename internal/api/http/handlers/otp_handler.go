package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/auth"
	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/service"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

const (
	otpLockName = "otp_verify"
	otpLockTTL  = time.Minute
)

// OTPHandler serves the code verification screen.
type OTPHandler struct {
	api           service.OTPVerifier
	sessions      *auth.SessionMiddleware
	flash         *Flash
	redirectDelay time.Duration
	logger        *zap.Logger
}

// NewOTPHandler constructs handler.
func NewOTPHandler(api service.OTPVerifier, sessions *auth.SessionMiddleware, flash *Flash, redirectDelay time.Duration, logger *zap.Logger) *OTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPHandler{api: api, sessions: sessions, flash: flash, redirectDelay: redirectDelay, logger: logger}
}

type otpField struct {
	Name    string
	Value   string
	Focused bool
}

// Show GET /otpverify. An email query parameter hands the address over from
// the screen that sent the code.
func (h *OTPHandler) Show(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewInternalError(fmt.Errorf("session not attached"))
	}

	if email := strings.TrimSpace(c.Query("email")); email != "" && email != session.OTPEmail {
		updated := *session
		updated.OTPEmail = email
		if err := h.sessions.Save(c, &updated); err != nil {
			return err
		}
		session = &updated
	}

	screen, err := service.NewOTPVerification(session.OTPEmail, service.OTPDependencies{API: h.api})
	if err != nil {
		return h.render(c, nil, nil)
	}
	return h.render(c, screen, nil)
}

// Verify POST /otpverify with fields otp-0 to otp-5.
func (h *OTPHandler) Verify(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewInternalError(fmt.Errorf("session not attached"))
	}

	nav := &service.PendingNavigation{}
	screen, err := service.NewOTPVerification(session.OTPEmail, service.OTPDependencies{
		API:           h.api,
		Notifier:      h.flash.For(session.ID),
		Navigator:     nav,
		RedirectDelay: h.redirectDelay,
		Logger:        h.logger,
	})
	if err != nil {
		return h.render(c, nil, nil)
	}

	for i := 0; i < domain.OTPLength; i++ {
		screen.Input(i, strings.TrimSpace(c.FormValue(fmt.Sprintf("otp-%d", i))))
	}

	if screen.Digits().Complete() {
		locked, err := h.sessions.TryLock(c.UserContext(), session.ID, otpLockName, otpLockTTL)
		if err != nil {
			return err
		}
		if !locked {
			h.logger.Debug("otp submit ignored while another is in flight", zap.String("session_id", session.ID))
			return h.renderStatus(c, fiber.StatusConflict, screen, nil, true)
		}
		defer func() {
			if err := h.sessions.Unlock(context.WithoutCancel(c.UserContext()), session.ID, otpLockName); err != nil {
				h.logger.Warn("otp lock release failed", zap.String("session_id", session.ID), zap.Error(err))
			}
		}()
	}

	if err := screen.Submit(c.UserContext()); err != nil {
		h.logger.Debug("otp submit rejected", zap.String("session_id", session.ID), zap.Error(err))
		return h.render(c, screen, nil)
	}

	var next *redirect
	if route, after, ok := nav.Target(); ok {
		next = delayedRedirect(route, after)
	}
	return h.render(c, screen, next)
}

func (h *OTPHandler) render(c *fiber.Ctx, screen *service.OTPVerification, next *redirect) error {
	return h.renderStatus(c, fiber.StatusOK, screen, next, false)
}

func (h *OTPHandler) renderStatus(c *fiber.Ctx, status int, screen *service.OTPVerification, next *redirect, busy bool) error {
	data := fiber.Map{
		"EmailMissing": service.MsgEmailMissing,
		"Redirect":     next,
	}
	if screen == nil {
		data["Email"] = ""
		return renderPage(c, h.flash, status, "otp", "Verify OTP", data)
	}

	digits := screen.Digits()
	focus := screen.Focus()
	fields := make([]otpField, domain.OTPLength)
	for i := range fields {
		fields[i] = otpField{Name: fmt.Sprintf("otp-%d", i), Value: digits[i], Focused: i == focus}
	}
	data["Email"] = screen.Email()
	data["Fields"] = fields
	data["Busy"] = busy || screen.Busy()
	return renderPage(c, h.flash, status, "otp", "Verify OTP", data)
}
