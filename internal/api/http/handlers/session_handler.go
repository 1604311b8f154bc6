package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/api/dto"
	"github.com/spec-kit/invoich-web/internal/auth"
	"github.com/spec-kit/invoich-web/internal/domain"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

// SessionHandler manages the sign-in hand-off and sign-out.
type SessionHandler struct {
	sessions *auth.SessionMiddleware
	tokens   *auth.TokenInspector
	logger   *zap.Logger
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *auth.SessionMiddleware, tokens *auth.TokenInspector, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, tokens: tokens, logger: logger}
}

// Create POST /api/session. The login screen hands over the backend token and
// user; a fresh session id is issued and any previous session is ended.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Token = strings.TrimSpace(req.Token)
	req.User.ID = strings.TrimSpace(req.User.ID)
	if req.Token == "" || req.User.ID == "" {
		return apperrors.NewValidationError("token and user.id required", nil)
	}

	claims, err := h.tokens.Validate(req.Token, req.User.ID)
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}

	if previous, ok := auth.SessionFromContext(c); ok {
		if err := h.sessions.End(c.UserContext(), previous.ID); err != nil {
			return err
		}
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    req.User.ID,
		Token:     req.Token,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.sessions.Save(c, session); err != nil {
		return err
	}
	h.logger.Info("session created", zap.String("session_id", session.ID), zap.String("user_id", session.UserID))

	resp := dto.SessionResponse{SessionID: session.ID, UserID: session.UserID}
	if claims.ExpiresAt != nil {
		expires := claims.ExpiresAt.Time
		resp.ExpiresAt = &expires
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Current GET /api/session.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok || !session.Authenticated() {
		return apperrors.NewUnauthorized("no active session")
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{SessionID: session.ID, UserID: session.UserID}})
}

// Delete DELETE /api/session.
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessions.Destroy(c); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Logout POST /logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Destroy(c); err != nil {
		return err
	}
	return c.Redirect(domain.RouteLogin, fiber.StatusSeeOther)
}
