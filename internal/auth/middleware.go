package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/config"
	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/events"
	"github.com/spec-kit/invoich-web/internal/repository"
)

const sessionLocalsKey = "auth_session"

// SessionMiddleware resolves the browser session from its cookie.
type SessionMiddleware struct {
	sessions   repository.SessionRepository
	tokens     *TokenInspector
	cfg        config.SessionConfig
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions repository.SessionRepository, tokens *TokenInspector, cfg config.SessionConfig, dispatcher events.Dispatcher, logger *zap.Logger) *SessionMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{sessions: sessions, tokens: tokens, cfg: cfg, dispatcher: dispatcher, logger: logger}
}

// Load attaches the session named by the cookie, if any. Sessions whose bearer
// token has expired are ended here.
func (m *SessionMiddleware) Load(c *fiber.Ctx) error {
	id := c.Cookies(m.cfg.CookieName)
	if id == "" {
		return c.Next()
	}

	session, err := m.sessions.Get(c.UserContext(), id)
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		m.clearCookie(c)
		return c.Next()
	case err != nil:
		return err
	}

	if session.Token != "" && m.tokens != nil {
		claims, err := m.tokens.Inspect(session.Token)
		if err == nil && m.tokens.Expired(claims) {
			m.logger.Info("session token expired", zap.String("session_id", session.ID))
			if err := m.End(c.UserContext(), session.ID); err != nil {
				return err
			}
			m.clearCookie(c)
			return c.Next()
		}
	}

	c.Locals(sessionLocalsKey, session)
	return c.Next()
}

// Ensure guarantees a session exists for the request, creating an anonymous
// one when needed. The OTP and password screens run before sign-in.
func (m *SessionMiddleware) Ensure(c *fiber.Ctx) error {
	if _, ok := SessionFromContext(c); ok {
		return c.Next()
	}

	session := &domain.Session{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := m.Save(c, session); err != nil {
		return err
	}
	return c.Next()
}

// Save persists session, refreshes the cookie and attaches it to the request.
func (m *SessionMiddleware) Save(c *fiber.Ctx, session *domain.Session) error {
	if err := m.sessions.Save(c.UserContext(), session, m.cfg.TTL()); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  time.Now().Add(m.cfg.TTL()),
		HTTPOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(sessionLocalsKey, session)
	return nil
}

// Destroy ends the request's session and clears the cookie.
func (m *SessionMiddleware) Destroy(c *fiber.Ctx) error {
	session, ok := SessionFromContext(c)
	if ok {
		if err := m.End(c.UserContext(), session.ID); err != nil {
			return err
		}
		c.Locals(sessionLocalsKey, nil)
	}
	m.clearCookie(c)
	return nil
}

// End deletes the session record and announces it so screens can be torn down.
func (m *SessionMiddleware) End(ctx context.Context, id string) error {
	if err := m.sessions.Delete(ctx, id); err != nil {
		return err
	}
	if m.dispatcher != nil {
		if err := m.dispatcher.Publish(ctx, events.NewEvent(events.EventSessionEnded, id, nil)); err != nil {
			m.logger.Warn("session ended handlers failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	return nil
}

// TryLock takes a named lock on the session, held until Unlock or ttl.
func (m *SessionMiddleware) TryLock(ctx context.Context, id, name string, ttl time.Duration) (bool, error) {
	return m.sessions.TryLock(ctx, id, name, ttl)
}

// Unlock releases a lock taken with TryLock.
func (m *SessionMiddleware) Unlock(ctx context.Context, id, name string) error {
	return m.sessions.Unlock(ctx, id, name)
}

func (m *SessionMiddleware) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionFromContext retrieves the session attached by the middleware.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionLocalsKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok && session != nil
}
