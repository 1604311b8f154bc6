package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoich-web/internal/config"
	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/events"
	"github.com/spec-kit/invoich-web/internal/repository"
)

var testSessionConfig = config.SessionConfig{CookieName: "invoich_session", TTLMinutes: 60}

func newTestApp(t *testing.T, sessions repository.SessionRepository, dispatcher events.Dispatcher) *fiber.App {
	t.Helper()
	mw := NewSessionMiddleware(sessions, NewTokenInspector(), testSessionConfig, dispatcher, nil)

	app := fiber.New()
	app.Use(mw.Load)
	app.Get("/whoami", RequireSession("/"), func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		return c.SendString(session.UserID)
	})
	app.Get("/api/whoami", RequireSession(""), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/anon", mw.Ensure, func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(session.ID)
	})
	return app
}

func requestWithCookie(path, sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: sessionID})
	}
	return req
}

func TestRequireSessionWithoutCookie(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, repository.NewMemorySessionRepository(), nil)

	resp, err := app.Test(requestWithCookie("/whoami", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, err = app.Test(requestWithCookie("/api/whoami", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoadAttachesStoredSession(t *testing.T) {
	t.Parallel()

	sessions := repository.NewMemorySessionRepository()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), &domain.Session{ID: "s1", UserID: "u1", Token: token}, time.Hour))

	app := newTestApp(t, sessions, nil)
	resp, err := app.Test(requestWithCookie("/whoami", "s1"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "u1", string(body))
}

func TestLoadEndsSessionWithExpiredToken(t *testing.T) {
	t.Parallel()

	sessions := repository.NewMemorySessionRepository()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	}).SignedString([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), &domain.Session{ID: "s1", UserID: "u1", Token: token}, time.Hour))

	dispatcher := events.NewInMemoryDispatcher()
	var ended []string
	dispatcher.Subscribe(events.EventSessionEnded, func(_ context.Context, e events.Event) error {
		ended = append(ended, e.SessionID)
		return nil
	})

	app := newTestApp(t, sessions, dispatcher)
	resp, err := app.Test(requestWithCookie("/whoami", "s1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, []string{"s1"}, ended)

	_, err = sessions.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestEnsureCreatesAnonymousSession(t *testing.T) {
	t.Parallel()

	sessions := repository.NewMemorySessionRepository()
	app := newTestApp(t, sessions, nil)

	resp, err := app.Test(requestWithCookie("/anon", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == testSessionConfig.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	stored, err := sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.False(t, stored.Authenticated())
}
