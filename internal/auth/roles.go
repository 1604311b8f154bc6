package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RequireSession ensures the caller is signed in. Page requests are sent to
// redirectTo; an empty redirectTo answers 401 instead.
func RequireSession(redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if ok && session.Authenticated() {
			return c.Next()
		}
		if redirectTo != "" {
			return c.Redirect(redirectTo, http.StatusSeeOther)
		}
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
}
