package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/invoich-web/internal/auth"
	"github.com/spec-kit/invoich-web/internal/domain"
)

// redirect schedules a client-side navigation once the page is shown.
type redirect struct {
	To     string
	Millis int64
}

func delayedRedirect(to string, after time.Duration) *redirect {
	return &redirect{To: to, Millis: after.Milliseconds()}
}

// renderPage renders view name inside the layout, draining the session's
// queued notices into it.
func renderPage(c *fiber.Ctx, flash *Flash, status int, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	if _, ok := data["Redirect"]; !ok {
		data["Redirect"] = (*redirect)(nil)
	}

	notices := []domain.Notice{}
	signedIn := false
	if session, ok := auth.SessionFromContext(c); ok {
		signedIn = session.Authenticated()
		if flash != nil {
			notices = append(notices, flash.Pop(c.UserContext(), session.ID)...)
		}
	}
	data["Notices"] = notices
	data["SignedIn"] = signedIn

	return c.Status(status).Render(name, data)
}

// HomeHandler serves the landing route.
type HomeHandler struct {
	flash *Flash
}

// NewHomeHandler constructs handler.
func NewHomeHandler(flash *Flash) *HomeHandler {
	return &HomeHandler{flash: flash}
}

// Home GET /. Signed-in users go straight to their customers.
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	if session, ok := auth.SessionFromContext(c); ok && session.Authenticated() {
		return c.Redirect(domain.RouteCustomerList, fiber.StatusSeeOther)
	}
	return renderPage(c, h.flash, fiber.StatusOK, "home", "Welcome", nil)
}
