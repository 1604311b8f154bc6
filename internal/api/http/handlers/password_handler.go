package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/service"
)

// PasswordHandler serves the new-password form.
type PasswordHandler struct {
	flash *Flash
}

// NewPasswordHandler constructs handler.
func NewPasswordHandler(flash *Flash) *PasswordHandler {
	return &PasswordHandler{flash: flash}
}

// Show GET /resetpsw.
func (h *PasswordHandler) Show(c *fiber.Ctx) error {
	return renderPage(c, h.flash, fiber.StatusOK, "password", "Reset Password", fiber.Map{"Error": "", "Success": ""})
}

// Reset POST /resetpsw. The form is checked locally only.
func (h *PasswordHandler) Reset(c *fiber.Ctx) error {
	screen := service.NewPasswordReset(nil)
	_ = screen.Submit(c.UserContext(), domain.PasswordResetForm{
		NewPassword:     c.FormValue("new_password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	})

	errMsg, success := screen.Messages()
	status := fiber.StatusOK
	if errMsg != "" {
		status = fiber.StatusUnprocessableEntity
	}
	return renderPage(c, h.flash, status, "password", "Reset Password", fiber.Map{"Error": errMsg, "Success": success})
}
