package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/observability"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

// jsonPrefixes are the paths answered with JSON errors; everything else gets
// the HTML error page.
var jsonPrefixes = []string{"/api/", "/health/", "/metrics"}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}
				if wantsJSON(c) {
					writeJSONError(c, domainErr)
				} else {
					writeHTMLError(c, logger, domainErr)
				}
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError also maps errors raised by fiber itself, such as unknown routes.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperrors.CodeInternal
		switch fiberErr.Code {
		case http.StatusNotFound:
			code = apperrors.CodeNotFound
		case http.StatusUnauthorized:
			code = apperrors.CodeUnauthorized
		default:
			if fiberErr.Code < 500 {
				code = apperrors.CodeValidation
			}
		}
		return apperrors.NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

func wantsJSON(c *fiber.Ctx) bool {
	path := c.Path()
	for _, prefix := range jsonPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func writeJSONError(c *fiber.Ctx, domainErr *apperrors.DomainError) {
	response := fiber.Map{"error": fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}}
	if len(domainErr.Details) > 0 {
		response["error"].(fiber.Map)["details"] = domainErr.Details
	}
	c.Status(domainErr.HTTPStatus)
	_ = c.JSON(response)
}

func writeHTMLError(c *fiber.Ctx, logger *zap.Logger, domainErr *apperrors.DomainError) {
	status := domainErr.HTTPStatus
	message := domainErr.Message
	if status >= 500 && domainErr.Code == apperrors.CodeInternal {
		message = "Something went wrong. Please try again."
	}
	err := c.Status(status).Render("error", fiber.Map{
		"Title":    http.StatusText(status),
		"Status":   status,
		"Message":  message,
		"Notices":  nil,
		"SignedIn": false,
		"Redirect": nil,
	})
	if err != nil {
		logger.Warn("render error page failed", zap.Error(err))
		_ = c.Status(status).SendString(message)
	}
}
