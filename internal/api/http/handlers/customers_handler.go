package handlers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/api/dto"
	"github.com/spec-kit/invoich-web/internal/auth"
	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/service"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

// pollInterval is how soon a page showing placeholders asks again.
const pollInterval = time.Second

// CustomersHandler serves the customer table and its row actions.
type CustomersHandler struct {
	registry   *service.ScreenRegistry
	detail     *service.CustomerDetail
	flash      *Flash
	renderWait time.Duration
	logger     *zap.Logger
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(registry *service.ScreenRegistry, detail *service.CustomerDetail, flash *Flash, renderWait time.Duration, logger *zap.Logger) *CustomersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomersHandler{registry: registry, detail: detail, flash: flash, renderWait: renderWait, logger: logger}
}

func (h *CustomersHandler) table(c *fiber.Ctx) (*service.CustomerTable, *domain.Session, error) {
	session, ok := auth.SessionFromContext(c)
	if !ok || !session.Authenticated() {
		return nil, nil, apperrors.NewUnauthorized("sign in required")
	}
	return h.registry.CustomerTable(*session), session, nil
}

// settledView activates the table and waits briefly for a pending load so the
// first render usually has data.
func (h *CustomersHandler) settledView(c *fiber.Ctx, table *service.CustomerTable, search string) service.TableView {
	table.Activate()
	if h.renderWait > 0 {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.renderWait)
		_ = table.Wait(ctx)
		cancel()
	}
	return table.View(search)
}

// List GET /user/customers?search=.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	table, _, err := h.table(c)
	if err != nil {
		return err
	}

	search := c.Query("search")
	view := h.settledView(c, table, search)
	loading := view.State == service.TableIdle || view.State == service.TableLoading

	data := fiber.Map{
		"Table":    view,
		"Rows":     customerRows(table, view.Rows),
		"Loading":  loading,
		"Skeleton": make([]struct{}, view.SkeletonRows),
		"NewRoute": table.NewRoute(),
	}
	if loading {
		data["Redirect"] = delayedRedirect(listURL(search), pollInterval)
	}
	return renderPage(c, h.flash, fiber.StatusOK, "customers", "Customers", data)
}

// ListJSON GET /api/customers?search=.
func (h *CustomersHandler) ListJSON(c *fiber.Ctx) error {
	table, _, err := h.table(c)
	if err != nil {
		return err
	}

	view := h.settledView(c, table, c.Query("search"))
	return c.JSON(fiber.Map{"data": dto.CustomerTableResponse{
		State:        string(view.State),
		Search:       view.Search,
		Total:        view.Total,
		SkeletonRows: view.SkeletonRows,
		Error:        view.Error,
		SelectedFile: view.SelectedFile,
		Rows:         customerRows(table, view.Rows),
	}})
}

// ConfirmDelete GET /user/customers/:id/delete renders the confirmation dialog.
func (h *CustomersHandler) ConfirmDelete(c *fiber.Ctx) error {
	if _, _, err := h.table(c); err != nil {
		return err
	}
	return renderPage(c, h.flash, fiber.StatusOK, "confirm_delete", service.DeletePrompt.Title, fiber.Map{
		"Prompt": service.DeletePrompt,
		"Action": deleteURL(c.Params("id")),
	})
}

// Delete POST /user/customers/:id/delete with confirm=yes|no.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	table, session, err := h.table(c)
	if err != nil {
		return err
	}

	id := c.Params("id")
	confirmed := c.FormValue("confirm") == "yes"
	deleted, err := table.Delete(c.UserContext(), id, service.Answer(confirmed))
	if err != nil {
		h.logger.Info("customer delete failed", zap.String("session_id", session.ID), zap.String("customer_id", id), zap.Error(err))
	}
	if deleted {
		h.logger.Info("customer deleted", zap.String("session_id", session.ID), zap.String("customer_id", id))
	}
	return c.Redirect(domain.RouteCustomerList, fiber.StatusSeeOther)
}

// Upload POST /user/customers/upload with multipart field file. The file is
// forwarded as received; the app BodyLimit is the only size cap. A request
// without a file retries the file kept from a failed upload.
func (h *CustomersHandler) Upload(c *fiber.Ctx) error {
	table, session, err := h.table(c)
	if err != nil {
		return err
	}

	if header, err := c.FormFile("file"); err == nil && header.Filename != "" {
		file, err := header.Open()
		if err != nil {
			return apperrors.NewValidationError("unable to read uploaded file", nil)
		}
		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return apperrors.NewValidationError("unable to read uploaded file", nil)
		}
		table.SelectFile(domain.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Content:     content,
		})
	}

	if err := table.Upload(c.UserContext()); err != nil {
		h.logger.Info("customer upload failed", zap.String("session_id", session.ID), zap.Error(err))
	}
	return c.Redirect(domain.RouteCustomerList, fiber.StatusSeeOther)
}

// Refresh POST /user/customers/refresh marks the collection stale.
func (h *CustomersHandler) Refresh(c *fiber.Ctx) error {
	table, _, err := h.table(c)
	if err != nil {
		return err
	}
	table.Invalidate(c.UserContext(), "manual_refresh")
	return c.Redirect(domain.RouteCustomerList, fiber.StatusSeeOther)
}

// View GET /user/customers/view/:id.
func (h *CustomersHandler) View(c *fiber.Ctx) error {
	id := c.Params("id")
	customer, err := h.detail.Load(c.UserContext(), id)
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		status := domainErr.HTTPStatus
		if status < 400 {
			status = fiber.StatusBadGateway
		}
		message := apperrors.UserMessage(err, "Failed to fetch customer")
		if domainErr.Code == apperrors.CodeNotFound {
			message = "Customer not found"
		}
		return renderPage(c, h.flash, status, "customer_view", "Customer", fiber.Map{
			"Error": message,
		})
	}
	return renderPage(c, h.flash, fiber.StatusOK, "customer_view", customer.Name, fiber.Map{
		"Error":    "",
		"Customer": customer,
		"EditURL":  domain.CustomerFormRoute(customer.ID),
	})
}

func customerRows(table *service.CustomerTable, views []domain.CustomerView) []dto.CustomerRow {
	rows := make([]dto.CustomerRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, dto.CustomerRow{
			ID:            v.ID,
			Name:          v.Name,
			CompanyName:   v.CompanyName,
			Email:         v.Email,
			WorkPhone:     v.WorkPhone,
			Receivables:   v.Receivables,
			UnusedCredits: v.UnusedCredits,
			EditURL:       table.EditRoute(v.ID),
			ViewURL:       table.ViewRoute(v.ID),
			DeleteURL:     deleteURL(v.ID),
		})
	}
	return rows
}

func deleteURL(id string) string {
	return fmt.Sprintf("%s/%s/delete", domain.RouteCustomerList, url.PathEscape(id))
}

func listURL(search string) string {
	if search == "" {
		return domain.RouteCustomerList
	}
	return domain.RouteCustomerList + "?search=" + url.QueryEscape(search)
}
