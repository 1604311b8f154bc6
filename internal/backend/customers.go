package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/spec-kit/invoich-web/internal/domain"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

const (
	pathCustomers      = "/api/customer/viewCustomers"
	pathDeleteCustomer = "/api/customer/deleteCustomer"
	pathCustomerCSV    = "/api/customer/Customercsv"
)

// ListCustomers fetches every customer visible to the bearer token. Ownership
// filtering happens client-side.
func (c *Client) ListCustomers(ctx context.Context, token string) ([]domain.RawCustomer, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorized(ErrMissingToken.Error())
	}
	var customers []domain.RawCustomer
	err := c.do(ctx, requestOpts{
		Operation: "list_customers",
		Method:    http.MethodGet,
		Path:      pathCustomers,
		Token:     token,
	}, &customers)
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer fetches one customer. The endpoint is unauthenticated.
func (c *Client) GetCustomer(ctx context.Context, id string) (*domain.RawCustomer, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("customer id required", nil)
	}
	var customer domain.RawCustomer
	err := c.do(ctx, requestOpts{
		Operation: "get_customer",
		Method:    http.MethodGet,
		Path:      pathCustomers + "/" + url.PathEscape(id),
	}, &customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer deletes a customer by id and returns the server's message, if any.
func (c *Client) DeleteCustomer(ctx context.Context, token, id string) (string, error) {
	if token == "" {
		return "", apperrors.NewUnauthorized(ErrMissingToken.Error())
	}
	query := url.Values{}
	query.Set("id", id)

	var ack messageBody
	err := c.do(ctx, requestOpts{
		Operation: "delete_customer",
		Method:    http.MethodDelete,
		Path:      pathDeleteCustomer + "?" + query.Encode(),
		Token:     token,
	}, &ack)
	if err != nil {
		return "", err
	}
	return ack.Message, nil
}

// UploadCustomersCSV posts file as multipart form data under the "file" field.
func (c *Client) UploadCustomersCSV(ctx context.Context, file domain.UploadFile) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "text/csv"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("create multipart part: %w", err))
	}
	if _, err := part.Write(file.Content); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("write multipart part: %w", err))
	}
	if err := mw.Close(); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("close multipart writer: %w", err))
	}

	return c.do(ctx, requestOpts{
		Operation:   "upload_customers_csv",
		Method:      http.MethodPost,
		Path:        pathCustomerCSV,
		Body:        &buf,
		ContentType: mw.FormDataContentType(),
	}, nil)
}
