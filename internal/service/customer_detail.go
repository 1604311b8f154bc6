package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/spec-kit/invoich-web/internal/domain"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

// CustomerReader fetches a single customer.
type CustomerReader interface {
	GetCustomer(ctx context.Context, id string) (*domain.RawCustomer, error)
}

// CustomerDetail is the read-only customer view screen.
type CustomerDetail struct {
	api CustomerReader
}

// NewCustomerDetail builds the screen.
func NewCustomerDetail(api CustomerReader) *CustomerDetail {
	return &CustomerDetail{api: api}
}

// Load fetches customer id and projects it for display. A 404 from the
// backend, or an empty record, is reported as a NOT_FOUND error.
func (d *CustomerDetail) Load(ctx context.Context, id string) (domain.CustomerView, error) {
	raw, err := d.api.GetCustomer(ctx, id)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == apperrors.CodeUpstreamRejected && domainErr.HTTPStatus == http.StatusNotFound {
			return domain.CustomerView{}, apperrors.NewNotFound("customer", map[string]any{"id": id})
		}
		return domain.CustomerView{}, err
	}
	if raw == nil || raw.ID == "" {
		return domain.CustomerView{}, apperrors.NewNotFound("customer", map[string]any{"id": id})
	}
	return raw.View(), nil
}
