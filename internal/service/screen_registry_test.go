package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/events"
	"github.com/spec-kit/invoich-web/internal/service"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

func newRegistry(t *testing.T, api *fakeCustomerAPI) (*service.ScreenRegistry, events.Dispatcher) {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	registry := service.NewScreenRegistry(service.RegistryDependencies{API: api, Dispatcher: dispatcher})
	registry.RegisterHandlers()
	t.Cleanup(registry.Close)
	return registry, dispatcher
}

func TestScreenRegistryReusesTablePerSession(t *testing.T) {
	t.Parallel()

	registry, _ := newRegistry(t, &fakeCustomerAPI{})

	a := registry.CustomerTable(testSession())
	b := registry.CustomerTable(testSession())
	other := registry.CustomerTable(domain.Session{ID: "s2", UserID: "u2", Token: "t2"})

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, registry.Len())
}

func TestScreenRegistryInvalidationRefreshesOnlyMatchingSession(t *testing.T) {
	t.Parallel()

	api := &fakeCustomerAPI{list: func(context.Context, int) ([]domain.RawCustomer, error) { return rawCustomers(), nil }}
	registry, dispatcher := newRegistry(t, api)

	table := registry.CustomerTable(testSession())
	table.Activate()
	waitSettled(t, table)
	require.Equal(t, 1, api.ListCalls())

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventCollectionInvalidated, "unknown", nil)))
	assert.Equal(t, 1, api.ListCalls())

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventCollectionInvalidated, "s1", nil)))
	waitSettled(t, table)
	assert.Equal(t, 2, api.ListCalls())
}

func TestScreenRegistrySessionEndedDropsTable(t *testing.T) {
	t.Parallel()

	registry, dispatcher := newRegistry(t, &fakeCustomerAPI{})
	registry.CustomerTable(testSession())

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventSessionEnded, "s1", nil)))
	_, ok := registry.Lookup("s1")
	assert.False(t, ok)
	assert.Zero(t, registry.Len())
}

func TestScreenRegistrySweepDropsIdleTables(t *testing.T) {
	t.Parallel()

	registry, _ := newRegistry(t, &fakeCustomerAPI{})
	registry.CustomerTable(testSession())

	assert.Zero(t, registry.Sweep(time.Hour))
	assert.Equal(t, 1, registry.Len())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, registry.Sweep(time.Millisecond))
	assert.Zero(t, registry.Len())
}

func TestCustomerDetailLoad(t *testing.T) {
	t.Parallel()

	detail := service.NewCustomerDetail(customerReaderFunc(func(_ context.Context, id string) (*domain.RawCustomer, error) {
		return &domain.RawCustomer{ID: id, DisplayName: "Ada"}, nil
	}))

	view, err := detail.Load(context.Background(), "c9")
	require.NoError(t, err)
	assert.Equal(t, "c9", view.ID)
	assert.Equal(t, domain.NotAvailable, view.Receivables)
}

func TestCustomerDetailLoadMissing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		get  func(context.Context, string) (*domain.RawCustomer, error)
	}{
		{"backend 404", func(context.Context, string) (*domain.RawCustomer, error) {
			return nil, apperrors.NewUpstreamError(http.StatusNotFound, "Customer not found")
		}},
		{"empty record", func(context.Context, string) (*domain.RawCustomer, error) {
			return &domain.RawCustomer{}, nil
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.NewCustomerDetail(customerReaderFunc(tc.get)).Load(context.Background(), "c404")
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
			de := apperrors.ToDomainError(err)
			assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
			assert.Equal(t, "c404", de.Details["id"])
		})
	}
}

func TestCustomerDetailLoadPassesOtherFailures(t *testing.T) {
	t.Parallel()

	transport := apperrors.NewTransportError(errors.New("dial tcp"))
	_, err := service.NewCustomerDetail(customerReaderFunc(func(context.Context, string) (*domain.RawCustomer, error) {
		return nil, transport
	})).Load(context.Background(), "c1")
	assert.Same(t, transport, err)
}

type customerReaderFunc func(ctx context.Context, id string) (*domain.RawCustomer, error)

func (f customerReaderFunc) GetCustomer(ctx context.Context, id string) (*domain.RawCustomer, error) {
	return f(ctx, id)
}
