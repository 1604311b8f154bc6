package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/events"
	"github.com/spec-kit/invoich-web/internal/service"
	"github.com/spec-kit/invoich-web/internal/worker"
)

type emptyAPI struct{}

func (emptyAPI) ListCustomers(context.Context, string) ([]domain.RawCustomer, error) {
	return nil, nil
}

func (emptyAPI) DeleteCustomer(context.Context, string, string) (string, error) {
	return "", nil
}

func (emptyAPI) UploadCustomersCSV(context.Context, domain.UploadFile) error {
	return nil
}

func TestScreenWorkerDropsTableOnSessionEnd(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	registry := service.NewScreenRegistry(service.RegistryDependencies{API: emptyAPI{}, Dispatcher: dispatcher})
	t.Cleanup(registry.Close)

	worker.StartScreenWorker(registry)
	registry.CustomerTable(domain.Session{ID: "s1", UserID: "u1", Token: "t1"})
	require.Equal(t, 1, registry.Len())

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventSessionEnded, "s1", nil)))
	assert.Zero(t, registry.Len())
}

func TestRunScreenSweeper(t *testing.T) {
	registry := service.NewScreenRegistry(service.RegistryDependencies{API: emptyAPI{}, Dispatcher: events.NewInMemoryDispatcher()})
	registry.CustomerTable(domain.Session{ID: "s1", UserID: "u1", Token: "t1"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.RunScreenSweeper(ctx, registry, 5*time.Millisecond, time.Millisecond)
	}()

	assert.Eventually(t, func() bool { return registry.Len() == 0 }, time.Second, 5*time.Millisecond)

	registry.CustomerTable(domain.Session{ID: "s2", UserID: "u2", Token: "t2"})
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.Zero(t, registry.Len())
}

func TestRunScreenSweeperNilRegistry(t *testing.T) {
	assert.NoError(t, worker.RunScreenSweeper(context.Background(), nil, time.Millisecond, time.Millisecond))
}
