package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/events"
	"github.com/spec-kit/invoich-web/internal/observability"
)

// ActivityLog records what users did to their customer collections.
type ActivityLog struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewActivityLog creates the log.
func NewActivityLog(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *ActivityLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLog{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityLog) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventCustomerDeleted, a.handleCustomerDeleted)
	a.dispatcher.Subscribe(events.EventCustomersImported, a.handleCustomersImported)
	a.dispatcher.Subscribe(events.EventCollectionInvalidated, a.handleCollectionInvalidated)
	a.dispatcher.Subscribe(events.EventSessionEnded, a.handleSessionEnded)
}

func (a *ActivityLog) handleCustomerDeleted(_ context.Context, event events.Event) error {
	a.record(event)
	payload, _ := event.Payload.(events.CustomerDeletedPayload)
	a.logger.Info("CustomerDeleted",
		zap.String("session_id", event.SessionID),
		zap.String("customer_id", payload.CustomerID))
	return nil
}

func (a *ActivityLog) handleCustomersImported(_ context.Context, event events.Event) error {
	a.record(event)
	payload, _ := event.Payload.(events.CustomersImportedPayload)
	a.logger.Info("CustomersImported",
		zap.String("session_id", event.SessionID),
		zap.String("file", payload.FileName),
		zap.Int("size_bytes", payload.SizeBytes))
	return nil
}

func (a *ActivityLog) handleCollectionInvalidated(_ context.Context, event events.Event) error {
	a.record(event)
	payload, _ := event.Payload.(events.CollectionInvalidatedPayload)
	a.logger.Debug("CollectionInvalidated",
		zap.String("session_id", event.SessionID),
		zap.String("reason", payload.Reason))
	return nil
}

func (a *ActivityLog) handleSessionEnded(_ context.Context, event events.Event) error {
	a.record(event)
	a.logger.Info("SessionEnded", zap.String("session_id", event.SessionID))
	return nil
}

func (a *ActivityLog) record(event events.Event) {
	a.metrics.RecordEvent(string(event.Type))
}
