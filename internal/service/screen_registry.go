package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/events"
)

// RegistryDependencies bundles what the registry needs to build tables.
type RegistryDependencies struct {
	API          CustomerAPI
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	SkeletonRows int
	// Notifiers returns the notifier for a session's screens.
	Notifiers func(sessionID string) Notifier
}

// ScreenRegistry keeps one customer table per browser session.
type ScreenRegistry struct {
	deps       RegistryDependencies
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu     sync.Mutex
	tables map[string]*CustomerTable
}

// NewScreenRegistry creates the registry.
func NewScreenRegistry(deps RegistryDependencies) *ScreenRegistry {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenRegistry{
		deps:       deps,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		tables:     make(map[string]*CustomerTable),
	}
}

// RegisterHandlers subscribes to events.
func (r *ScreenRegistry) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventCollectionInvalidated, r.handleCollectionInvalidated)
	r.dispatcher.Subscribe(events.EventSessionEnded, r.handleSessionEnded)
}

// CustomerTable returns the session's table, creating it on first use.
func (r *ScreenRegistry) CustomerTable(session domain.Session) *CustomerTable {
	r.mu.Lock()
	table, ok := r.tables[session.ID]
	if !ok {
		var notifier Notifier
		if r.deps.Notifiers != nil {
			notifier = r.deps.Notifiers(session.ID)
		}
		table = NewCustomerTable(session, CustomerTableDependencies{
			API:          r.deps.API,
			Notifier:     notifier,
			Dispatcher:   r.dispatcher,
			Logger:       r.logger,
			SkeletonRows: r.deps.SkeletonRows,
		})
		r.tables[session.ID] = table
	}
	r.mu.Unlock()

	if ok {
		table.SetSession(session)
	}
	return table
}

// Lookup returns the session's table without creating one.
func (r *ScreenRegistry) Lookup(sessionID string) (*CustomerTable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[sessionID]
	return table, ok
}

// Drop tears down the session's table.
func (r *ScreenRegistry) Drop(sessionID string) {
	r.mu.Lock()
	table, ok := r.tables[sessionID]
	delete(r.tables, sessionID)
	r.mu.Unlock()

	if ok {
		table.Close()
	}
}

// Sweep tears down tables untouched for longer than idle and returns how many were dropped.
func (r *ScreenRegistry) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	r.mu.Lock()
	var stale []*CustomerTable
	for id, table := range r.tables {
		if table.LastUsed().Before(cutoff) {
			stale = append(stale, table)
			delete(r.tables, id)
		}
	}
	r.mu.Unlock()

	for _, table := range stale {
		table.Close()
	}
	if len(stale) > 0 {
		r.logger.Debug("swept idle screens", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Len returns the number of live tables.
func (r *ScreenRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables)
}

// Close tears down every table.
func (r *ScreenRegistry) Close() {
	r.mu.Lock()
	tables := r.tables
	r.tables = make(map[string]*CustomerTable)
	r.mu.Unlock()

	for _, table := range tables {
		table.Close()
	}
}

func (r *ScreenRegistry) handleCollectionInvalidated(_ context.Context, event events.Event) error {
	table, ok := r.Lookup(event.SessionID)
	if !ok {
		return nil
	}
	r.logger.Debug("CollectionInvalidated", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	table.Refresh()
	return nil
}

func (r *ScreenRegistry) handleSessionEnded(_ context.Context, event events.Event) error {
	r.logger.Debug("SessionEnded", zap.String("session_id", event.SessionID))
	r.Drop(event.SessionID)
	return nil
}
