package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/events"
	apperrors "github.com/spec-kit/invoich-web/pkg/util/errorutil"
)

// DefaultSkeletonRows is the number of placeholder rows shown while loading.
const DefaultSkeletonRows = 5

const (
	msgLoadFailed      = "Failed to fetch customers"
	msgDeleted         = "Customer deleted successfully"
	msgDeleteFailed    = "Failed to delete customer. Please try again."
	msgSelectFileFirst = "Please upload a CSV file first"
	msgUploaded        = "CSV file uploaded successfully"
	msgUploadFailed    = "Failed to upload CSV file"
	msgUploadTransport = "An error occurred during upload"
)

// ErrNoFileSelected is returned by Upload when no file was picked.
var ErrNoFileSelected = errors.New(msgSelectFileFirst)

// DeletePrompt is the confirmation shown before a customer is deleted.
var DeletePrompt = domain.Prompt{
	Title:   "Are you sure?",
	Text:    "This customer will be deleted permanently.",
	Confirm: "Yes, delete it!",
	Cancel:  "Cancel",
}

// TableState is the lifecycle state of a customer table.
type TableState string

const (
	TableIdle    TableState = "idle"
	TableLoading TableState = "loading"
	TableReady   TableState = "ready"
	TableError   TableState = "error"
)

// CustomerAPI is the backend surface used by the customer table.
type CustomerAPI interface {
	ListCustomers(ctx context.Context, token string) ([]domain.RawCustomer, error)
	DeleteCustomer(ctx context.Context, token, id string) (string, error)
	UploadCustomersCSV(ctx context.Context, file domain.UploadFile) error
}

// CustomerTableDependencies bundles the capabilities of a customer table.
type CustomerTableDependencies struct {
	API          CustomerAPI
	Notifier     Notifier
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	SkeletonRows int
}

// TableView is a render-ready snapshot of a customer table.
type TableView struct {
	State        TableState
	Rows         []domain.CustomerView
	Total        int
	SkeletonRows int
	Error        string
	Search       string
	SelectedFile string
}

// CustomerTable lists the signed-in user's customers and carries the row
// actions. Loads run in the background; only the most recently started load
// may change the collection.
type CustomerTable struct {
	api          CustomerAPI
	notify       Notifier
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	skeletonRows int

	lifetime context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	session    domain.Session
	state      TableState
	customers  []domain.CustomerView
	loadErr    string
	seq        uint64
	cancelLoad context.CancelFunc
	settled    chan struct{}
	selected   *domain.UploadFile
	lastUsed   time.Time
	closed     bool
}

// NewCustomerTable builds an idle table for session.
func NewCustomerTable(session domain.Session, deps CustomerTableDependencies) *CustomerTable {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rows := deps.SkeletonRows
	if rows <= 0 {
		rows = DefaultSkeletonRows
	}
	lifetime, shutdown := context.WithCancel(context.Background())
	return &CustomerTable{
		api:          deps.API,
		notify:       deps.Notifier,
		dispatcher:   deps.Dispatcher,
		logger:       logger.With(zap.String("session_id", session.ID)),
		skeletonRows: rows,
		lifetime:     lifetime,
		shutdown:     shutdown,
		session:      session,
		state:        TableIdle,
		lastUsed:     time.Now(),
	}
}

// Activate starts the first load. It does nothing once the table has loaded or is loading.
func (t *CustomerTable) Activate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastUsed = time.Now()
	if t.state == TableIdle {
		t.startLoadLocked()
	}
}

// Refresh starts a new load, cancelling and superseding any load in flight.
func (t *CustomerTable) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startLoadLocked()
}

// SetSession swaps the session. A different user id re-fetches the collection.
func (t *CustomerTable) SetSession(session domain.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastUsed = time.Now()
	previous := t.session.UserID
	t.session = session
	if previous != session.UserID && t.state != TableIdle {
		t.startLoadLocked()
	}
}

func (t *CustomerTable) startLoadLocked() {
	if t.closed {
		return
	}
	if t.cancelLoad != nil {
		t.cancelLoad()
	}
	t.seq++
	ctx, cancel := context.WithCancel(t.lifetime)
	done := make(chan struct{})

	t.cancelLoad = cancel
	t.settled = done
	t.state = TableLoading
	t.loadErr = ""

	go t.load(ctx, cancel, t.seq, t.session, done)
}

func (t *CustomerTable) load(ctx context.Context, cancel context.CancelFunc, seq uint64, session domain.Session, done chan struct{}) {
	defer close(done)
	defer cancel()

	raw, err := t.api.ListCustomers(ctx, session.Token)

	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq || t.closed {
		t.logger.Debug("discarding stale customer load", zap.Uint64("seq", seq), zap.Uint64("current", t.seq))
		return
	}
	t.cancelLoad = nil

	if err != nil {
		t.state = TableError
		t.loadErr = apperrors.UserMessage(err, msgLoadFailed)
		t.logger.Warn("customer load failed", zap.Error(err))
		return
	}
	t.customers = domain.OwnedViews(raw, session.UserID)
	t.state = TableReady
	t.logger.Debug("customers loaded", zap.Int("fetched", len(raw)), zap.Int("owned", len(t.customers)))
}

// Wait blocks until the current load settles or ctx is done. Loads started
// while waiting are waited for as well.
func (t *CustomerTable) Wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		ch, state := t.settled, t.state
		t.mu.Unlock()

		if ch == nil || state != TableLoading {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// State returns the lifecycle state.
func (t *CustomerTable) State() TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// View renders the table with search applied. The stored collection is not changed.
func (t *CustomerTable) View(search string) TableView {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastUsed = time.Now()

	view := TableView{
		State:  t.state,
		Search: search,
		Total:  len(t.customers),
	}
	if t.selected != nil {
		view.SelectedFile = t.selected.Name
	}
	switch t.state {
	case TableIdle, TableLoading:
		view.SkeletonRows = t.skeletonRows
	case TableError:
		view.Error = t.loadErr
	case TableReady:
		view.Rows = domain.SearchCustomers(t.customers, search)
	}
	return view
}

// Delete asks for confirmation and deletes customer id. The row is removed
// locally only after the backend confirmed the deletion.
func (t *CustomerTable) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	ok, err := confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	t.mu.Lock()
	t.lastUsed = time.Now()
	token := t.session.Token
	sessionID := t.session.ID
	t.mu.Unlock()

	msg, err := t.api.DeleteCustomer(ctx, token, id)
	if err != nil {
		t.logger.Warn("customer delete failed", zap.String("customer_id", id), zap.Error(err))
		notifyTo(ctx, t.notify, domain.NoticeError, "Error", msgDeleteFailed)
		return false, err
	}

	t.mu.Lock()
	kept := t.customers[:0:0]
	for _, c := range t.customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	t.customers = kept
	t.mu.Unlock()

	if msg == "" {
		msg = msgDeleted
	}
	notifyTo(ctx, t.notify, domain.NoticeSuccess, "Deleted!", msg)
	t.publish(ctx, events.NewEvent(events.EventCustomerDeleted, sessionID, events.CustomerDeletedPayload{
		CustomerID: id,
		Message:    msg,
	}))
	return true, nil
}

// SelectFile picks file for the next upload, replacing any earlier pick.
func (t *CustomerTable) SelectFile(file domain.UploadFile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = &file
}

// SelectedFile returns the picked file, if any.
func (t *CustomerTable) SelectedFile() (domain.UploadFile, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selected == nil {
		return domain.UploadFile{}, false
	}
	return *t.selected, true
}

// Upload sends the picked file to the bulk import endpoint. On success the
// pick is cleared and the collection is invalidated; on failure it stays.
func (t *CustomerTable) Upload(ctx context.Context) error {
	t.mu.Lock()
	t.lastUsed = time.Now()
	file := t.selected
	sessionID := t.session.ID
	t.mu.Unlock()

	if file == nil {
		notifyTo(ctx, t.notify, domain.NoticeInfo, "", msgSelectFileFirst)
		return ErrNoFileSelected
	}

	if err := t.api.UploadCustomersCSV(ctx, *file); err != nil {
		msg := msgUploadFailed
		if apperrors.IsTransport(err) {
			msg = msgUploadTransport
		}
		t.logger.Warn("customer csv upload failed", zap.String("file", file.Name), zap.Error(err))
		notifyTo(ctx, t.notify, domain.NoticeError, "Error!", msg)
		return err
	}

	t.mu.Lock()
	if t.selected == file {
		t.selected = nil
	}
	t.mu.Unlock()

	notifyTo(ctx, t.notify, domain.NoticeSuccess, "Success!", msgUploaded)
	t.publish(ctx, events.NewEvent(events.EventCustomersImported, sessionID, events.CustomersImportedPayload{
		FileName:  file.Name,
		SizeBytes: len(file.Content),
	}))
	t.publish(ctx, events.NewEvent(events.EventCollectionInvalidated, sessionID, events.CollectionInvalidatedPayload{
		Reason: "csv_upload",
	}))
	return nil
}

// Invalidate announces that the session's collection is out of date.
func (t *CustomerTable) Invalidate(ctx context.Context, reason string) {
	t.mu.Lock()
	sessionID := t.session.ID
	t.mu.Unlock()
	t.publish(ctx, events.NewEvent(events.EventCollectionInvalidated, sessionID, events.CollectionInvalidatedPayload{
		Reason: reason,
	}))
}

// NewRoute is the create-customer navigation target.
func (t *CustomerTable) NewRoute() string { return domain.CustomerFormRoute("") }

// EditRoute is the edit navigation target for id.
func (t *CustomerTable) EditRoute(id string) string { return domain.CustomerFormRoute(id) }

// ViewRoute is the detail navigation target for id.
func (t *CustomerTable) ViewRoute(id string) string { return domain.CustomerViewRoute(id) }

// LastUsed returns when the table was last touched by the user.
func (t *CustomerTable) LastUsed() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastUsed
}

// Close tears the table down and cancels any load in flight.
func (t *CustomerTable) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.shutdown()
}

func (t *CustomerTable) publish(ctx context.Context, event events.Event) {
	if t.dispatcher == nil {
		return
	}
	if err := t.dispatcher.Publish(ctx, event); err != nil {
		t.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
