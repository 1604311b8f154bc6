package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/invoich-web/internal/domain"
)

type memoryEntry struct {
	session   domain.Session
	notices   []domain.Notice
	expiresAt time.Time
}

type memorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	locks   map[string]time.Time
	now     func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory. Sessions are
// lost on restart; it backs SESSION_STORE=memory and tests.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		entries: make(map[string]*memoryEntry),
		locks:   make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *memorySessionRepository) live(id string) (*memoryEntry, bool) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		delete(r.entries, id)
		return nil, false
	}
	return entry, true
}

func (r *memorySessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live(id)
	if !ok || entry.session.ID == "" {
		return nil, ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

func (r *memorySessionRepository) Save(_ context.Context, session *domain.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live(session.ID)
	if !ok {
		entry = &memoryEntry{}
		r.entries[session.ID] = entry
	}
	entry.session = *session
	entry.expiresAt = r.expiry(ttl)
	return nil
}

func (r *memorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *memorySessionRepository) PushNotice(_ context.Context, id string, notice domain.Notice, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live(id)
	if !ok {
		entry = &memoryEntry{expiresAt: r.expiry(ttl)}
		r.entries[id] = entry
	}
	entry.notices = append(entry.notices, notice)
	return nil
}

func (r *memorySessionRepository) PopNotices(_ context.Context, id string) ([]domain.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live(id)
	if !ok {
		return nil, nil
	}
	notices := entry.notices
	entry.notices = nil
	return notices, nil
}

func (r *memorySessionRepository) TryLock(_ context.Context, id, name string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := id + ":" + name
	if until, held := r.locks[key]; held && (until.IsZero() || r.now().Before(until)) {
		return false, nil
	}
	r.locks[key] = r.expiry(ttl)
	return true, nil
}

func (r *memorySessionRepository) Unlock(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, id+":"+name)
	return nil
}

func (r *memorySessionRepository) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return r.now().Add(ttl)
}
