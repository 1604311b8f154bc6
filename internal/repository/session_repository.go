package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/invoich-web/internal/domain"
)

// ErrSessionNotFound is returned when no live session exists for an id.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists browser sessions and their pending notices.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	PushNotice(ctx context.Context, id string, notice domain.Notice, ttl time.Duration) error
	PopNotices(ctx context.Context, id string) ([]domain.Notice, error)
	// TryLock takes the named per-session lock for ttl. It reports false
	// when the lock is already held.
	TryLock(ctx context.Context, id, name string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, id, name string) error
}

type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs a Redis-backed repository.
func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

func noticesKey(id string) string {
	return "session:" + id + ":notices"
}

func lockKey(id, name string) string {
	return "session:" + id + ":lock:" + name
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id), noticesKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) PushNotice(ctx context.Context, id string, notice domain.Notice, ttl time.Duration) error {
	raw, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, noticesKey(id), raw)
		pipe.Expire(ctx, noticesKey(id), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

func (r *sessionRepository) PopNotices(ctx context.Context, id string) ([]domain.Notice, error) {
	var items *redis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, noticesKey(id), 0, -1)
		pipe.Del(ctx, noticesKey(id))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop notices: %w", err)
	}

	notices := make([]domain.Notice, 0, len(items.Val()))
	for _, item := range items.Val() {
		var notice domain.Notice
		if err := json.Unmarshal([]byte(item), &notice); err != nil {
			continue
		}
		notices = append(notices, notice)
	}
	return notices, nil
}

func (r *sessionRepository) TryLock(ctx context.Context, id, name string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey(id, name), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock session: %w", err)
	}
	return ok, nil
}

func (r *sessionRepository) Unlock(ctx context.Context, id, name string) error {
	if err := r.client.Del(ctx, lockKey(id, name)).Err(); err != nil {
		return fmt.Errorf("unlock session: %w", err)
	}
	return nil
}
