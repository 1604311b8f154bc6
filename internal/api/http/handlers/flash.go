package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/repository"
	"github.com/spec-kit/invoich-web/internal/service"
)

// Flash keeps notices in the session until the next page render.
type Flash struct {
	sessions repository.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
}

// NewFlash constructs the flash store.
func NewFlash(sessions repository.SessionRepository, ttl time.Duration, logger *zap.Logger) *Flash {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flash{sessions: sessions, ttl: ttl, logger: logger}
}

// For returns a notifier that queues notices for sessionID.
func (f *Flash) For(sessionID string) service.Notifier {
	return service.NotifierFunc(func(ctx context.Context, notice domain.Notice) {
		if err := f.sessions.PushNotice(ctx, sessionID, notice, f.ttl); err != nil {
			f.logger.Warn("queue notice failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	})
}

// Pop returns and clears the queued notices of sessionID.
func (f *Flash) Pop(ctx context.Context, sessionID string) []domain.Notice {
	notices, err := f.sessions.PopNotices(ctx, sessionID)
	if err != nil {
		f.logger.Warn("read notices failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	return notices
}
