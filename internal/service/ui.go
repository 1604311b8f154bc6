package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/invoich-web/internal/domain"
)

// Notifier shows a notice to the user.
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt domain.Prompt) (bool, error)
}

// Navigator moves the user to another route after the given delay.
type Navigator interface {
	Navigate(route string, after time.Duration)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, notice domain.Notice)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, notice domain.Notice) {
	f(ctx, notice)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt domain.Prompt) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt domain.Prompt) (bool, error) {
	return f(ctx, prompt)
}

// Answer returns a Confirmer that replies with yes without asking. It is used when
// the user already answered the dialog, e.g. in a submitted form.
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, domain.Prompt) (bool, error) {
		return yes, nil
	})
}

// NoticeList collects notices in memory.
type NoticeList struct {
	mu      sync.Mutex
	notices []domain.Notice
}

// Notify appends notice.
func (l *NoticeList) Notify(_ context.Context, notice domain.Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, notice)
}

// Notices returns a copy of everything collected so far.
func (l *NoticeList) Notices() []domain.Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Notice(nil), l.notices...)
}

// PendingNavigation records the last navigation request instead of performing it.
type PendingNavigation struct {
	mu    sync.Mutex
	route string
	after time.Duration
}

// Navigate records route and delay.
func (p *PendingNavigation) Navigate(route string, after time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.route = route
	p.after = after
}

// Target returns the recorded route and delay; ok is false when nothing was requested.
func (p *PendingNavigation) Target() (route string, after time.Duration, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.route, p.after, p.route != ""
}

func notifyTo(ctx context.Context, n Notifier, kind domain.NoticeKind, title, message string) {
	if n == nil {
		return
	}
	n.Notify(ctx, domain.Notice{Kind: kind, Title: title, Message: message})
}
