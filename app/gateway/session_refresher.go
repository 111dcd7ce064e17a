package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"study-auth/app/domain"
	"study-auth/app/port"
)

// SessionRefresher periodically revalidates the persisted session against
// the identity backend and publishes a token-refreshed event when the
// session is still alive. Consumers use the event to drop cached profile
// data tied to the previous token.
type SessionRefresher struct {
	identity port.IdentityGateway
	events   port.SessionEvents
	interval time.Duration
	logger   *slog.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewSessionRefresher creates a refresher that revalidates every interval.
func NewSessionRefresher(identity port.IdentityGateway, events port.SessionEvents, interval time.Duration, logger *slog.Logger) *SessionRefresher {
	return &SessionRefresher{
		identity: identity,
		events:   events,
		interval: interval,
		logger:   logger.With("component", "session_refresher"),
		done:     make(chan struct{}),
	}
}

// Start launches the refresh loop. Safe to call once.
func (r *SessionRefresher) Start() {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.run()
	})
}

// Stop terminates the refresh loop and waits for it to exit.
func (r *SessionRefresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
}

func (r *SessionRefresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.refresh()
		}
	}
}

func (r *SessionRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := r.identity.ProbeSession(ctx)
	if err != nil {
		r.logger.Warn("session refresh probe failed", "error", err)
		return
	}
	if session == nil {
		return
	}

	r.events.Publish(domain.SessionEvent{
		Type:    domain.EventTokenRefreshed,
		Session: session,
	})
}
