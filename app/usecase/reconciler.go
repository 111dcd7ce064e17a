package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"study-auth/app/domain"
	"study-auth/app/infrastructure/cache"
	"study-auth/app/port"

	"github.com/google/uuid"
)

const (
	defaultProbeTimeout   = 8 * time.Second
	defaultDebounceWindow = 300 * time.Millisecond
)

// Snapshot is the controller state exposed to the application shell.
// Loading is true only until the first authoritative value is produced;
// Initialized becomes true exactly once and never reverts.
type Snapshot struct {
	User        *domain.AuthUser `json:"user"`
	Loading     bool             `json:"loading"`
	Initialized bool             `json:"initialized"`
}

// ReconcilerOptions tunes the reconciliation policy. Zero values fall back
// to the defaults above.
type ReconcilerOptions struct {
	ProbeTimeout   time.Duration
	DebounceWindow time.Duration
}

// SessionReconciler owns the authoritative current-user value. It merges a
// one-shot startup probe of the persisted session with the long-lived
// session change stream into a single non-racing state machine, enriching
// each session with profile data before exposing it.
//
// Resolution policy: first of {probe, stream} to complete wins the initial
// state; if the stream settled with "no session" and the probe later finds
// one, the probe wins, since it is more authoritative for restoration.
// Every reconciliation attempt is tagged with a monotonically increasing
// sequence number and stale results are discarded on arrival, so no fixed
// delays are needed anywhere.
type SessionReconciler struct {
	identity port.IdentityGateway
	profiles port.ProfileRepository
	events   port.SessionEvents
	cache    *cache.ProfileCache
	logger   *slog.Logger

	probeTimeout time.Duration
	debounce     time.Duration

	mu          sync.RWMutex
	user        *domain.AuthUser
	loading     bool
	initialized bool
	latestSeq   uint64
	subscribers map[uint64]chan Snapshot
	nextSubID   uint64

	lastEnrichSubject uuid.UUID
	lastEnrichAt      time.Time

	cancelEvents func()
	initCh       chan struct{}
	done         chan struct{}
	startOnce    sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewSessionReconciler creates a reconciler with injectable dependencies.
func NewSessionReconciler(
	identity port.IdentityGateway,
	profiles port.ProfileRepository,
	events port.SessionEvents,
	profileCache *cache.ProfileCache,
	logger *slog.Logger,
	opts ReconcilerOptions,
) *SessionReconciler {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = defaultDebounceWindow
	}

	return &SessionReconciler{
		identity:     identity,
		profiles:     profiles,
		events:       events,
		cache:        profileCache,
		logger:       logger.With("component", "session_reconciler"),
		probeTimeout: opts.ProbeTimeout,
		debounce:     opts.DebounceWindow,
		loading:      true,
		subscribers:  make(map[uint64]chan Snapshot),
		initCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}
}

type probeResult struct {
	session *domain.Session
	err     error
}

type enrichResult struct {
	seq  uint64
	user *domain.AuthUser
}

// Start subscribes to the session change stream and launches the startup
// probe concurrently. It must be called exactly once; subsequent calls are
// no-ops.
func (r *SessionReconciler) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		evCh, cancel := r.events.Subscribe()
		r.cancelEvents = cancel

		probeCh := make(chan probeResult, 1)
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			probeCtx, probeCancel := context.WithTimeout(ctx, r.probeTimeout)
			defer probeCancel()
			session, err := r.identity.ProbeSession(probeCtx)
			probeCh <- probeResult{session: session, err: err}
		}()

		r.wg.Add(1)
		go r.run(ctx, evCh, probeCh)

		r.logger.Info("session reconciler started",
			"probe_timeout", r.probeTimeout,
			"debounce_window", r.debounce)
	})
}

// Stop unsubscribes from the change stream and terminates the processing
// loop. Safe to call more than once.
func (r *SessionReconciler) Stop() {
	r.stopOnce.Do(func() {
		if r.cancelEvents != nil {
			r.cancelEvents()
		}
		close(r.done)
	})
	r.wg.Wait()
}

// run is the single processing loop; all state transitions funnel through
// it or through the sequence-checked apply below.
func (r *SessionReconciler) run(ctx context.Context, evCh <-chan domain.SessionEvent, probeCh <-chan probeResult) {
	defer r.wg.Done()

	enrichCh := make(chan enrichResult, 8)
	streamSettled := false
	streamSawSession := false

	for {
		select {
		case <-r.done:
			return
		case <-ctx.Done():
			return

		case res := <-probeCh:
			probeCh = nil
			r.handleProbe(ctx, res, streamSettled, streamSawSession, enrichCh)

		case ev, ok := <-evCh:
			if !ok {
				evCh = nil
				continue
			}
			settled, sawSession := r.handleEvent(ctx, ev, enrichCh)
			if settled {
				streamSettled = true
				streamSawSession = sawSession
			}

		case res := <-enrichCh:
			r.apply(res.user, res.seq)
		}
	}
}

// handleProbe resolves the startup race between the probe and the stream.
func (r *SessionReconciler) handleProbe(ctx context.Context, res probeResult, streamSettled, streamSawSession bool, enrichCh chan<- enrichResult) {
	if res.err != nil {
		// Transient read failure degrades to signed-out rather than
		// blocking the application in a loading state.
		r.logger.Warn("session probe failed, resolving signed-out", "error", res.err)
		if !streamSettled && !r.isInitialized() {
			r.apply(nil, r.nextSeq())
		}
		return
	}

	if res.session == nil {
		if !streamSettled && !r.isInitialized() {
			r.apply(nil, r.nextSeq())
		}
		return
	}

	if streamSettled && streamSawSession {
		// The stream already produced a session; its value supersedes the
		// probe's restoration.
		r.logger.Debug("discarding probe result, stream already settled",
			"probe_subject", res.session.UserID)
		return
	}

	// Either nothing has settled yet, or the stream reported "no session"
	// while the probe restored one. The restored session wins.
	r.startEnrich(ctx, res.session, enrichCh)
}

// handleEvent processes one stream notification. The returned flags report
// whether this event settles the stream's view and whether it carried a
// session.
func (r *SessionReconciler) handleEvent(ctx context.Context, ev domain.SessionEvent, enrichCh chan<- enrichResult) (settled, sawSession bool) {
	switch ev.Type {
	case domain.EventSignedOut:
		// Logout is never debounced and always clears cached profiles.
		r.cache.Clear()
		r.apply(nil, r.nextSeq())
		return true, false

	case domain.EventTokenRefreshed:
		// Refresh changes the credential, not the subject: invalidate
		// cached profiles but leave the current user untouched.
		r.cache.Clear()
		return false, false

	case domain.EventSignedIn:
		if ev.Session == nil {
			r.logger.Warn("signed-in event without session, treating as sign-out", "seq", ev.Seq)
			r.cache.Clear()
			r.apply(nil, r.nextSeq())
			return true, false
		}

		r.cache.Clear()
		if r.withinDebounce(ev.Session.UserID) {
			r.logger.Debug("coalescing duplicate notification",
				"subject", ev.Session.UserID,
				"seq", ev.Seq)
			return true, true
		}
		r.startEnrich(ctx, ev.Session, enrichCh)
		return true, true

	default:
		r.logger.Warn("unknown session event type", "type", ev.Type, "seq", ev.Seq)
		return false, false
	}
}

// startEnrich launches profile enrichment for a session. The attempt is
// tagged with a fresh sequence number; if anything newer lands before the
// fetch returns, the result is discarded on arrival.
func (r *SessionReconciler) startEnrich(ctx context.Context, session *domain.Session, enrichCh chan<- enrichResult) {
	seq := r.nextSeq()
	r.noteEnrich(session.UserID)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		user := r.enrich(ctx, session)
		select {
		case enrichCh <- enrichResult{seq: seq, user: user}:
		case <-r.done:
		}
	}()
}

// enrich builds the AuthUser for a session, consulting the profile cache
// first. Enrichment never fails: missing or unreachable profiles fall back
// to the default profile so a valid session always yields a non-nil user.
func (r *SessionReconciler) enrich(ctx context.Context, session *domain.Session) *domain.AuthUser {
	if cached, ok := r.cache.Get(session.UserID); ok {
		user, _ := domain.NewAuthUser(session, cached)
		return user
	}

	profile, err := r.profiles.GetByUserID(ctx, session.UserID)
	switch {
	case err == nil:
		r.cache.Set(session.UserID, *profile)
	case errors.Is(err, domain.ErrProfileNotFound):
		profile = domain.DefaultProfile(session.UserID)
		r.cache.Set(session.UserID, *profile)
	default:
		r.logger.Warn("profile fetch failed, using defaults",
			"subject", session.UserID,
			"error", err)
		profile = domain.DefaultProfile(session.UserID)
	}

	user, _ := domain.NewAuthUser(session, profile)
	return user
}

// SignIn delegates the credential check to the identity backend and then
// performs an eager profile lookup so the caller learns the outcome
// synchronously instead of waiting for the next passive notification.
func (r *SessionReconciler) SignIn(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	session, err := r.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	r.cache.Clear()
	r.noteEnrich(session.UserID)
	user := r.enrich(ctx, session)
	// Sequence is taken after enrichment so the imperative sign-in always
	// supersedes a probe or stale notification resolving concurrently.
	r.apply(user, r.nextSeq())

	r.logger.Info("sign-in completed", "subject", user.ID)
	return user, nil
}

// SignUp delegates account creation. The resulting session may not be
// immediately active when the backend requires out-of-band confirmation;
// in that case the returned user is nil and the current user stays nil.
func (r *SessionReconciler) SignUp(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	session, err := r.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if session == nil {
		r.logger.Info("sign-up accepted, awaiting confirmation")
		return nil, nil
	}

	r.cache.Clear()
	r.noteEnrich(session.UserID)
	user := r.enrich(ctx, session)
	r.apply(user, r.nextSeq())

	r.logger.Info("sign-up completed with active session", "subject", user.ID)
	return user, nil
}

// SignOut clears local state before the backend call returns, so callers
// navigating right after it always observe a nil current user. A backend
// revocation failure is logged, not surfaced; the local session is gone
// either way.
func (r *SessionReconciler) SignOut(ctx context.Context) error {
	seq := r.nextSeq()
	r.cache.Clear()
	r.apply(nil, seq)

	if err := r.identity.InvalidateSession(ctx); err != nil {
		r.logger.Warn("backend session revocation failed", "error", err)
	}

	r.logger.Info("sign-out completed")
	return nil
}

// Snapshot returns the current controller state.
func (r *SessionReconciler) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// WaitForInit blocks until the first authoritative value has been produced
// or the context expires. The returned snapshot is valid either way; on
// timeout the caller treats the user as unauthenticated.
func (r *SessionReconciler) WaitForInit(ctx context.Context) (Snapshot, error) {
	select {
	case <-r.initCh:
		return r.Snapshot(), nil
	case <-ctx.Done():
		return r.Snapshot(), ctx.Err()
	}
}

// Subscribe registers a state-change listener for the application shell.
// Each state transition is delivered as a full snapshot; delivery is
// non-blocking and slow listeners miss intermediate values.
func (r *SessionReconciler) Subscribe() (<-chan Snapshot, func()) {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	ch := make(chan Snapshot, 8)
	r.subscribers[id] = ch
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if sub, ok := r.subscribers[id]; ok {
				delete(r.subscribers, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

// apply installs a new current-user value if seq is still the latest.
// Redundant applies carrying an identical user are absorbed silently so
// duplicate notifications never cause a visible flicker.
func (r *SessionReconciler) apply(user *domain.AuthUser, seq uint64) {
	r.mu.Lock()

	if seq < r.latestSeq {
		r.mu.Unlock()
		r.logger.Debug("discarding stale reconciliation result",
			"seq", seq,
			"latest_seq", r.latestSeq)
		return
	}

	changed := !equalUsers(r.user, user) || r.loading || !r.initialized
	r.user = user
	r.loading = false
	if !r.initialized {
		r.initialized = true
		close(r.initCh)
	}

	if !changed {
		r.mu.Unlock()
		return
	}

	snap := r.snapshotLocked()
	listeners := make([]chan Snapshot, 0, len(r.subscribers))
	for _, ch := range r.subscribers {
		listeners = append(listeners, ch)
	}
	r.mu.Unlock()

	for _, ch := range listeners {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (r *SessionReconciler) snapshotLocked() Snapshot {
	var user *domain.AuthUser
	if r.user != nil {
		copied := *r.user
		user = &copied
	}
	return Snapshot{
		User:        user,
		Loading:     r.loading,
		Initialized: r.initialized,
	}
}

// nextSeq advances the reconciliation sequence. Any in-flight enrichment
// tagged with an older value becomes stale at this point.
func (r *SessionReconciler) nextSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latestSeq++
	return r.latestSeq
}

// noteEnrich records the subject and time of the latest enrichment start
// for duplicate-notification coalescing.
func (r *SessionReconciler) noteEnrich(subject uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastEnrichSubject = subject
	r.lastEnrichAt = time.Now()
}

// withinDebounce reports whether an enrichment for the same subject started
// inside the debounce window. Debouncing only suppresses duplicate work;
// the last notification for a subject always eventually wins via sequence
// numbers.
func (r *SessionReconciler) withinDebounce(subject uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastEnrichSubject == subject && time.Since(r.lastEnrichAt) < r.debounce
}

func (r *SessionReconciler) isInitialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

func equalUsers(a, b *domain.AuthUser) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID && a.Email == b.Email && a.IsAdmin == b.IsAdmin && a.IsActive == b.IsActive
}
