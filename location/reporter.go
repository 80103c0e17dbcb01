// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package location

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/fieldsurvey/models"
)

// ThrottleWindow is the minimum spacing between accepted samples
const ThrottleWindow = 30 * time.Second

type State int

const (
	StateInactive State = iota
	StateWatching
)

func (s State) String() string {
	switch s {
	case StateWatching:
		return "watching"
	default:
		return "inactive"
	}
}

// Reporter forwards a field researcher's positions to a Notifier, at most
// one sample per ThrottleWindow.
//
// The subscription it holds belongs to the identity that created it. Any
// identity change stops the old subscription before a new one is made.
type Reporter struct {
	source   Source
	notifier Notifier
	opts     WatchOptions
	now      func() time.Time
	limiter  *rate.Limiter

	// lifecycle serializes SetUser and Close so that the old subscription
	// is always stopped before the next Watch. Source calls are made holding
	// lifecycle only, never mu, so callbacks can always make progress.
	lifecycle sync.Mutex
	closed    bool
	sub       Subscription

	mu           sync.Mutex
	user         *models.AuthenticatedUser
	ctx          context.Context
	generation   uint64
	lastAccepted time.Time
}

type Option func(*Reporter)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// WithWatchOptions overrides DefaultWatchOptions
func WithWatchOptions(opts WatchOptions) Option {
	return func(r *Reporter) { r.opts = opts }
}

// NewReporter builds an inactive reporter. A nil source means the host has
// no positioning capability; the reporter then never subscribes.
func NewReporter(source Source, notifier Notifier, opts ...Option) *Reporter {
	r := &Reporter{
		source:   source,
		notifier: notifier,
		opts:     DefaultWatchOptions,
		now:      time.Now,
		limiter:  rate.NewLimiter(rate.Every(ThrottleWindow), 1),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetUser applies the current identity. ctx is kept (without its
// cancellation) for the notifications sent on behalf of user.
func (r *Reporter) SetUser(ctx context.Context, user *models.AuthenticatedUser) {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	if r.closed {
		return
	}

	r.mu.Lock()
	if sameIdentity(r.user, user) {
		// Same identity, fresher credentials
		r.ctx = context.WithoutCancel(ctx)
		r.mu.Unlock()
		return
	}
	r.generation++
	if user != nil {
		u := *user
		r.user = &u
	} else {
		r.user = nil
	}
	r.ctx = context.WithoutCancel(ctx)
	gen := r.generation
	next := r.user
	r.mu.Unlock()

	r.stopLocked()
	if next.IsFieldResearcher() {
		r.startLocked(gen, next.ProfileID)
	}
}

// Close stops reporting for good. Safe to call more than once.
func (r *Reporter) Close() {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	r.mu.Lock()
	r.generation++
	r.mu.Unlock()

	r.stopLocked()
}

func (r *Reporter) State() State {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	if r.sub != nil {
		return StateWatching
	}
	return StateInactive
}

// LastAccepted returns when the last sample passed the throttle, zero if none has
func (r *Reporter) LastAccepted() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastAccepted
}

// startLocked subscribes for generation gen. Caller holds lifecycle.
func (r *Reporter) startLocked(gen uint64, profileID string) {
	if r.source == nil {
		return
	}

	sub, err := r.source.Watch(r.opts,
		func(pos models.Position) { r.handlePosition(gen, pos) },
		func(perr models.PositionError) { r.handleError(gen, perr) },
	)
	if err != nil {
		slog.Error("failed to watch position", "profile_id", profileID, "error", err)
		return
	}
	r.sub = sub
	slog.Info("location reporting started", "profile_id", profileID)
}

// stopLocked releases the current subscription, if any. Caller holds
// lifecycle. Callbacks still in flight carry an old generation and are dropped.
func (r *Reporter) stopLocked() {
	if r.sub == nil {
		return
	}
	r.sub.Stop()
	r.sub = nil
	slog.Info("location reporting stopped")
}

func (r *Reporter) handlePosition(gen uint64, pos models.Position) {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}

	now := r.now()
	if !r.limiter.AllowN(now, 1) {
		r.mu.Unlock()
		return
	}
	r.lastAccepted = now

	researcherID := r.user.ProfileID
	ctx := r.ctx
	notifier := r.notifier
	r.mu.Unlock()

	timestamp := pos.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}
	notifier.Notify(ctx, researcherID, models.GeoPoint{
		Lat:       pos.Latitude,
		Lng:       pos.Longitude,
		Timestamp: timestamp,
	})
}

func (r *Reporter) handleError(gen uint64, perr models.PositionError) {
	r.mu.Lock()
	current := gen == r.generation
	r.mu.Unlock()
	if !current {
		return
	}
	slog.Warn("position error", "code", perr.Code, "message", perr.Message)
}

func sameIdentity(a, b *models.AuthenticatedUser) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ProfileID == b.ProfileID && a.Role == b.Role
}
