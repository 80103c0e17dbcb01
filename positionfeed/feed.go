// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package positionfeed

import (
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/fieldsurvey/location"
	"github.com/danielhkuo/fieldsurvey/models"
)

// bufferSize bounds the samples queued per watch. Older samples are kept,
// newer ones are dropped once it is full; the reporter throttles anyway.
const bufferSize = 16

type event struct {
	pos  *models.Position
	perr *models.PositionError
}

// Feed is a location.Source for positions pushed from outside, typically by
// the browser tab that owns a dashboard page.
type Feed struct {
	now func() time.Time

	mu       sync.Mutex
	last     *models.Position
	lastAt   time.Time
	watchers map[*watch]struct{}
}

func New() *Feed {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Feed {
	return &Feed{
		now:      now,
		watchers: make(map[*watch]struct{}),
	}
}

// Publish records pos as the latest position and queues it for every watch
func (f *Feed) Publish(pos models.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := pos
	f.last = &p
	f.lastAt = f.now()
	for w := range f.watchers {
		w.enqueue(event{pos: &p})
	}
}

// PublishError queues perr for every watch
func (f *Feed) PublishError(perr models.PositionError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e := perr
	for w := range f.watchers {
		w.enqueue(event{perr: &e})
	}
}

// Watchers returns the number of live watches
func (f *Feed) Watchers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}

// Watch implements location.Source. Callbacks run on a goroutine owned by the
// watch, one at a time.
func (f *Feed) Watch(opts location.WatchOptions, onPosition func(models.Position), onError func(models.PositionError)) (location.Subscription, error) {
	w := &watch{
		feed:   f,
		events: make(chan event, bufferSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	f.mu.Lock()
	if f.last != nil && opts.MaximumAge > 0 && f.now().Sub(f.lastAt) <= opts.MaximumAge {
		w.enqueue(event{pos: f.last})
	}
	f.watchers[w] = struct{}{}
	f.mu.Unlock()

	go w.run(opts.Timeout, onPosition, onError)
	return w, nil
}

func (f *Feed) remove(w *watch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.watchers, w)
}

type watch struct {
	feed   *Feed
	events chan event
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// enqueue never blocks; the caller holds feed.mu
func (w *watch) enqueue(e event) {
	select {
	case w.events <- e:
	default:
		slog.Warn("position feed buffer full, dropping sample")
	}
}

// Stop is idempotent. It does not wait for a callback already running.
func (w *watch) Stop() {
	w.once.Do(func() {
		w.feed.remove(w)
		close(w.stop)
	})
}

// Done is closed once the delivery goroutine has exited
func (w *watch) Done() <-chan struct{} {
	return w.done
}

func (w *watch) run(timeout time.Duration, onPosition func(models.Position), onError func(models.PositionError)) {
	defer close(w.done)

	// The acquisition timeout fires at most once, and only if no position
	// has arrived yet.
	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	for {
		select {
		case <-w.stop:
			return
		case <-timer:
			timer = nil
			if !w.stopped() {
				onError(models.PositionError{Code: models.PositionTimeout, Message: "Timeout expired"})
			}
		case e := <-w.events:
			if w.stopped() {
				return
			}
			if e.pos != nil {
				timer = nil
				onPosition(*e.pos)
			} else if e.perr != nil {
				onError(*e.perr)
			}
		}
	}
}

func (w *watch) stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}
