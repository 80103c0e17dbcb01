// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/fieldsurvey/auth"
	"github.com/danielhkuo/fieldsurvey/models"
)

var ErrPageNotFound = errors.New("page not found")

// Registry holds the mounted pages of this process
type Registry struct {
	deps Deps
	idle time.Duration

	mu    sync.Mutex
	pages map[string]*Page
}

func NewRegistry(deps Deps, idle time.Duration) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Registry{
		deps:  deps,
		idle:  idle,
		pages: make(map[string]*Page),
	}
}

// Mount creates and mounts a new page for user
func (r *Registry) Mount(ctx context.Context, user *models.AuthenticatedUser) *Page {
	p := newPage(auth.NewPageID(), r.deps)

	r.mu.Lock()
	r.pages[p.id] = p
	r.mu.Unlock()

	p.Mount(ctx, user)
	slog.Info("page mounted", "page_id", p.id)
	return p
}

func (r *Registry) Get(id string) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pages[id]
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}

// Unmount removes and unmounts the page. Unknown IDs are ignored.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	p, ok := r.pages[id]
	delete(r.pages, id)
	r.mu.Unlock()

	if ok {
		p.Unmount()
		slog.Info("page unmounted", "page_id", id)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep unmounts pages idle for longer than the idle timeout and returns
// how many it removed
func (r *Registry) Sweep() int {
	cutoff := r.deps.Now().Add(-r.idle)

	var expired []*Page
	r.mu.Lock()
	for id, p := range r.pages {
		if p.LastSeen().Before(cutoff) {
			expired = append(expired, p)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, p := range expired {
		p.Unmount()
	}
	if len(expired) > 0 {
		slog.Info("idle pages unmounted", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps idle pages until ctx is done
func (r *Registry) Run(ctx context.Context) {
	interval := r.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close unmounts every page
func (r *Registry) Close() {
	r.mu.Lock()
	pages := r.pages
	r.pages = make(map[string]*Page)
	r.mu.Unlock()

	for _, p := range pages {
		p.Unmount()
	}
}
