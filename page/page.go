// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package page

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/fieldsurvey/dashboard"
	"github.com/danielhkuo/fieldsurvey/loader"
	"github.com/danielhkuo/fieldsurvey/location"
	"github.com/danielhkuo/fieldsurvey/models"
	"github.com/danielhkuo/fieldsurvey/positionfeed"
)

// Deps are the collaborators shared by every mounted page
type Deps struct {
	Backend  loader.Backend
	Notifier location.Notifier
	// ReporterOptions are passed to each page's location reporter
	ReporterOptions []location.Option
	Now             func() time.Time
}

// Page is one mounted researcher dashboard. It loads its data once, keeps
// the search query and current user, and owns the location reporter of the
// tab it was mounted for.
type Page struct {
	id     string
	deps   Deps
	loader *loader.Loader
	feed   *positionfeed.Feed
	loaded chan struct{}

	mu        sync.Mutex
	mounted   bool
	unmounted bool
	user      *models.AuthenticatedUser
	query     string
	loading   bool
	campaigns []models.Campaign
	responses []models.SurveyResponse
	reporter  *location.Reporter
	document  string
	lastSeen  time.Time
}

func newPage(id string, deps Deps) *Page {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Page{
		id:       id,
		deps:     deps,
		loader:   loader.New(deps.Backend),
		feed:     positionfeed.NewWithClock(deps.Now),
		loaded:   make(chan struct{}),
		loading:  true,
		lastSeen: deps.Now(),
	}
}

func (p *Page) ID() string {
	return p.id
}

// Feed is the position source the page's tab publishes to
func (p *Page) Feed() *positionfeed.Feed {
	return p.feed
}

// Mount applies the initial user and starts the one-time data load.
// Calling it again does nothing.
func (p *Page) Mount(ctx context.Context, user *models.AuthenticatedUser) {
	p.mu.Lock()
	if p.mounted || p.unmounted {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	p.user = user
	p.mu.Unlock()

	// The load outlives the request that mounted the page
	go p.load(context.WithoutCancel(ctx))
}

func (p *Page) load(ctx context.Context) {
	result, _ := p.loader.Load(ctx)

	p.mu.Lock()
	p.campaigns = result.Campaigns
	p.responses = result.Responses
	p.loading = false
	p.mu.Unlock()

	close(p.loaded)
}

// WaitLoaded blocks until the initial load has finished, successfully or not
func (p *Page) WaitLoaded(ctx context.Context) error {
	select {
	case <-p.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetUser applies the identity resolved for the latest request
func (p *Page) SetUser(ctx context.Context, user *models.AuthenticatedUser) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unmounted {
		return
	}
	p.user = user
	if p.reporter != nil {
		p.reporter.SetUser(ctx, user)
	}
}

// SetGeolocation records whether the tab can provide positions. The
// reporter is only created once the tab reports that it can; a tab
// without the capability never gets a subscription.
func (p *Page) SetGeolocation(ctx context.Context, available bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unmounted || !available || p.reporter != nil {
		return
	}
	p.reporter = location.NewReporter(p.feed, p.deps.Notifier, p.deps.ReporterOptions...)
	p.reporter.SetUser(ctx, p.user)
}

func (p *Page) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
}

// View derives the dashboard from the page's current state
func (p *Page) View() models.DashboardView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return dashboard.BuildView(p.user, p.campaigns, p.responses, p.query, p.loading)
}

// ReporterState is the state of the location reporter, inactive when the
// tab has not reported a positioning capability
func (p *Page) ReporterState() location.State {
	p.mu.Lock()
	reporter := p.reporter
	p.mu.Unlock()
	if reporter == nil {
		return location.StateInactive
	}
	return reporter.State()
}

// BeginDocument records that a new document now shows this page and
// returns its ID. Only the latest document may unmount the page.
func (p *Page) BeginDocument() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.document = uuid.NewString()
	p.lastSeen = p.deps.Now()
	return p.document
}

// IsCurrentDocument reports whether doc is the document that last rendered
// the page
func (p *Page) IsCurrentDocument(doc string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return doc != "" && doc == p.document
}

// Touch marks the page as in use
func (p *Page) Touch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = p.deps.Now()
}

func (p *Page) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// Unmount releases the location subscription. An in-flight load is left to
// finish. Safe to call more than once.
func (p *Page) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unmounted {
		return
	}
	p.unmounted = true
	if p.reporter != nil {
		p.reporter.Close()
	}
}
