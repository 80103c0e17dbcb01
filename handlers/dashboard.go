// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/fieldsurvey/auth"
	"github.com/danielhkuo/fieldsurvey/cliparse"
	"github.com/danielhkuo/fieldsurvey/location"
	"github.com/danielhkuo/fieldsurvey/middleware"
	"github.com/danielhkuo/fieldsurvey/models"
	"github.com/danielhkuo/fieldsurvey/page"
)

// PageCookie carries the signed ID of the tab's mounted page
const PageCookie = "fs_page"

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).ParseFS(templateFS, "templates/dashboard.html"))

type watchConfig struct {
	EnableHighAccuracy bool
	TimeoutMS          int64
	MaximumAgeMS       int64
}

type dashboardData struct {
	View     models.DashboardView
	Document string
	Watch    watchConfig
}

type DashboardHandler struct {
	pages *page.Registry
	cfg   cliparse.Config
	watch location.WatchOptions
}

func NewDashboardHandler(pages *page.Registry, cfg cliparse.Config, watch location.WatchOptions) *DashboardHandler {
	return &DashboardHandler{pages: pages, cfg: cfg, watch: watch}
}

// Show handles GET /dashboard
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	p, err := h.currentPage(r)
	if err != nil {
		p = h.pages.Mount(r.Context(), user)
		http.SetCookie(w, &http.Cookie{
			Name:     PageCookie,
			Value:    auth.SignPageID(p.ID(), h.cfg.SessionSecret),
			Path:     "/dashboard",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
	} else {
		p.SetUser(r.Context(), user)
	}
	p.SetQuery(r.URL.Query().Get("q"))
	doc := p.BeginDocument()

	if err := p.WaitLoaded(r.Context()); err != nil {
		// Client went away before the load finished
		slog.Debug("dashboard request abandoned", "page_id", p.ID(), "error", err)
		return
	}

	data := dashboardData{
		View:     p.View(),
		Document: doc,
		Watch: watchConfig{
			EnableHighAccuracy: h.watch.EnableHighAccuracy,
			TimeoutMS:          h.watch.Timeout.Milliseconds(),
			MaximumAgeMS:       h.watch.MaximumAge.Milliseconds(),
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := dashboardTemplate.Execute(w, data); err != nil {
		slog.Error("failed to render dashboard", "page_id", p.ID(), "error", err)
	}
}

// View handles GET /dashboard/view
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	if q, set := r.URL.Query()["q"]; set {
		p.SetQuery(q[0])
	}

	middleware.JSONResponse(w, http.StatusOK, p.View())
}

// Cards handles GET /dashboard/cards, the card section alone for in-page
// search
func (h *DashboardHandler) Cards(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	p.SetQuery(r.URL.Query().Get("q"))

	if err := p.WaitLoaded(r.Context()); err != nil {
		slog.Debug("cards request abandoned", "page_id", p.ID(), "error", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := dashboardTemplate.ExecuteTemplate(w, "cards", p.View()); err != nil {
		slog.Error("failed to render cards", "page_id", p.ID(), "error", err)
	}
}

// Capability handles POST /dashboard/capability
func (h *DashboardHandler) Capability(w http.ResponseWriter, r *http.Request) {
	var req models.CapabilityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	p.SetGeolocation(r.Context(), req.Geolocation)

	slog.Info("page capability reported", "page_id", p.ID(), "geolocation", req.Geolocation)
	w.WriteHeader(http.StatusNoContent)
}

// Positions handles POST /dashboard/positions
func (h *DashboardHandler) Positions(w http.ResponseWriter, r *http.Request) {
	var pos models.Position
	if err := middleware.ParseJSONBody(r, &pos); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if pos.Latitude < -90 || pos.Latitude > 90 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "latitude must be between -90 and 90")
		return
	}
	if pos.Longitude < -180 || pos.Longitude > 180 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "longitude must be between -180 and 180")
		return
	}

	p, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	p.Feed().Publish(pos)

	w.WriteHeader(http.StatusAccepted)
}

// PositionErrors handles POST /dashboard/position-errors
func (h *DashboardHandler) PositionErrors(w http.ResponseWriter, r *http.Request) {
	var perr models.PositionError
	if err := middleware.ParseJSONBody(r, &perr); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if perr.Code < models.PositionPermissionDenied || perr.Code > models.PositionTimeout {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code must be 1, 2 or 3")
		return
	}

	p, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	p.Feed().PublishError(perr)

	w.WriteHeader(http.StatusAccepted)
}

// Unmount handles POST /dashboard/unmount?doc=. Only the document that last
// rendered the page may unmount it; a beacon from a document the page has
// since moved on from is ignored. It always answers 204.
func (h *DashboardHandler) Unmount(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("doc")
	p, err := h.currentPage(r)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !p.IsCurrentDocument(doc) {
		slog.Debug("ignoring unmount from stale document", "page_id", p.ID())
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.pages.Unmount(p.ID())

	http.SetCookie(w, &http.Cookie{
		Name:     PageCookie,
		Value:    "",
		Path:     "/dashboard",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// currentPage looks up the page named by the request's page cookie
func (h *DashboardHandler) currentPage(r *http.Request) (*page.Page, error) {
	c, err := r.Cookie(PageCookie)
	if err != nil {
		return nil, page.ErrPageNotFound
	}
	pageID, err := auth.VerifyPageCookie(c.Value, h.cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	return h.pages.Get(pageID)
}

// requirePage resolves the page for a tab API call and applies the
// request's identity to it. It writes the error response itself.
func (h *DashboardHandler) requirePage(w http.ResponseWriter, r *http.Request) (*page.Page, bool) {
	p, err := h.currentPage(r)
	switch {
	case errors.Is(err, auth.ErrInvalidPageCookie):
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid page cookie")
		return nil, false
	case err != nil:
		middleware.ErrorResponse(w, http.StatusNotFound, "Page not mounted")
		return nil, false
	}

	p.SetUser(r.Context(), auth.UserFrom(r.Context()))
	p.Touch()
	return p, true
}
