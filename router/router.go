// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/fieldsurvey/cliparse"
	"github.com/danielhkuo/fieldsurvey/handlers"
	"github.com/danielhkuo/fieldsurvey/location"
	"github.com/danielhkuo/fieldsurvey/middleware"
	"github.com/danielhkuo/fieldsurvey/page"
)

func NewRouter(pages *page.Registry, authn middleware.Authenticator, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	dashboardHandler := handlers.NewDashboardHandler(pages, cfg, location.DefaultWatchOptions)

	// Every dashboard route sees the resolved session
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithUser(authn, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Dashboard page
	handle("GET /dashboard", dashboardHandler.Show)
	handle("GET /dashboard/view", dashboardHandler.View)
	handle("GET /dashboard/cards", dashboardHandler.Cards)
	handle("POST /dashboard/unmount", dashboardHandler.Unmount)

	// Tab location feed
	handle("POST /dashboard/capability", dashboardHandler.Capability)
	handle("POST /dashboard/positions", dashboardHandler.Positions)
	handle("POST /dashboard/position-errors", dashboardHandler.PositionErrors)

	// Root redirects to the dashboard
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	return mux
}
