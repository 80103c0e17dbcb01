// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/fieldsurvey/apiclient"
	"github.com/danielhkuo/fieldsurvey/auth"
	"github.com/danielhkuo/fieldsurvey/handlers"
	"github.com/danielhkuo/fieldsurvey/location"
	"github.com/danielhkuo/fieldsurvey/models"
	"github.com/danielhkuo/fieldsurvey/page"
	"github.com/danielhkuo/fieldsurvey/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	backend := testutil.NewFakeBackend()
	notifier := location.NewRouteNotifier(backend)
	pages := page.NewRegistry(page.Deps{Backend: backend, Notifier: notifier}, time.Hour)
	t.Cleanup(func() {
		pages.Close()
		notifier.Wait()
	})

	cfg := testutil.GetTestConfig("http://backend.invalid")
	return NewRouter(pages, auth.NewResolver(cfg.SessionSecret), cfg)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootRedirects(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Expected redirect to /dashboard, got %q", loc)
	}
}

func TestDashboardResolvesSession(t *testing.T) {
	mux := newTestRouter(t)
	token := testutil.SignToken(t, "r1", models.RoleFieldResearcher)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Harbour Workers") {
		t.Error("session cookie should resolve to the assigned researcher")
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/dashboard"},
		{"GET", "/dashboard/view"},
		{"GET", "/dashboard/cards"},
		{"POST", "/dashboard/unmount"},
		{"POST", "/dashboard/capability"},
		{"POST", "/dashboard/positions"},
		{"POST", "/dashboard/position-errors"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// The handler ran if the mux did not reject the route itself
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405", tc.method, tc.path)
			}
			if w.Code == http.StatusNotFound && !strings.Contains(w.Body.String(), "Page not mounted") {
				t.Errorf("Route %s %s not registered", tc.method, tc.path)
			}
		})
	}
}

func TestWrongMethod(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/dashboard/positions", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

// TestEndToEnd drives the router against the backend's HTTP contract: the
// page loads over HTTP and an accepted position reaches the route endpoint
// with the researcher's token.
func TestEndToEnd(t *testing.T) {
	backend := testutil.NewFakeBackend()
	srv := testutil.NewBackendServer(t, backend)

	cfg := testutil.GetTestConfig(srv.URL)
	client := apiclient.New(cfg.SurveyAPIURL, srv.Client(), cfg.APITimeout)
	notifier := location.NewRouteNotifier(client)
	pages := page.NewRegistry(page.Deps{Backend: client, Notifier: notifier}, cfg.PageIdleTimeout)
	defer func() {
		pages.Close()
		notifier.Wait()
	}()
	mux := NewRouter(pages, auth.NewResolver(cfg.SessionSecret), cfg)

	token := testutil.SignToken(t, "r1", models.RoleFieldResearcher)
	session := &http.Cookie{Name: auth.SessionCookie, Value: token}

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(session)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /dashboard: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Market Traders") {
		t.Fatal("dashboard should list campaigns fetched over HTTP")
	}
	doc := regexp.MustCompile(`data-document="([^"]+)"`).FindStringSubmatch(w.Body.String())
	if doc == nil {
		t.Fatal("dashboard should carry its document ID")
	}

	var pageCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == handlers.PageCookie {
			pageCookie = c
		}
	}
	if pageCookie == nil {
		t.Fatal("expected page cookie")
	}

	post := func(path, body string) int {
		req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(session)
		req.AddCookie(&http.Cookie{Name: pageCookie.Name, Value: pageCookie.Value})
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w.Code
	}

	if code := post("/dashboard/capability", `{"geolocation":true}`); code != http.StatusNoContent {
		t.Fatalf("capability: expected 204, got %d", code)
	}
	if code := post("/dashboard/positions", `{"latitude":51.5,"longitude":-0.12,"timestamp":"2026-05-04T10:00:00Z"}`); code != http.StatusAccepted {
		t.Fatalf("positions: expected 202, got %d", code)
	}

	testutil.Eventually(t, 2*time.Second, func() bool { return len(backend.Routes()) == 1 }, "route update delivered")

	route := backend.Routes()[0]
	if route.ResearcherID != "r1" || route.Point.Lat != 51.5 || route.Point.Lng != -0.12 {
		t.Errorf("unexpected route update %+v", route)
	}
	if route.Token != token {
		t.Error("route update should carry the researcher's token")
	}

	if code := post("/dashboard/unmount?doc="+doc[1], ""); code != http.StatusNoContent {
		t.Errorf("unmount: expected 204, got %d", code)
	}
	if pages.Len() != 0 {
		t.Errorf("expected no mounted pages, got %d", pages.Len())
	}
}
