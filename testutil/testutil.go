// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/fieldsurvey/auth"
	"github.com/danielhkuo/fieldsurvey/cliparse"
	"github.com/danielhkuo/fieldsurvey/models"
)

// TestSecret signs session tokens and page cookies in tests
const TestSecret = "test-session-secret"

// GetTestConfig returns a standard test configuration
func GetTestConfig(apiURL string) cliparse.Config {
	return cliparse.Config{
		Port:            3320,
		SurveyAPIURL:    apiURL,
		SessionSecret:   TestSecret,
		PageIdleTimeout: 30 * time.Minute,
		APITimeout:      2 * time.Second,
	}
}

// SignToken issues a session token the way the auth service would
func SignToken(t *testing.T, profileID string, role models.Role) string {
	t.Helper()

	claims := auth.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

// SampleCampaigns assigns c1, c2 and c4 to r1; c3 is inactive
func SampleCampaigns() []models.Campaign {
	return []models.Campaign{
		{ID: "c1", Name: "Harbour Workers", Description: "Dock shift patterns", Theme: "labour", IsActive: true, ResponseGoal: 2, ResearcherIDs: []string{"r1"}},
		{ID: "c2", Name: "Market Traders", Description: "Stall income", Theme: "economy", IsActive: true, ResponseGoal: 4, ResearcherIDs: []string{"r1", "r2"}},
		{ID: "c3", Name: "Harbour Pilots", Description: "Retired", Theme: "labour", IsActive: false, ResponseGoal: 5, ResearcherIDs: []string{"r1"}},
		{ID: "c4", Name: "Parents Evening", Description: "School engagement", Theme: "education", IsActive: true, ResponseGoal: 0, ResearcherIDs: []string{"r1"}},
	}
}

// SampleResponses meets c1's goal and puts c2 at 25%
func SampleResponses() []models.SurveyResponse {
	return []models.SurveyResponse{
		{ID: "s1", CampaignID: "c1"},
		{ID: "s2", CampaignID: "c1"},
		{ID: "s3", CampaignID: "c2"},
		{ID: "s4", CampaignID: "c4"},
	}
}

// RouteCall is one UpdateResearcherRoute received by FakeBackend
type RouteCall struct {
	ResearcherID string
	Point        models.GeoPoint
	Token        string
}

// FakeBackend is an in-memory survey backend
type FakeBackend struct {
	mu           sync.Mutex
	Campaigns    []models.Campaign
	Responses    []models.SurveyResponse
	CampaignsErr error
	ResponsesErr error
	RouteErr     error
	loads        int
	routes       []RouteCall
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{Campaigns: SampleCampaigns(), Responses: SampleResponses()}
}

func (b *FakeBackend) GetFullCampaigns(context.Context) ([]models.Campaign, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loads++
	if b.CampaignsErr != nil {
		return nil, b.CampaignsErr
	}
	return append([]models.Campaign(nil), b.Campaigns...), nil
}

func (b *FakeBackend) GetResponses(context.Context) ([]models.SurveyResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ResponsesErr != nil {
		return nil, b.ResponsesErr
	}
	return append([]models.SurveyResponse(nil), b.Responses...), nil
}

func (b *FakeBackend) UpdateResearcherRoute(ctx context.Context, researcherID string, point models.GeoPoint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes = append(b.routes, RouteCall{ResearcherID: researcherID, Point: point, Token: auth.TokenFrom(ctx)})
	return b.RouteErr
}

// Loads counts campaign fetches
func (b *FakeBackend) Loads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loads
}

func (b *FakeBackend) Routes() []RouteCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RouteCall(nil), b.routes...)
}

// NewBackendServer serves b over the survey backend's HTTP contract
func NewBackendServer(t *testing.T, b *FakeBackend) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /campaigns/full", func(w http.ResponseWriter, r *http.Request) {
		campaigns, err := b.GetFullCampaigns(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(campaigns)
	})
	mux.HandleFunc("GET /responses", func(w http.ResponseWriter, r *http.Request) {
		responses, err := b.GetResponses(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(responses)
	})
	mux.HandleFunc("PUT /researchers/{id}/route", func(w http.ResponseWriter, r *http.Request) {
		var point models.GeoPoint
		if err := json.NewDecoder(r.Body).Decode(&point); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		ctx := auth.WithToken(r.Context(), token)
		if err := b.UpdateResearcherRoute(ctx, r.PathValue("id"), point); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeader returns the Authorization header for token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// Eventually polls cond until it holds or the timeout passes
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}
