// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/fieldsurvey/auth"
	"github.com/danielhkuo/fieldsurvey/models"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError is returned for any non-2xx backend response
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Client talks to the survey backend. It never retries.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	readTimeout time.Duration
	tracer      trace.Tracer
}

func New(baseURL string, httpClient *http.Client, readTimeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		readTimeout: readTimeout,
		tracer:      otel.Tracer("github.com/danielhkuo/fieldsurvey/apiclient"),
	}
}

// GetFullCampaigns handles GET /campaigns/full
func (c *Client) GetFullCampaigns(ctx context.Context) ([]models.Campaign, error) {
	campaigns := []models.Campaign{}
	if err := c.read(ctx, "/campaigns/full", &campaigns); err != nil {
		return nil, fmt.Errorf("get campaigns: %w", err)
	}
	return campaigns, nil
}

// GetResponses handles GET /responses
func (c *Client) GetResponses(ctx context.Context) ([]models.SurveyResponse, error) {
	responses := []models.SurveyResponse{}
	if err := c.read(ctx, "/responses", &responses); err != nil {
		return nil, fmt.Errorf("get responses: %w", err)
	}
	return responses, nil
}

// UpdateResearcherRoute handles PUT /researchers/{id}/route.
// No timeout is applied beyond what ctx carries.
func (c *Client) UpdateResearcherRoute(ctx context.Context, researcherID string, point models.GeoPoint) error {
	body, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("encode route point: %w", err)
	}
	path := "/researchers/" + url.PathEscape(researcherID) + "/route"

	ctx, span := c.tracer.Start(ctx, "apiclient.UpdateResearcherRoute",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("researcher.id", researcherID)))
	defer span.End()

	if err := c.do(ctx, http.MethodPut, path, bytes.NewReader(body), nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update route: %w", err)
	}
	return nil
}

func (c *Client) read(ctx context.Context, path string, out any) error {
	ctx, span := c.tracer.Start(ctx, "apiclient.GET "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if c.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
	}

	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := auth.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
