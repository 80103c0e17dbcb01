// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package loader

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/fieldsurvey/models"
)

// Backend is the read side of the survey backend
type Backend interface {
	GetFullCampaigns(ctx context.Context) ([]models.Campaign, error)
	GetResponses(ctx context.Context) ([]models.SurveyResponse, error)
}

type Result struct {
	Campaigns []models.Campaign
	Responses []models.SurveyResponse
}

type Loader struct {
	backend Backend
}

func New(backend Backend) *Loader {
	return &Loader{backend: backend}
}

// Load fetches campaigns and responses concurrently and waits for both.
// Either both collections are returned or neither: on any failure the error
// is logged and an empty Result comes back with it.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	var (
		campaigns []models.Campaign
		responses []models.SurveyResponse
	)

	// A plain group: one request failing does not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		campaigns, err = l.backend.GetFullCampaigns(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = l.backend.GetResponses(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to load dashboard data", "error", err)
		return Result{}, err
	}

	slog.Info("dashboard data loaded", "campaigns", len(campaigns), "responses", len(responses))
	return Result{Campaigns: campaigns, Responses: responses}, nil
}
