package location

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielhkuo/fieldsurvey/models"
)

// Notifier is a best-effort sink for accepted samples. Notify must return
// immediately; delivery failures are the notifier's to log.
type Notifier interface {
	Notify(ctx context.Context, researcherID string, point models.GeoPoint)
}

// RouteUpdater is the write side of the survey backend
type RouteUpdater interface {
	UpdateResearcherRoute(ctx context.Context, researcherID string, point models.GeoPoint) error
}

// RouteNotifier sends each point to the backend on its own goroutine.
// Sends are never retried and have no deadline of their own.
type RouteNotifier struct {
	updater RouteUpdater
	wg      sync.WaitGroup
}

func NewRouteNotifier(updater RouteUpdater) *RouteNotifier {
	return &RouteNotifier{updater: updater}
}

func (n *RouteNotifier) Notify(ctx context.Context, researcherID string, point models.GeoPoint) {
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.updater.UpdateResearcherRoute(ctx, researcherID, point); err != nil {
			slog.Error("failed to update researcher route",
				"researcher_id", researcherID,
				"error", err,
			)
			return
		}
		slog.Debug("researcher route updated", "researcher_id", researcherID)
	}()
}

// Wait blocks until all in-flight sends have finished
func (n *RouteNotifier) Wait() {
	n.wg.Wait()
}
