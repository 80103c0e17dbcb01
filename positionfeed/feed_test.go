package positionfeed

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/danielhkuo/fieldsurvey/location"
	"github.com/danielhkuo/fieldsurvey/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type collector struct {
	mu        sync.Mutex
	positions []models.Position
	errs      []models.PositionError
	notify    chan struct{}
}

func newCollector() *collector {
	return &collector{notify: make(chan struct{}, 64)}
}

func (c *collector) onPosition(p models.Position) {
	c.mu.Lock()
	c.positions = append(c.positions, p)
	c.mu.Unlock()
	c.notify <- struct{}{}
}

func (c *collector) onError(e models.PositionError) {
	c.mu.Lock()
	c.errs = append(c.errs, e)
	c.mu.Unlock()
	c.notify <- struct{}{}
}

func (c *collector) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func (c *collector) snapshot() ([]models.Position, []models.PositionError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Position(nil), c.positions...), append([]models.PositionError(nil), c.errs...)
}

func noTimeout() location.WatchOptions {
	return location.WatchOptions{EnableHighAccuracy: true}
}

func stopAndWait(t *testing.T, sub location.Subscription) {
	t.Helper()
	sub.Stop()
	select {
	case <-sub.(*watch).Done():
	case <-time.After(2 * time.Second):
		t.Fatal("delivery goroutine did not exit after Stop")
	}
}

func TestFeed_DeliversInOrder(t *testing.T) {
	feed := New()
	c := newCollector()

	sub, err := feed.Watch(noTimeout(), c.onPosition, c.onError)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer stopAndWait(t, sub)

	feed.Publish(models.Position{Latitude: 1})
	feed.PublishError(models.PositionError{Code: models.PositionUnavailable, Message: "no fix"})
	feed.Publish(models.Position{Latitude: 2})
	c.wait(t, 3)

	positions, errs := c.snapshot()
	if len(positions) != 2 || positions[0].Latitude != 1 || positions[1].Latitude != 2 {
		t.Errorf("positions = %+v", positions)
	}
	if len(errs) != 1 || errs[0].Message != "no fix" {
		t.Errorf("errors = %+v", errs)
	}
}

func TestFeed_StopIsIdempotent(t *testing.T) {
	feed := New()
	c := newCollector()

	sub, _ := feed.Watch(noTimeout(), c.onPosition, c.onError)
	if feed.Watchers() != 1 {
		t.Fatalf("expected 1 watcher, got %d", feed.Watchers())
	}

	stopAndWait(t, sub)
	sub.Stop()

	if feed.Watchers() != 0 {
		t.Errorf("expected no watchers after Stop, got %d", feed.Watchers())
	}

	feed.Publish(models.Position{Latitude: 1})
	positions, _ := c.snapshot()
	if len(positions) != 0 {
		t.Errorf("stopped watch received %+v", positions)
	}
}

func TestFeed_CachedPositionWithinMaximumAge(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	feed := NewWithClock(clock)
	feed.Publish(models.Position{Latitude: 42})

	opts := location.WatchOptions{MaximumAge: 10 * time.Second}

	advance(9 * time.Second)
	fresh := newCollector()
	sub, _ := feed.Watch(opts, fresh.onPosition, fresh.onError)
	fresh.wait(t, 1)
	stopAndWait(t, sub)

	positions, _ := fresh.snapshot()
	if len(positions) != 1 || positions[0].Latitude != 42 {
		t.Errorf("expected cached position, got %+v", positions)
	}

	advance(2 * time.Second)
	stale := newCollector()
	sub, _ = feed.Watch(opts, stale.onPosition, stale.onError)
	stopAndWait(t, sub)

	positions, _ = stale.snapshot()
	if len(positions) != 0 {
		t.Errorf("position older than MaximumAge must not be replayed, got %+v", positions)
	}
}

func TestFeed_AcquisitionTimeout(t *testing.T) {
	feed := New()
	c := newCollector()

	sub, _ := feed.Watch(location.WatchOptions{Timeout: 20 * time.Millisecond}, c.onPosition, c.onError)
	defer stopAndWait(t, sub)

	c.wait(t, 1)
	_, errs := c.snapshot()
	if len(errs) != 1 || errs[0].Code != models.PositionTimeout {
		t.Fatalf("expected one timeout error, got %+v", errs)
	}

	// The watch continues after a timeout
	feed.Publish(models.Position{Latitude: 3})
	c.wait(t, 1)
	positions, errs := c.snapshot()
	if len(positions) != 1 {
		t.Errorf("expected delivery after timeout, got %+v", positions)
	}
	if len(errs) != 1 {
		t.Errorf("timeout must fire once, got %d errors", len(errs))
	}
}

func TestFeed_PositionCancelsTimeout(t *testing.T) {
	feed := New()
	c := newCollector()

	sub, _ := feed.Watch(location.WatchOptions{Timeout: 50 * time.Millisecond}, c.onPosition, c.onError)
	defer stopAndWait(t, sub)

	feed.Publish(models.Position{Latitude: 1})
	c.wait(t, 1)
	time.Sleep(100 * time.Millisecond)

	_, errs := c.snapshot()
	if len(errs) != 0 {
		t.Errorf("timeout fired after a position arrived: %+v", errs)
	}
}

func TestFeed_ImplementsSource(t *testing.T) {
	var _ location.Source = New()
}
