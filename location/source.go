package location

import (
	"time"

	"github.com/danielhkuo/fieldsurvey/models"
)

// WatchOptions are passed to the position source on subscribe
type WatchOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// DefaultWatchOptions asks for high accuracy, gives acquisition 20s and
// accepts cached positions up to 10s old.
var DefaultWatchOptions = WatchOptions{
	EnableHighAccuracy: true,
	Timeout:            20 * time.Second,
	MaximumAge:         10 * time.Second,
}

// Subscription is a live watch on a Source. Stop must be safe to call more
// than once.
type Subscription interface {
	Stop()
}

// Source delivers position samples or errors until the subscription stops.
// Callbacks for one subscription are never invoked concurrently.
type Source interface {
	Watch(opts WatchOptions, onPosition func(models.Position), onError func(models.PositionError)) (Subscription, error)
}
