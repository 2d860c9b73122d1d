// Package tracking abstracts the external body-tracking collaborator. The
// controller depends only on the Tracker interface; concrete adapters wrap
// the landmark service (websocket) or synthesize frames for hardware-less
// runs.
package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnavailable reports that the tracking collaborator cannot be reached.
// It is an initialization failure: surfaced once, never retried by the
// controller.
var ErrUnavailable = errors.New("tracking collaborator unavailable")

// Result is one per-frame delivery: zero-or-one face landmark set and
// zero-or-one hand landmark set, coordinates normalized to [0,1] image
// space. A nil slice means no detection this frame.
type Result struct {
	Face      []mgl64.Vec2
	Hand      []mgl64.Vec2
	Timestamp time.Time
}

// Options configures an adapter before Start.
type Options struct {
	// MinFacePoints and MinHandPoints filter deliveries whose landmark
	// sets are too short to normalize; short sets are dropped as
	// transient signal gaps.
	MinFacePoints int
	MinHandPoints int
}

// Tracker is the capability interface over the external tracking library.
// Callbacks are serialized by the adapter and never overlap.
type Tracker interface {
	Configure(opts Options) error
	OnResult(fn func(Result))
	Start(ctx context.Context) error
	Close() error
}
