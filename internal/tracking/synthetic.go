package tracking

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Synthetic generates landmark frames with slow sinusoidal expression and
// hand drift plus a little jitter, so the full pipeline runs without a
// camera or tracking service.
type Synthetic struct {
	interval time.Duration
	rng      *rand.Rand
	onRes    func(Result)
	cancel   context.CancelFunc

	phaseMood float64
	phaseHand float64
	phaseFist float64
}

// NewSynthetic creates a generator emitting one frame per interval.
func NewSynthetic(interval time.Duration) *Synthetic {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return &Synthetic{
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Configure is a no-op: synthetic frames always carry full point sets.
func (s *Synthetic) Configure(Options) error { return nil }

// OnResult registers the per-frame callback.
func (s *Synthetic) OnResult(fn func(Result)) { s.onRes = fn }

// Start begins emitting frames until ctx ends.
func (s *Synthetic) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.onRes(s.next())
			}
		}
	}()
	return nil
}

// Close stops frame emission.
func (s *Synthetic) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *Synthetic) next() Result {
	dt := s.interval.Seconds()
	s.phaseMood += dt * 0.25
	s.phaseHand += dt * 0.5
	s.phaseFist += dt * 0.11

	// Mood swings between smile and frown over ~25s.
	mood := math.Sin(s.phaseMood) * 0.04
	openness := 0.15 + 0.1*math.Abs(math.Sin(s.phaseMood*1.7))
	jitter := func() float64 { return (s.rng.Float64() - 0.5) * 0.004 }

	face := make([]mgl64.Vec2, 68)
	const mouthY = 0.62
	face[48] = mgl64.Vec2{0.42 + jitter(), mouthY + mood + jitter()}
	face[54] = mgl64.Vec2{0.58 + jitter(), mouthY + mood + jitter()}
	face[51] = mgl64.Vec2{0.5 + jitter(), mouthY - openness/2 + jitter()}
	face[57] = mgl64.Vec2{0.5 + jitter(), mouthY + openness/2 + jitter()}

	// Hand sweeps a slow circle; spread collapses periodically into a fist.
	palm := mgl64.Vec2{
		0.5 + 0.3*math.Cos(s.phaseHand),
		0.5 + 0.3*math.Sin(s.phaseHand),
	}
	spread := 0.12
	if math.Sin(s.phaseFist) > 0.6 {
		spread = 0.04
	}

	hand := make([]mgl64.Vec2, 21)
	hand[0] = mgl64.Vec2{palm.X(), palm.Y() + 0.1}
	hand[9] = palm
	for i, tip := range []int{8, 12, 16, 20} {
		angle := float64(i)*0.5 - 0.75
		hand[tip] = mgl64.Vec2{
			palm.X() + spread*math.Sin(angle) + jitter(),
			palm.Y() - spread*math.Cos(angle) + jitter(),
		}
	}

	return Result{Face: face, Hand: hand, Timestamp: time.Now()}
}
