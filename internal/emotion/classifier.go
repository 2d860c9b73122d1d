package emotion

// Sign convention: positive curvature means the mouth corners sit below the
// lip center in image space (y grows downward), i.e. a frown. SAD therefore
// triggers above the upper threshold and HAPPY below the lower one.

// Config controls classification thresholds and debounce depth.
type Config struct {
	// HappyBelow is the lower curvature threshold; smoothed values under it
	// classify as Happy.
	HappyBelow float64
	// SadAbove is the upper curvature threshold; smoothed values over it
	// classify as Sad.
	SadAbove float64
	// HoldFrames is the number of consecutive confirming frames required
	// before a transition commits.
	HoldFrames int
}

// DefaultConfig returns the thresholds used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		HappyBelow: -0.06,
		SadAbove:   0.06,
		HoldFrames: 5,
	}
}

// Classifier is a debounced three-state machine over smoothed curvature.
// The committed emotion changes only after HoldFrames consecutive frames
// agree on a different candidate; the streak counter resets to zero whenever
// the candidate changes from the previous frame's candidate.
type Classifier struct {
	cfg       Config
	committed Emotion
	prev      Emotion
	streak    int
}

// NewClassifier creates a classifier starting in Calm.
func NewClassifier(cfg Config) *Classifier {
	if cfg.HoldFrames <= 0 {
		cfg.HoldFrames = DefaultConfig().HoldFrames
	}
	if cfg.HappyBelow >= cfg.SadAbove {
		cfg.HappyBelow = DefaultConfig().HappyBelow
		cfg.SadAbove = DefaultConfig().SadAbove
	}
	return &Classifier{cfg: cfg}
}

// Observe feeds one smoothed curvature sample and returns the committed
// emotion after debounce.
func (c *Classifier) Observe(curvature float64) Emotion {
	candidate := c.classify(curvature)

	if candidate != c.prev {
		c.streak = 0
	} else {
		c.streak++
	}
	c.prev = candidate

	if candidate != c.committed && c.streak >= c.cfg.HoldFrames {
		c.committed = candidate
	}
	return c.committed
}

// Current returns the committed emotion without observing a sample.
func (c *Classifier) Current() Emotion {
	return c.committed
}

// Reset returns the machine to Calm with an empty streak.
func (c *Classifier) Reset() {
	c.committed = Calm
	c.prev = Calm
	c.streak = 0
}

func (c *Classifier) classify(curvature float64) Emotion {
	switch {
	case curvature < c.cfg.HappyBelow:
		return Happy
	case curvature > c.cfg.SadAbove:
		return Sad
	default:
		return Calm
	}
}
