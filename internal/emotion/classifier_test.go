package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialStateIsCalm(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	assert.Equal(t, Calm, c.Current())
}

func TestNeutralCurvatureStaysCalm(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	for i := 0; i < 10; i++ {
		assert.Equal(t, Calm, c.Observe(0.0))
	}
}

func TestSadCommitsOnSixthFrameNotEarlier(t *testing.T) {
	c := NewClassifier(Config{HappyBelow: -0.06, SadAbove: 0.06, HoldFrames: 5})
	for frame := 1; frame <= 5; frame++ {
		got := c.Observe(0.2)
		assert.Equalf(t, Calm, got, "frame %d committed too early", frame)
	}
	assert.Equal(t, Sad, c.Observe(0.2), "sixth frame should commit")
}

func TestHappyCommitsBelowLowerThreshold(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	var got Emotion
	for i := 0; i < 6; i++ {
		got = c.Observe(-0.3)
	}
	assert.Equal(t, Happy, got)
}

func TestAlternatingCandidatesNeverCommit(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	// Streak resets on every candidate change, so flicker between sad and
	// happy readings leaves the committed state untouched.
	for i := 0; i < 40; i++ {
		v := 0.2
		if i%2 == 0 {
			v = -0.2
		}
		assert.Equal(t, Calm, c.Observe(v))
	}
}

func TestShortBurstBelowHoldFramesIgnored(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	for i := 0; i < 4; i++ {
		c.Observe(0.2)
	}
	// Back to neutral before the streak reaches the hold depth.
	for i := 0; i < 10; i++ {
		assert.Equal(t, Calm, c.Observe(0.0))
	}
}

func TestTransitionBackRequiresFullStreak(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	for i := 0; i < 6; i++ {
		c.Observe(0.2)
	}
	assert.Equal(t, Sad, c.Current())

	for frame := 1; frame <= 5; frame++ {
		got := c.Observe(0.0)
		assert.Equalf(t, Sad, got, "frame %d left sad too early", frame)
	}
	assert.Equal(t, Calm, c.Observe(0.0))
}

func TestResetReturnsToCalm(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	for i := 0; i < 6; i++ {
		c.Observe(0.2)
	}
	c.Reset()
	assert.Equal(t, Calm, c.Current())
}

func TestDegenerateConfigFallsBack(t *testing.T) {
	c := NewClassifier(Config{HappyBelow: 0.5, SadAbove: -0.5, HoldFrames: 0})
	assert.Equal(t, Calm, c.Observe(0.0))
}
