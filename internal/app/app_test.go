package app

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaldes/emoscape/internal/landmark"
	"github.com/mvaldes/emoscape/internal/tracking"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(Config{
		DisableTracker: true,
		DisableAudio:   true,
		Width:          40,
		Height:         12,
		TargetFPS:      20,
		Log:            zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fullFace(curvature, openness float64) []mgl64.Vec2 {
	face := make([]mgl64.Vec2, landmark.MinFacePoints)
	const mouthY = 0.6
	face[landmark.FaceMouthLeft] = mgl64.Vec2{0.4, mouthY + curvature*0.1}
	face[landmark.FaceMouthRight] = mgl64.Vec2{0.6, mouthY + curvature*0.1}
	face[landmark.FaceUpperLip] = mgl64.Vec2{0.5, mouthY - openness/2}
	face[landmark.FaceLowerLip] = mgl64.Vec2{0.5, mouthY + openness/2}
	return face
}

func openHand(palmX, palmY float64) []mgl64.Vec2 {
	hand := make([]mgl64.Vec2, landmark.MinHandPoints)
	palm := mgl64.Vec2{palmX, palmY}
	hand[landmark.HandPalm] = palm
	for _, tip := range []int{landmark.HandIndexTip, landmark.HandMiddleTip, landmark.HandRingTip, landmark.HandPinkyTip} {
		hand[tip] = mgl64.Vec2{palmX, palmY - 0.15}
	}
	return hand
}

func TestApplyVisionUpdatesSharedState(t *testing.T) {
	s := newTestSession(t)

	s.applyVision(tracking.Result{
		Face: fullFace(0, 0.08),
		Hand: openHand(0.2, 0.3),
	})

	snap := s.store.Snapshot()
	assert.Greater(t, snap.MouthOpenness, 0.0)
	assert.Greater(t, snap.HandX, 0.0, "left-of-center palm mirrors to positive control x")
	assert.False(t, snap.IsFist)
}

func TestApplyVisionHoldsLastValuesOnMissingSets(t *testing.T) {
	s := newTestSession(t)

	s.applyVision(tracking.Result{
		Face: fullFace(0, 0.1),
		Hand: openHand(0.2, 0.3),
	})
	before := s.store.Snapshot()
	require.NotZero(t, before.MouthOpenness)

	s.applyVision(tracking.Result{})

	after := s.store.Snapshot()
	assert.Equal(t, before, after, "a frame with no detections must not move state")
}

func TestApplyVisionIgnoresShortSets(t *testing.T) {
	s := newTestSession(t)

	s.applyVision(tracking.Result{
		Face: fullFace(0, 0.1)[:10],
		Hand: openHand(0.2, 0.3)[:5],
	})

	snap := s.store.Snapshot()
	assert.Zero(t, snap.MouthOpenness)
	assert.Zero(t, snap.HandX)
}

func TestPausedFramesAreIdentical(t *testing.T) {
	s := newTestSession(t)

	// Advance the scene so it is not at its zero state.
	s.stepAudio()
	s.renderFrame(0.05)
	s.renderFrame(0.05)

	s.paused = true
	first := s.renderFrame(0.05)

	// The audio and vision producers keep writing while paused; the frame,
	// status line included, must not follow them.
	s.stepAudio()
	s.applyVision(tracking.Result{
		Face: fullFace(0.8, 0.3),
		Hand: openHand(0.1, 0.9),
	})

	second := s.renderFrame(0.05)
	assert.Equal(t, first, second)
}

func TestUnpausingResumesLiveSnapshot(t *testing.T) {
	s := newTestSession(t)

	s.paused = true
	s.renderFrame(0.05)

	s.applyVision(tracking.Result{Hand: openHand(0.1, 0.9)})
	s.paused = false

	frame := s.renderFrame(0.05)
	paused := s.pausedSnap
	assert.NotEqual(t, paused.HandX, s.store.Snapshot().HandX)
	assert.NotEmpty(t, frame.Lines)
	assert.False(t, s.pauseLatched, "the latch must clear once unpaused")
}

func TestUnpausedFramesAdvance(t *testing.T) {
	s := newTestSession(t)

	first := s.renderFrame(0.05)
	var different bool
	for i := 0; i < 10 && !different; i++ {
		next := s.renderFrame(0.05)
		different = !assert.ObjectsAreEqual(first.Lines, next.Lines)
	}
	assert.True(t, different, "the scene clock must move the scene while unpaused")
}

func TestStepAudioFeedsSyntheticSpectrum(t *testing.T) {
	s := newTestSession(t)

	for i := 0; i < 50; i++ {
		s.stepAudio()
	}
	snap := s.store.Snapshot()
	assert.Greater(t, snap.SoundAmplitude, 0.0)
	assert.GreaterOrEqual(t, snap.SoundFrequency, 0.0)
	assert.LessOrEqual(t, snap.SoundFrequency, 1.0)
}

func TestFakeSpectrumStaysInRange(t *testing.T) {
	f := newFakeSpectrum(64)
	for i := 0; i < 100; i++ {
		bins := f.Next(0.05)
		require.Len(t, bins, 64)
	}
}

func TestStatusBarPadsAndTruncates(t *testing.T) {
	assert.Equal(t, "abc  ", statusBar("abc", 5))
	assert.Equal(t, "abcde", statusBar("abcdefg", 5))
	assert.Equal(t, "abc", statusBar("abc", 0))
}
