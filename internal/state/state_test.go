package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaldes/emoscape/internal/emotion"
)

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore()
	assert.Equal(t, emotion.Calm, s.Emotion)
	assert.Zero(t, s.MouthOpenness)
	assert.Zero(t, s.SoundAmplitude)
	assert.False(t, s.IsFist)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.MouthOpenness = 0.4
	snap := s.Snapshot()

	s.MouthOpenness = 0.9
	s.Emotion = emotion.Sad

	assert.Equal(t, 0.4, snap.MouthOpenness)
	assert.Equal(t, emotion.Calm, snap.Emotion)
}

func TestSnapshotSerializesEmotionByName(t *testing.T) {
	s := NewStore()
	s.Emotion = emotion.Happy
	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"emotion":"happy"`)
}
