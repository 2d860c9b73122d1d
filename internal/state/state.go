// Package state holds the single shared record all signal producers write
// and all consumers read.
//
// Field ownership is partitioned by writer: the vision path owns Emotion,
// MouthOpenness, MouthCurvature, HandX, HandY and IsFist; the audio path owns
// SoundAmplitude and SoundFrequency. All writes happen on the session's one
// event-loop goroutine, so the store carries no lock; consumers receive
// immutable Snapshot copies instead of references.
package state

import "github.com/mvaldes/emoscape/internal/emotion"

// Store is the process-lifetime mutable record.
type Store struct {
	// Vision-owned fields.
	Emotion        emotion.Emotion
	MouthOpenness  float64
	MouthCurvature float64
	HandX          float64
	HandY          float64
	IsFist         bool

	// Audio-owned fields.
	SoundAmplitude float64
	SoundFrequency float64
}

// NewStore returns a store with calm/zero session defaults.
func NewStore() *Store {
	return &Store{Emotion: emotion.Calm}
}

// Snapshot is the read-only copy handed to rendering and UI consumers.
// Cross-field consistency is best effort; each field is the latest value its
// owning producer wrote.
type Snapshot struct {
	Emotion        emotion.Emotion `json:"emotion"`
	MouthOpenness  float64         `json:"mouthOpenness"`
	MouthCurvature float64         `json:"mouthCurvature"`
	SoundAmplitude float64         `json:"soundAmplitude"`
	SoundFrequency float64         `json:"soundFrequency"`
	HandX          float64         `json:"handX"`
	HandY          float64         `json:"handY"`
	IsFist         bool            `json:"isFist"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Emotion:        s.Emotion,
		MouthOpenness:  s.MouthOpenness,
		MouthCurvature: s.MouthCurvature,
		SoundAmplitude: s.SoundAmplitude,
		SoundFrequency: s.SoundFrequency,
		HandX:          s.HandX,
		HandY:          s.HandY,
		IsFist:         s.IsFist,
	}
}
