// Package emotion maps smoothed mouth curvature onto a discrete emotion with
// threshold hysteresis and frame-count debounce so tracking noise never shows
// up as visible state flicker.
package emotion

// Emotion is the committed discrete state of the environment.
type Emotion int

const (
	Calm Emotion = iota
	Happy
	Sad
)

func (e Emotion) String() string {
	switch e {
	case Happy:
		return "happy"
	case Sad:
		return "sad"
	default:
		return "calm"
	}
}

// MarshalText lets snapshots serialize the emotion by name.
func (e Emotion) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses an emotion by name; unknown names fall back to Calm.
func (e *Emotion) UnmarshalText(text []byte) error {
	switch string(text) {
	case "happy":
		*e = Happy
	case "sad":
		*e = Sad
	default:
		*e = Calm
	}
	return nil
}
