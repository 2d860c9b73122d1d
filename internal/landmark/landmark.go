// Package landmark converts raw tracked landmark point sets into the scalar
// and vector features the controller consumes: mouth width/height/curvature,
// mirrored hand position and a fist score.
//
// Face points follow the 68-point convention (mouth corners at 48/54, lip
// centers at 51/57); hand points follow the 21-point convention (wrist 0,
// palm center at the middle-finger MCP, fingertips 8/12/16/20). Coordinates
// arrive normalized to [0,1] image space with y growing downward.
package landmark

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mvaldes/emoscape/internal/smooth"
)

// Face landmark indices (68-point convention).
const (
	FaceMouthLeft  = 48
	FaceMouthRight = 54
	FaceUpperLip   = 51
	FaceLowerLip   = 57
	MinFacePoints  = 68
)

// Hand landmark indices (21-point convention).
const (
	HandWrist     = 0
	HandPalm      = 9
	HandIndexTip  = 8
	HandMiddleTip = 12
	HandRingTip   = 16
	HandPinkyTip  = 20
	MinHandPoints = 21
)

// DefaultFistThreshold is the summed fingertip-to-palm distance below which
// the hand counts as closed.
const DefaultFistThreshold = 0.35

// MouthFeatures are the raw per-frame mouth measurements before smoothing.
type MouthFeatures struct {
	Width     float64
	Height    float64
	Openness  float64
	Curvature float64
}

// HandFeatures are the raw per-frame hand measurements.
type HandFeatures struct {
	X         float64
	Y         float64
	FistScore float64
	IsFist    bool
}

// MouthMetrics derives mouth features from a full face point set. The second
// return value is false when the set is too short to carry the mouth points,
// in which case the caller should hold its last known values.
func MouthMetrics(points []mgl64.Vec2) (MouthFeatures, bool) {
	if len(points) < MinFacePoints {
		return MouthFeatures{}, false
	}

	left := points[FaceMouthLeft]
	right := points[FaceMouthRight]
	upper := points[FaceUpperLip]
	lower := points[FaceLowerLip]

	width := Dist(left, right)
	height := Dist(upper, lower)

	var openness, curvature float64
	if width > 0 {
		openness = smooth.Clamp(height/width, 0, 1)

		// Positive curvature = corners below lip center = frown.
		cornersY := (left.Y() + right.Y()) / 2
		centerY := (upper.Y() + lower.Y()) / 2
		curvature = (cornersY - centerY) / (width / 2)
	}

	return MouthFeatures{
		Width:     width,
		Height:    height,
		Openness:  openness,
		Curvature: curvature,
	}, true
}

// HandMetrics derives hand features from a full hand point set. The palm
// position is mirrored horizontally and remapped from [0,1] image space to
// [-1,1] control space. The second return value is false when the set is too
// short.
func HandMetrics(points []mgl64.Vec2, fistThreshold float64) (HandFeatures, bool) {
	if len(points) < MinHandPoints {
		return HandFeatures{}, false
	}
	if fistThreshold <= 0 {
		fistThreshold = DefaultFistThreshold
	}

	palm := points[HandPalm]
	x := smooth.Clamp((1-palm.X())*2-1, -1, 1)
	y := smooth.Clamp(-palm.Y()*2+1, -1, 1)

	score := 0.0
	for _, tip := range []int{HandIndexTip, HandMiddleTip, HandRingTip, HandPinkyTip} {
		score += Dist(points[tip], palm)
	}

	return HandFeatures{
		X:         x,
		Y:         y,
		FistScore: score,
		IsFist:    score < fistThreshold,
	}, true
}

// Dist returns the Euclidean distance between two normalized points.
func Dist(a, b mgl64.Vec2) float64 {
	return math.Hypot(a.X()-b.X(), a.Y()-b.Y())
}
