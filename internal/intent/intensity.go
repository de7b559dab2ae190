package intent

import "math"

// Intensity is a coarse strength bucket derived from sentiment.
type Intensity string

const (
	IntensityWeak   Intensity = "weak"
	IntensityNormal Intensity = "normal"
	IntensityStrong Intensity = "strong"
)

// IntensityOf maps a sentiment score in [-1,1] and magnitude in [0,inf) to a bucket.
// Either signal alone can raise the bucket.
func IntensityOf(score, magnitude float64) Intensity {
	s := math.Abs(score)
	switch {
	case s >= 0.5 || magnitude >= 2.0:
		return IntensityStrong
	case s >= 0.2 || magnitude >= 1.0:
		return IntensityNormal
	default:
		return IntensityWeak
	}
}
