package progression

import "math"

const (
	// BaseThreshold is the experience needed to clear stage 1.
	BaseThreshold = 100

	// ThresholdMultiplier scales the threshold for every stage past the first.
	ThresholdMultiplier = 1.5
)

// ThresholdFor returns the experience required to advance past stage.
// Stages below 1 are treated as stage 1.
func ThresholdFor(stage int) int {
	if stage < 1 {
		return BaseThreshold
	}
	return int(BaseThreshold * math.Pow(ThresholdMultiplier, float64(stage-1)))
}

// Progress returns how far experience is toward the stage threshold, in [0, 1].
func Progress(stage, experience int) float64 {
	if experience <= 0 {
		return 0
	}
	p := float64(experience) / float64(ThresholdFor(stage))
	if p > 1 {
		return 1
	}
	return p
}
