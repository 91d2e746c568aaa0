package msftlod

import "math"

// DistanceFunc computes the viewing distance from which a level is displayed. level is 0 for the highest detail and
// lowestLevel for the lowest; hints are the screen coverage values found for the LOD, if any.
type DistanceFunc func(level, lowestLevel int, hints []float64) float64

// ComputeDistance is the default DistanceFunc. Level 0 is always displayed from distance 0. When the hints hold one screen
// coverage value in (0, 1] per level, level i is displayed from 1 / hints[i-1]; otherwise the distance grows geometrically
// as 2^(2*level).
func ComputeDistance(level, lowestLevel int, hints []float64) float64 {

	if level <= 0 {
		return 0
	}

	if validHints(hints, lowestLevel) {
		return 1 / hints[level-1]
	}

	return math.Pow(2, float64(2*level))

}

func validHints(hints []float64, lowestLevel int) bool {
	if len(hints) != lowestLevel+1 {
		return false
	}
	for _, h := range hints {
		if math.IsNaN(h) || h <= 0 || h > 1 {
			return false
		}
	}
	return true
}

// levelDistances computes the distance of every level of the plan with calc (or ComputeDistance if calc is nil). Distances
// never decrease from one level to the next, so the container orders levels the same way the plan does.
func levelDistances(plan *LevelPlan, calc DistanceFunc) []float64 {

	if calc == nil {
		calc = ComputeDistance
	}

	out := make([]float64, len(plan.Levels))

	for i := range out {
		out[i] = calc(i, plan.LowestLevel, plan.Hints)
		switch {
		case i == 0 && math.IsNaN(out[i]):
			out[i] = 0
		case i > 0 && (math.IsNaN(out[i]) || out[i] < out[i-1]):
			out[i] = out[i-1]
		}
	}

	return out

}
