// Package utils contains small math helpers shared by the kinematics packages.
package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// AngleDiffRad returns the closest difference from the two given
// angles in radians. The arguments are commutative and may lie
// outside [-pi, pi].
func AngleDiffRad(a1, a2 float64) float64 {
	diff := math.Abs(math.Mod(a1-a2, 2*math.Pi))
	return math.Pi - math.Abs(diff-math.Pi)
}

// SubAnglesRad returns a1-a2 normalized to (-pi, pi].
func SubAnglesRad(a1, a2 float64) float64 {
	diff := math.Mod(a1-a2, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff <= -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}

// Float64AlmostEqual compares two float64s and returns if their difference is less than epsilon.
func Float64AlmostEqual(v1, v2, epsilon float64) bool {
	return math.Abs(v1-v2) < epsilon
}

// Square is faster than math.Pow(x, 2).
func Square(n float64) float64 {
	return n * n
}
