package kinematics

import (
	"go.viam.com/armkin/spatialmath"
	"go.viam.com/armkin/utils"
)

// orientationDistanceScaling weights orientation error against position error in the
// combined metric used for gradient descent.
const orientationDistanceScaling = 10.

// PositionError returns the Euclidean distance between the positions of two poses.
// Symmetric, and zero iff the positions are identical.
func PositionError(a, b spatialmath.Pose) float64 {
	return a.Point.Sub(b.Point).Norm()
}

// OrientationError returns the sum of the absolute differences of the Roll, Pitch and
// Yaw components of two poses, each normalized to its shortest angular distance so the
// discontinuity at +/- pi does not inflate the error. Symmetric, and zero iff the two
// orientations have identical angle decompositions.
func OrientationError(a, b spatialmath.Pose) float64 {
	return utils.AngleDiffRad(a.Orientation.Roll, b.Orientation.Roll) +
		utils.AngleDiffRad(a.Orientation.Pitch, b.Orientation.Pitch) +
		utils.AngleDiffRad(a.Orientation.Yaw, b.Orientation.Yaw)
}

// StateMetric scores a candidate TCP pose; lower is better. Used by the numeric
// solvers for gradient descent to converge upon a goal pose.
type StateMetric func(spatialmath.Pose) float64

// NewSquaredNormMetric returns the default distance function to be used for gradient
// descent against the given goal, combining squared position and scaled squared
// orientation error.
func NewSquaredNormMetric(goal spatialmath.Pose) StateMetric {
	return func(current spatialmath.Pose) float64 {
		return utils.Square(PositionError(goal, current)) +
			orientationDistanceScaling*utils.Square(OrientationError(goal, current))
	}
}

// withinTolerances reports whether a candidate pose meets both convergence thresholds
// against the goal.
func withinTolerances(goal, current spatialmath.Pose, epsPosition, epsOrientation float64) bool {
	return PositionError(goal, current) < epsPosition && OrientationError(goal, current) < epsOrientation
}
