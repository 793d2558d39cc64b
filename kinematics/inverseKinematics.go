package kinematics

import (
	"context"

	"go.viam.com/armkin/spatialmath"
)

// Default convergence thresholds: position error in the model's linear unit
// (millimeters for the bundled models) and orientation error in radians.
const (
	defaultEpsilonPosition    = 1e-3
	defaultEpsilonOrientation = 1e-3
)

// SolutionKind tags which solver path produced an inverse kinematics solution.
type SolutionKind int

// The two ways a solution can be found.
const (
	SolutionGeometric SolutionKind = iota + 1
	SolutionNumeric
)

func (k SolutionKind) String() string {
	switch k {
	case SolutionGeometric:
		return "geometric"
	case SolutionNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Solution holds one set of joint angles reaching a requested TCP pose, along with its
// combined metric score and the solver path that found it.
type Solution struct {
	Angles []float64
	Score  float64
	Kind   SolutionKind
}

// InverseKinematics takes a goal TCP pose and a seed joint configuration and computes
// a set of joint angles reaching the goal within the solver's tolerances. On failure
// the returned error is non-nil and the solution must not be trusted. The context
// allows callers to cancel long numeric searches early; every implementation also
// terminates on its own within a bounded iteration budget.
type InverseKinematics interface {
	Solve(ctx context.Context, goal spatialmath.Pose, seed []float64) (*Solution, error)
}
