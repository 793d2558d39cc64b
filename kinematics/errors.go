package kinematics

import (
	"github.com/pkg/errors"
)

var (
	errNoSolve             = errors.New("kinematics could not solve for position")
	errNoGeometricSolution = errors.New("no geometric solution for target pose")
	errUnreachableTarget   = errors.New("target position lies outside the manipulator's reachable workspace")
)

// NewIncorrectDoFError returns an error describing a joint angle vector whose length
// does not agree with the model's degree of freedom count.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of joint angles (%d) does not match model DoF (%d)", actual, expected)
}

// IsNoSolutionError returns whether the given error indicates that no inverse
// kinematics solution could be found for a target, as opposed to a caller mistake.
func IsNoSolutionError(err error) bool {
	return errors.Is(err, errNoSolve) || errors.Is(err, errUnreachableTarget) || errors.Is(err, errNoGeometricSolution)
}
