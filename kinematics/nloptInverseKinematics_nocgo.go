//go:build windows || no_cgo

package kinematics

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/armkin/spatialmath"
)

// NloptIK mimics the type in the cgo compiled code.
type NloptIK struct{}

// CreateNloptIKSolver is not supported on this build.
func CreateNloptIKSolver(model *Model, logger golog.Logger, maxIterations int) (*NloptIK, error) {
	return nil, errors.New("nlopt is not supported on this build")
}

// SetSeed does nothing. The solver isn't real.
func (ik *NloptIK) SetSeed(seed int64) {}

// Solve refuses to solve problems without cgo.
func (ik *NloptIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []float64) (*Solution, error) {
	return nil, errors.New("cannot solve without cgo")
}
