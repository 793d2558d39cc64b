package kinematics

import (
	"context"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/armkin/spatialmath"
)

// CombinedIK implements the two-branch inverse kinematics strategy: a closed-form
// geometric attempt first, falling back to the numeric solvers when the geometry
// offers no valid solution. The numeric solvers are run in parallel and the first
// solution found wins; the fan-out is internal, joined before Solve returns, so the
// external contract stays synchronous call/return.
type CombinedIK struct {
	model     *Model
	logger    golog.Logger
	geometric *GeometricIK
	numeric   []InverseKinematics
}

// CreateCombinedIKSolver creates the default solver stack for a model. Models whose
// link layout the closed form does not cover use the numeric solvers only.
func CreateCombinedIKSolver(model *Model, logger golog.Logger) (*CombinedIK, error) {
	ik := &CombinedIK{model: model, logger: logger}

	geometric, err := CreateGeometricIKSolver(model, logger)
	if err != nil {
		logger.Debugw("closed-form solver unavailable for model", "model", model.Name(), "reason", err)
	} else {
		ik.geometric = geometric
	}

	ik.numeric = append(ik.numeric, CreateJacobianIKSolver(model, logger, 0))
	if nloptSolver, err := CreateNloptIKSolver(model, logger, 0); err == nil {
		// distinct seed so the solvers explore different restart sequences
		nloptSolver.SetSeed(2)
		ik.numeric = append(ik.numeric, nloptSolver)
	}
	return ik, nil
}

// Solve attempts the geometric branch, then fans out the numeric solvers, seeding all
// with the specified initial joint positions. If unable to solve, the returned error
// will be non-nil.
func (ik *CombinedIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []float64) (*Solution, error) {
	if ik.geometric != nil {
		solution, err := ik.geometric.Solve(ctx, goal, seed)
		if err == nil {
			return solution, nil
		}
		if !errors.Is(err, errNoGeometricSolution) {
			return nil, err
		}
	}

	ctxWithCancel, cancel := context.WithCancel(ctx)
	defer cancel()

	solutionChan := make(chan *Solution, len(ik.numeric))
	errChan := make(chan error, len(ik.numeric))
	var activeSolvers sync.WaitGroup
	defer activeSolvers.Wait()

	for _, solver := range ik.numeric {
		thisSolver := solver
		activeSolvers.Add(1)
		goutils.PanicCapturingGo(func() {
			defer activeSolvers.Done()
			solution, err := thisSolver.Solve(ctxWithCancel, goal, seed)
			if err != nil {
				errChan <- err
				return
			}
			solutionChan <- solution
		})
	}

	var solveErrors error
	for range ik.numeric {
		select {
		case solution := <-solutionChan:
			cancel()
			return solution, nil
		case err := <-errChan:
			solveErrors = multierr.Combine(solveErrors, err)
		}
	}
	return nil, solveErrors
}
