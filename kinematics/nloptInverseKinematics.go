//go:build !windows && !no_cgo

package kinematics

import (
	"context"
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/armkin/spatialmath"
)

const nloptStepsPerIter = 4001

// NloptIK performs gradient descent on the combined pose metric through nlopt's SLSQP
// implementation. Like JacobianIK it is deterministic for a given random seed and
// bounded by a fixed iteration budget.
type NloptIK struct {
	model         *Model
	logger        golog.Logger
	maxIterations int
	epsilon       float64
	lowerBound    []float64
	upperBound    []float64
	// How much to adjust joints to determine slope
	jump     float64
	randSeed *rand.Rand
}

// CreateNloptIKSolver creates an nlopt-backed solver for the given model. If
// maxIterations is less than 1 the default budget is used.
func CreateNloptIKSolver(model *Model, logger golog.Logger, maxIterations int) (*NloptIK, error) {
	if maxIterations < 1 {
		maxIterations = defaultMaxIterations
	}
	//nolint:gosec
	return &NloptIK{
		model:         model,
		logger:        logger,
		maxIterations: maxIterations,
		epsilon:       defaultEpsilonPosition * defaultEpsilonPosition,
		lowerBound:    model.lowerBounds(),
		upperBound:    model.upperBounds(),
		jump:          1e-8,
		randSeed:      rand.New(rand.NewSource(1)),
	}, nil
}

// SetSeed sets the random seed of this solver.
func (ik *NloptIK) SetSeed(seed int64) {
	//nolint:gosec
	ik.randSeed = rand.New(rand.NewSource(seed))
}

// Solve runs the actual solver, restarting from random in-bounds configurations until
// a solution meets the tolerances or the iteration budget runs out.
func (ik *NloptIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []float64) (*Solution, error) {
	dof := ik.model.Dof()
	if seed == nil {
		seed = make([]float64, dof)
	}
	if len(seed) != dof {
		return nil, NewIncorrectDoFError(len(seed), dof)
	}

	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(dof))
	if err != nil {
		return nil, errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	metric := NewSquaredNormMetric(goal)
	iterations := 0

	// x is our joint positions
	// Gradient is, under the hood, an unsafe C structure that we are meant to mutate in place.
	nloptMinFunc := func(x, gradient []float64) float64 {
		iterations++

		eePos, err := ik.model.Transform(x)
		if err != nil {
			ik.logger.Errorw("error calculating eePos in nlopt", "error", err)
			if err := opt.ForceStop(); err != nil {
				ik.logger.Errorw("forcestop error", "error", err)
			}
			return 0
		}
		dist := metric(eePos)

		if len(gradient) > 0 {
			xBak := append([]float64{}, x...)
			for i := range gradient {
				flip := false
				xBak[i] += ik.jump
				if xBak[i] >= ik.upperBound[i] {
					flip = true
					xBak[i] -= 2 * ik.jump
				}
				eePos, err := ik.model.Transform(xBak)
				if err != nil {
					ik.logger.Errorw("error calculating eePos in nlopt", "error", err)
					if err := opt.ForceStop(); err != nil {
						ik.logger.Errorw("forcestop error", "error", err)
					}
					return 0
				}
				dist2 := metric(eePos)
				gradient[i] = (dist2 - dist) / ik.jump
				if flip {
					xBak[i] += ik.jump
					gradient[i] *= -1
				} else {
					xBak[i] -= ik.jump
				}
			}
		}
		return dist
	}

	// The absolute smallest value able to be represented by a float64
	floatEpsilon := math.Nextafter(1, 2) - 1
	err = multierr.Combine(
		opt.SetFtolAbs(floatEpsilon),
		opt.SetFtolRel(floatEpsilon),
		opt.SetLowerBounds(ik.lowerBound),
		opt.SetMinObjective(nloptMinFunc),
		opt.SetStopVal(ik.epsilon),
		opt.SetUpperBounds(ik.upperBound),
		opt.SetXtolAbs1(floatEpsilon),
		opt.SetXtolRel(floatEpsilon),
		opt.SetMaxEval(nloptStepsPerIter),
	)
	if err != nil {
		return nil, err
	}

	startingPos := make([]float64, dof)
	for i, angle := range seed {
		startingPos[i] = clamp(angle, ik.lowerBound[i], ik.upperBound[i])
	}

	for iterations < ik.maxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iterations++

		solutionRaw, _, nloptErr := opt.Optimize(startingPos)
		if nloptErr != nil {
			// This just *happens* sometimes due to weirdnesses in nonlinear randomized problems.
			// Ignore it, something else will find a solution
			err = multierr.Combine(err, nloptErr)
		}

		if solutionRaw != nil {
			fk, fkErr := ik.model.Transform(solutionRaw)
			if fkErr != nil {
				return nil, fkErr
			}
			if withinTolerances(goal, fk, defaultEpsilonPosition, defaultEpsilonOrientation) {
				solution := ik.model.Normalize(solutionRaw)
				if ik.model.AreJointPositionsValid(solution) {
					return &Solution{Angles: solution, Score: metric(fk), Kind: SolutionNumeric}, nil
				}
			}
		}
		startingPos = ik.model.GenerateRandomJointPositions(ik.randSeed)
	}

	return nil, multierr.Combine(errNoSolve, err)
}
