package kinematics

import (
	"context"
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/armkin/spatialmath"
	"go.viam.com/armkin/utils"
)

const (
	defaultMaxIterations = 5000
	// jacobianJump is how much to adjust each joint to estimate the local Jacobian.
	jacobianJump = 1e-6
	// dlsDamping is the damped-least-squares lambda keeping steps bounded near
	// singular configurations.
	dlsDamping = 1.0
	// maxJointStep caps the per-joint change applied in one iteration (radians).
	maxJointStep = 0.5
	// stallIterations is how many iterations without metric improvement are allowed
	// before the solver reseeds from a random configuration.
	stallIterations = 50
	// orientationJacobianScaling converts the orientation error components to the
	// magnitude of the position components so neither dominates the least squares.
	orientationJacobianScaling = 100.
)

// JacobianIK iteratively refines a candidate joint configuration by damped least
// squares on a finite-difference Jacobian of the pose error. The search is
// deterministic for a given seed: random restarts draw from a rand.Rand seeded at
// construction. The iteration budget bounds every call.
type JacobianIK struct {
	model          *Model
	logger         golog.Logger
	maxIterations  int
	epsPosition    float64
	epsOrientation float64
	randSeed       *rand.Rand
}

// CreateJacobianIKSolver creates a damped-least-squares solver for the given model.
// If maxIterations is less than 1 the default budget is used.
func CreateJacobianIKSolver(model *Model, logger golog.Logger, maxIterations int) *JacobianIK {
	if maxIterations < 1 {
		maxIterations = defaultMaxIterations
	}
	//nolint:gosec
	return &JacobianIK{
		model:          model,
		logger:         logger,
		maxIterations:  maxIterations,
		epsPosition:    defaultEpsilonPosition,
		epsOrientation: defaultEpsilonOrientation,
		randSeed:       rand.New(rand.NewSource(1)),
	}
}

// SetSeed sets the random seed of this solver.
func (ik *JacobianIK) SetSeed(seed int64) {
	//nolint:gosec
	ik.randSeed = rand.New(rand.NewSource(seed))
}

// Solve runs the iterative search from the given seed configuration. It terminates
// successfully as soon as a candidate meets both error tolerances and the joint
// limits, and with errNoSolve once the iteration budget is exhausted.
func (ik *JacobianIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []float64) (*Solution, error) {
	dof := ik.model.Dof()
	if seed == nil {
		seed = make([]float64, dof)
	}
	if len(seed) != dof {
		return nil, NewIncorrectDoFError(len(seed), dof)
	}

	lower, upper := ik.model.lowerBounds(), ik.model.upperBounds()
	q := make([]float64, dof)
	for i, angle := range seed {
		q[i] = clamp(angle, lower[i], upper[i])
	}

	metric := NewSquaredNormMetric(goal)
	bestScore := math.Inf(1)
	sinceImprovement := 0

	for iteration := 0; iteration < ik.maxIterations; iteration++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fk, err := ik.model.Transform(q)
		if err != nil {
			return nil, err
		}
		if withinTolerances(goal, fk, ik.epsPosition, ik.epsOrientation) {
			solution := ik.model.Normalize(q)
			if ik.model.AreJointPositionsValid(solution) {
				return &Solution{Angles: solution, Score: metric(fk), Kind: SolutionNumeric}, nil
			}
			// converged outside the joint limits; try again elsewhere
			q = ik.model.GenerateRandomJointPositions(ik.randSeed)
			bestScore = math.Inf(1)
			sinceImprovement = 0
			continue
		}

		errVec := poseErrorVector(goal, fk)

		// finite-difference Jacobian of the pose error with respect to each joint
		jac := mat.NewDense(len(errVec), dof, nil)
		for j := 0; j < dof; j++ {
			qj := q[j]
			step := jacobianJump
			if qj+step > upper[j] {
				step = -step
			}
			q[j] = qj + step
			perturbed, err := ik.model.Transform(q)
			q[j] = qj
			if err != nil {
				return nil, err
			}
			perturbedVec := poseErrorVector(goal, perturbed)
			for i := range errVec {
				jac.Set(i, j, -(perturbedVec[i] - errVec[i]) / step)
			}
		}

		// damped least squares: (J^T J + lambda^2 I) dq = J^T e
		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		for i := 0; i < dof; i++ {
			jtj.Set(i, i, jtj.At(i, i)+dlsDamping*dlsDamping)
		}
		jte := mat.NewVecDense(dof, nil)
		jte.MulVec(jac.T(), mat.NewVecDense(len(errVec), errVec))
		dq := mat.NewVecDense(dof, nil)

		stepNorm := 0.
		if err := dq.SolveVec(&jtj, jte); err == nil {
			for j := 0; j < dof; j++ {
				step := clamp(dq.AtVec(j), -maxJointStep, maxJointStep)
				q[j] = clamp(q[j]+step, lower[j], upper[j])
				stepNorm += step * step
			}
		}

		if score := metric(fk); score < bestScore-1e-12 {
			bestScore = score
			sinceImprovement = 0
		} else {
			sinceImprovement++
		}
		if sinceImprovement > stallIterations || stepNorm < 1e-18 {
			q = ik.model.GenerateRandomJointPositions(ik.randSeed)
			bestScore = math.Inf(1)
			sinceImprovement = 0
		}
	}

	return nil, errNoSolve
}

// poseErrorVector is the 6-component error from current to goal, with the orientation
// components wrapped to their shortest angular distance and scaled to position
// magnitude.
func poseErrorVector(goal, current spatialmath.Pose) []float64 {
	delta := goal.Point.Sub(current.Point)
	return []float64{
		delta.X,
		delta.Y,
		delta.Z,
		orientationJacobianScaling * utils.SubAnglesRad(goal.Orientation.Roll, current.Orientation.Roll),
		orientationJacobianScaling * utils.SubAnglesRad(goal.Orientation.Pitch, current.Orientation.Pitch),
		orientationJacobianScaling * utils.SubAnglesRad(goal.Orientation.Yaw, current.Orientation.Yaw),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
