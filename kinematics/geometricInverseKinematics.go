package kinematics

import (
	"context"
	"math"

	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"go.viam.com/armkin/spatialmath"
	"go.viam.com/armkin/utils"
)

const (
	// planeTolerance is how far (radians) the target approach axis may lean out of
	// the arm's vertical plane before the closed form is considered inapplicable.
	planeTolerance = 1e-6
	// baseAxisCutoff is how close (in the model's linear unit) the target position
	// may sit to the base rotation axis before the approach axis picks the arm
	// plane instead of the position.
	baseAxisCutoff = 1e-6
	// lawOfCosinesTolerance absorbs rounding in the elbow angle argument for targets
	// sitting exactly on the fully extended or fully folded workspace boundary.
	lawOfCosinesTolerance = 1e-9
)

// GeometricIK solves inverse kinematics in closed form. It only applies to 5-DoF
// manipulators with the youBot link layout: a vertical base joint with a radial
// shoulder offset, two parallel horizontal elbow axes, a horizontal wrist pitch axis
// and a final tool roll axis. Candidate solutions (shoulder front/back, elbow up/down)
// are verified through forward kinematics before being returned, so an accepted
// solution always meets the solver's tolerances.
type GeometricIK struct {
	model          *Model
	logger         golog.Logger
	epsPosition    float64
	epsOrientation float64
}

// CreateGeometricIKSolver creates a closed-form solver for the given model, or errors
// if the model's link layout is not one the closed form covers.
func CreateGeometricIKSolver(model *Model, logger golog.Logger) (*GeometricIK, error) {
	if err := validateGeometricLayout(model); err != nil {
		return nil, err
	}
	return &GeometricIK{
		model:          model,
		logger:         logger,
		epsPosition:    defaultEpsilonPosition,
		epsOrientation: defaultEpsilonOrientation,
	}, nil
}

func validateGeometricLayout(model *Model) error {
	const epsilon = 1e-9
	if model.Dof() != 5 {
		return errors.Errorf("geometric solver supports 5-DoF models, got %d", model.Dof())
	}
	dh := model.dhParams
	expectedAlpha := []float64{math.Pi / 2, 0, 0, math.Pi / 2, 0}
	for i, alpha := range expectedAlpha {
		if !utils.Float64AlmostEqual(dh[i].Alpha, alpha, epsilon) {
			return errors.Errorf("joint %d has twist %f, geometric layout needs %f", i, dh[i].Alpha, alpha)
		}
		if !utils.Float64AlmostEqual(dh[i].Theta, 0, epsilon) {
			return errors.Errorf("joint %d has nonzero theta offset, unsupported by geometric solver", i)
		}
	}
	for _, i := range []int{1, 2, 3} {
		if !utils.Float64AlmostEqual(dh[i].D, 0, epsilon) {
			return errors.Errorf("joint %d has nonzero link offset d, unsupported by geometric solver", i)
		}
	}
	for _, i := range []int{3, 4} {
		if !utils.Float64AlmostEqual(dh[i].R, 0, epsilon) {
			return errors.Errorf("joint %d has nonzero link length r, unsupported by geometric solver", i)
		}
	}
	if dh[1].R <= 0 || dh[2].R <= 0 {
		return errors.New("upper arm and forearm lengths must be positive")
	}
	return nil
}

// Solve attempts the closed form. The seed is unused; the geometry alone determines
// the candidate set. Returns errNoGeometricSolution when no candidate both respects
// the joint limits and verifies against the goal, signalling the combined solver to
// fall through to the numeric path.
func (ik *GeometricIK) Solve(ctx context.Context, goal spatialmath.Pose, seed []float64) (*Solution, error) {
	dh := ik.model.dhParams
	d1, a1 := dh[0].D, dh[0].R
	a2, a3 := dh[1].R, dh[2].R
	d5 := dh[4].D

	rot := goal.Transform().Mat3()
	// tool approach axis (the TCP frame's Z) in base coordinates
	approach := mgl64.Vec3{rot.At(0, 2), rot.At(1, 2), rot.At(2, 2)}

	base := math.Atan2(goal.Point.Y, goal.Point.X)
	if math.Hypot(goal.Point.X, goal.Point.Y) < baseAxisCutoff {
		// target on the base axis: the approach axis picks the plane instead
		if math.Hypot(approach.X(), approach.Y()) < planeTolerance {
			base = 0
		} else {
			base = math.Atan2(approach.Y(), approach.X())
		}
	}

	metric := NewSquaredNormMetric(goal)
	var best *Solution

	for _, theta1 := range []float64{base, base + math.Pi} {
		c1, s1 := math.Cos(theta1), math.Sin(theta1)

		// approach axis expressed in the rotated arm plane; its out-of-plane
		// component must vanish for the closed form to apply
		ax := c1*approach.X() + s1*approach.Y()
		ay := -s1*approach.X() + c1*approach.Y()
		az := approach.Z()
		if math.Abs(ay) > planeTolerance {
			continue
		}
		phi := math.Atan2(ax, -az)

		// planar target and wrist center, u radial and v vertical from the shoulder
		u := c1*goal.Point.X + s1*goal.Point.Y - a1
		v := goal.Point.Z - d1
		uw := u - d5*math.Sin(phi)
		vw := v + d5*math.Cos(phi)

		// law of cosines for the two-link planar subchain; a straight elbow puts the
		// argument exactly on the boundary, where rounding may push it just past one
		d := (uw*uw + vw*vw - a2*a2 - a3*a3) / (2 * a2 * a3)
		if math.Abs(d) > 1+lawOfCosinesTolerance {
			continue
		}
		d = clamp(d, -1, 1)

		for _, elbow := range []float64{1, -1} {
			theta3 := elbow * math.Acos(d)
			theta2 := math.Atan2(vw, uw) - math.Atan2(a3*math.Sin(theta3), a2+a3*math.Cos(theta3))
			theta4 := phi - theta2 - theta3

			// the rotation not yet accounted for must be a pure tool roll
			pre := mgl64.Rotate3DZ(theta1).
				Mul3(mgl64.Rotate3DX(math.Pi / 2)).
				Mul3(mgl64.Rotate3DZ(phi)).
				Mul3(mgl64.Rotate3DX(math.Pi / 2))
			residual := pre.Transpose().Mul3(rot)
			theta5 := math.Atan2(residual.At(1, 0), residual.At(0, 0))

			candidate := ik.model.Normalize([]float64{
				utils.SubAnglesRad(theta1, 0),
				utils.SubAnglesRad(theta2, 0),
				utils.SubAnglesRad(theta3, 0),
				utils.SubAnglesRad(theta4, 0),
				utils.SubAnglesRad(theta5, 0),
			})
			if !ik.model.AreJointPositionsValid(candidate) {
				continue
			}
			fk, err := ik.model.Transform(candidate)
			if err != nil {
				return nil, err
			}
			if !withinTolerances(goal, fk, ik.epsPosition, ik.epsOrientation) {
				continue
			}
			score := metric(fk)
			if best == nil || score < best.Score {
				best = &Solution{Angles: candidate, Score: score, Kind: SolutionGeometric}
			}
		}
	}

	if best == nil {
		return nil, errNoGeometricSolution
	}
	return best, nil
}
