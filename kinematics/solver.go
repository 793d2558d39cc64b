package kinematics

import (
	"context"

	"github.com/edaniels/golog"

	"go.viam.com/armkin/spatialmath"
)

// Solver binds a kinematic model to the default inverse solver stack and exposes the
// two operations the surrounding driver layer consumes, in 6-float pose vector form
// (X, Y, Z in the model's linear unit; Roll, Pitch, Yaw in radians).
type Solver struct {
	model  *Model
	ik     InverseKinematics
	logger golog.Logger
}

// NewSolver creates a kinematics solver for the given model.
func NewSolver(model *Model, logger golog.Logger) (*Solver, error) {
	ik, err := CreateCombinedIKSolver(model, logger)
	if err != nil {
		return nil, err
	}
	return &Solver{model: model, ik: ik, logger: logger}, nil
}

// Model returns the kinematic model the solver was built for.
func (s *Solver) Model() *Model {
	return s.model
}

// ForwardTransformation calculates the TCP pose vector for a given set of joint
// angles in radians. It errors only when the angle vector's length does not match the
// model's DoF.
func (s *Solver) ForwardTransformation(angles []float64) ([]float64, error) {
	pose, err := s.model.Transform(angles)
	if err != nil {
		return nil, err
	}
	return pose.Vector(), nil
}

// InverseTransformation calculates joint angles placing the TCP at the desired pose
// vector. Targets whose position lies beyond the manipulator's maximum reach are
// rejected immediately; otherwise the combined solver runs until it converges or its
// iteration budget is exhausted, and the returned error reports which.
func (s *Solver) InverseTransformation(tcp []float64) ([]float64, error) {
	return s.InverseTransformationWithContext(context.Background(), tcp)
}

// InverseTransformationWithContext is InverseTransformation with caller cancellation.
func (s *Solver) InverseTransformationWithContext(ctx context.Context, tcp []float64) ([]float64, error) {
	goal, err := spatialmath.NewPoseFromVector(tcp)
	if err != nil {
		return nil, err
	}
	if goal.Point.Norm() > s.model.MaxReach() {
		return nil, errUnreachableTarget
	}
	solution, err := s.ik.Solve(ctx, goal, make([]float64, s.model.Dof()))
	if err != nil {
		return nil, err
	}
	return solution.Angles, nil
}
