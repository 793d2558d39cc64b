package kinematics

import (
	"context"
	"math"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/armkin/spatialmath"
)

// reachable joint configurations used to generate round-trip targets
var testConfigurations = [][]float64{
	{0, 0, 0, 0, 0},
	{0.3, 0.5, -0.8, 0.4, 1.0},
	{-1.2, 0.2, -1.0, 0.5, -0.7},
	{2.0, 1.0, -2.0, 1.2, 0.4},
	{0.9, -0.6, 0.7, -1.1, 2.0},
}

func TestGeometricIKRoundTrip(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := NewYouBotModel()
	ik, err := CreateGeometricIKSolver(m, logger)
	test.That(t, err, test.ShouldBeNil)

	for _, angles := range testConfigurations {
		goal, err := m.Transform(angles)
		test.That(t, err, test.ShouldBeNil)

		solution, err := ik.Solve(context.Background(), goal, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, solution.Kind, test.ShouldEqual, SolutionGeometric)
		test.That(t, m.AreJointPositionsValid(solution.Angles), test.ShouldBeTrue)

		reached, err := m.Transform(solution.Angles)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, PositionError(goal, reached), test.ShouldBeLessThan, defaultEpsilonPosition)
		test.That(t, OrientationError(goal, reached), test.ShouldBeLessThan, defaultEpsilonOrientation)
	}
}

func TestGeometricIKStraightElbow(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := NewYouBotModel()
	ik, err := CreateGeometricIKSolver(m, logger)
	test.That(t, err, test.ShouldBeNil)

	// a straight elbow places the wrist center exactly on the workspace boundary,
	// so the closed form must tolerate the elbow angle argument rounding past one
	for _, angles := range [][]float64{
		{-1.5, -1, 0, -0.75, 0.3},
		{0.4, 0.3, 0, -0.6, -1.2},
		{0, -0.5, 0, 0.9, 0},
	} {
		goal, err := m.Transform(angles)
		test.That(t, err, test.ShouldBeNil)

		solution, err := ik.Solve(context.Background(), goal, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, solution.Kind, test.ShouldEqual, SolutionGeometric)
		test.That(t, m.AreJointPositionsValid(solution.Angles), test.ShouldBeTrue)

		reached, err := m.Transform(solution.Angles)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, PositionError(goal, reached), test.ShouldBeLessThan, defaultEpsilonPosition)
		test.That(t, OrientationError(goal, reached), test.ShouldBeLessThan, defaultEpsilonOrientation)
	}
}

func TestGeometricIKUnsupportedLayout(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planar, err := NewModel("planar-2r",
		[]DHParam{{R: 100}, {R: 80}},
		[]Limit{{-math.Pi, math.Pi}, {-math.Pi, math.Pi}},
	)
	test.That(t, err, test.ShouldBeNil)
	_, err = CreateGeometricIKSolver(planar, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGeometricIKOutOfPlaneOrientation(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := NewYouBotModel()
	ik, err := CreateGeometricIKSolver(m, logger)
	test.That(t, err, test.ShouldBeNil)

	// an orientation whose approach axis leans out of the arm plane has no closed-form
	// solution; the solver must report that rather than a wrong answer
	goal, err := spatialmath.NewPoseFromVector([]float64{250, 50, 100, 0.3, 0.2, 0.9})
	test.That(t, err, test.ShouldBeNil)
	_, err = ik.Solve(context.Background(), goal, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsNoSolutionError(err), test.ShouldBeTrue)
}

func TestJacobianIKConvergence(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := NewYouBotModel()
	ik := CreateJacobianIKSolver(m, logger, 0)

	for _, angles := range testConfigurations {
		goal, err := m.Transform(angles)
		test.That(t, err, test.ShouldBeNil)

		// seed near the known solution; the descent must close the remaining gap
		seed := make([]float64, len(angles))
		for i, angle := range angles {
			seed[i] = angle + 0.05
		}

		solution, err := ik.Solve(context.Background(), goal, seed)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, solution.Kind, test.ShouldEqual, SolutionNumeric)

		reached, err := m.Transform(solution.Angles)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, PositionError(goal, reached), test.ShouldBeLessThan, defaultEpsilonPosition)
		test.That(t, OrientationError(goal, reached), test.ShouldBeLessThan, defaultEpsilonOrientation)
	}
}

func TestJacobianIKDoFMismatch(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := NewYouBotModel()
	ik := CreateJacobianIKSolver(m, logger, 0)

	_, err := ik.Solve(context.Background(), m.Home(), []float64{0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestJacobianIKRespectsContext(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := NewYouBotModel()
	ik := CreateJacobianIKSolver(m, logger, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ik.Solve(ctx, m.Home(), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCombinedIKPrefersGeometric(t *testing.T) {
	logger := golog.NewTestLogger(t)
	m := NewYouBotModel()
	ik, err := CreateCombinedIKSolver(m, logger)
	test.That(t, err, test.ShouldBeNil)

	goal, err := m.Transform([]float64{0.3, 0.5, -0.8, 0.4, 1.0})
	test.That(t, err, test.ShouldBeNil)
	solution, err := ik.Solve(context.Background(), goal, make([]float64, m.Dof()))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, solution.Kind, test.ShouldEqual, SolutionGeometric)
}

func TestCombinedIKNumericFallback(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planar, err := NewModel("planar-2r",
		[]DHParam{{R: 100}, {R: 80}},
		[]Limit{{-math.Pi, math.Pi}, {-math.Pi, math.Pi}},
	)
	test.That(t, err, test.ShouldBeNil)

	ik, err := CreateCombinedIKSolver(planar, logger)
	test.That(t, err, test.ShouldBeNil)

	goal, err := planar.Transform([]float64{0.4, 0.6})
	test.That(t, err, test.ShouldBeNil)
	solution, err := ik.Solve(context.Background(), goal, []float64{0.3, 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, solution.Kind, test.ShouldEqual, SolutionNumeric)

	reached, err := planar.Transform(solution.Angles)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, PositionError(goal, reached), test.ShouldBeLessThan, defaultEpsilonPosition)
}
