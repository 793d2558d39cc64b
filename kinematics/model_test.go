package kinematics

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/armkin/utils"
)

func TestDHTransform(t *testing.T) {
	// pure offsets, no rotation
	tf := DHTransform(0, 10, 0, 5)
	test.That(t, tf.At(0, 3), test.ShouldAlmostEqual, 5)
	test.That(t, tf.At(1, 3), test.ShouldAlmostEqual, 0)
	test.That(t, tf.At(2, 3), test.ShouldAlmostEqual, 10)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			expected := 0.0
			if r == c {
				expected = 1.0
			}
			test.That(t, tf.At(r, c), test.ShouldAlmostEqual, expected)
		}
	}

	// quarter turn about Z carries the link length along Y
	tf = DHTransform(math.Pi/2, 0, 0, 5)
	test.That(t, tf.At(0, 3), test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, tf.At(1, 3), test.ShouldAlmostEqual, 5)
	test.That(t, tf.At(1, 0), test.ShouldAlmostEqual, 1)

	// twist about X maps the new Z axis onto -Y
	tf = DHTransform(0, 0, math.Pi/2, 0)
	test.That(t, tf.At(1, 2), test.ShouldAlmostEqual, -1)
	test.That(t, tf.At(2, 1), test.ShouldAlmostEqual, 1)
}

func TestNewModelValidation(t *testing.T) {
	_, err := NewModel("empty", nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("mismatched", []DHParam{{R: 10}}, []Limit{{-1, 1}, {-1, 1}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("inverted limit", []DHParam{{R: 10}}, []Limit{{Min: 1, Max: -1}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestYouBotHomePose(t *testing.T) {
	m := NewYouBotModel()
	test.That(t, m.Dof(), test.ShouldEqual, 5)

	// analytically derived reference pose for the all-zero configuration
	pose, err := m.Transform([]float64{0, 0, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point.X, test.ShouldAlmostEqual, 323, 1e-9)
	test.That(t, pose.Point.Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, pose.Point.Z, test.ShouldAlmostEqual, -70.6, 1e-9)
	test.That(t, math.Abs(pose.Orientation.Roll), test.ShouldAlmostEqual, math.Pi, 1e-9)
	test.That(t, pose.Orientation.Pitch, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, pose.Orientation.Yaw, test.ShouldAlmostEqual, 0, 1e-9)

	home := m.Home()
	test.That(t, PositionError(home, pose), test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, OrientationError(home, pose), test.ShouldAlmostEqual, 0, 1e-9)
}

func TestTransformDoFMismatch(t *testing.T) {
	m := NewYouBotModel()
	_, err := m.Transform([]float64{0, 0, 0})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = m.Transform(make([]float64, 6))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMaxReach(t *testing.T) {
	m := NewYouBotModel()
	test.That(t, m.MaxReach(), test.ShouldAlmostEqual, 147+33+155+135+217.6, 1e-9)
}

func TestNormalizeAndValidity(t *testing.T) {
	m := NewYouBotModel()
	test.That(t, m.AreJointPositionsValid([]float64{0, 0, 0, 0, 0}), test.ShouldBeTrue)
	test.That(t, m.AreJointPositionsValid([]float64{0, utils.DegToRad(91), 0, 0, 0}), test.ShouldBeFalse)
	test.That(t, m.AreJointPositionsValid([]float64{0, 0, 0}), test.ShouldBeFalse)

	// a full turn away from a valid angle normalizes back in bounds
	normalized := m.Normalize([]float64{2*math.Pi + 0.5, 0.25, -0.5 - 2*math.Pi, 0, 1})
	test.That(t, normalized[0], test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, normalized[1], test.ShouldAlmostEqual, 0.25, 1e-9)
	test.That(t, normalized[2], test.ShouldAlmostEqual, -0.5, 1e-9)
	test.That(t, m.AreJointPositionsValid(normalized), test.ShouldBeTrue)
}

func TestGenerateRandomJointPositions(t *testing.T) {
	m := NewYouBotModel()
	//nolint:gosec
	seed := rand.New(rand.NewSource(17))
	limits := m.Limits()
	for i := 0; i < 100; i++ {
		angles := m.GenerateRandomJointPositions(seed)
		test.That(t, len(angles), test.ShouldEqual, m.Dof())
		for j, angle := range angles {
			test.That(t, angle, test.ShouldBeBetweenOrEqual, limits[j].Min, limits[j].Max)
		}
	}
}

func TestRotationStaysOrthonormal(t *testing.T) {
	m := NewYouBotModel()
	//nolint:gosec
	seed := rand.New(rand.NewSource(5))
	for i := 0; i < 25; i++ {
		angles := m.GenerateRandomJointPositions(seed)
		tf, err := m.JointsToTransform(angles)
		test.That(t, err, test.ShouldBeNil)
		rot := tf.Mat3()
		test.That(t, rot.Det(), test.ShouldAlmostEqual, 1, 1e-9)
	}
}
