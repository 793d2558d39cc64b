package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestEulerAnglesRotationMatrixRoundTrip(t *testing.T) {
	for _, ea := range []*EulerAngles{
		{0, 0, 0},
		{math.Pi / 4, 0, 0},
		{0, math.Pi / 4, 0},
		{0, 0, math.Pi / 4},
		{0.1, -0.2, 0.3},
		{-2.5, 1.1, 3.0},
		{math.Pi, 0, 0},
	} {
		back := ea.RotationMatrix().EulerAngles()
		test.That(t, OrientationAlmostEqual(ea, back), test.ShouldBeTrue)
	}
}

func TestRotationMatrixProperties(t *testing.T) {
	ea := &EulerAngles{0.3, -0.7, 1.9}
	rm := ea.RotationMatrix()
	test.That(t, rm.Determinant(), test.ShouldAlmostEqual, 1, 1e-9)

	// rows and columns are unit length
	for i := 0; i < 3; i++ {
		test.That(t, rm.Row(i).Norm(), test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, rm.Col(i).Norm(), test.ShouldAlmostEqual, 1, 1e-9)
	}

	_, err := NewRotationMatrix([]float64{1, 0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGimbalLockConvention(t *testing.T) {
	// at pitch of +/- 90 degrees, roll is reported as zero and yaw absorbs the rest
	for _, ea := range []*EulerAngles{
		{0.4, math.Pi / 2, -0.9},
		{-1.1, -math.Pi / 2, 0.2},
	} {
		back := ea.RotationMatrix().EulerAngles()
		test.That(t, back.Roll, test.ShouldAlmostEqual, 0)
		test.That(t, math.Abs(back.Pitch), test.ShouldAlmostEqual, math.Pi/2, 1e-9)
		// same rotation despite the different angle decomposition
		test.That(t, OrientationAlmostEqual(ea, back), test.ShouldBeTrue)
	}
}

func TestQuaternionConversions(t *testing.T) {
	ea := &EulerAngles{0.5, -0.4, 2.2}
	q := ea.Quaternion()
	test.That(t, OrientationAlmostEqual(QuatToEulerAngles(q), ea), test.ShouldBeTrue)

	rm := QuatToRotationMatrix(q)
	test.That(t, QuaternionAlmostEqual(rm.Quaternion(), q, 1e-9), test.ShouldBeTrue)
	test.That(t, OrientationAlmostEqual(rm.EulerAngles(), ea), test.ShouldBeTrue)
}
