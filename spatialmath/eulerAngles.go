// Package spatialmath defines the math of poses, orientations and rigid transforms
// in 3D Euclidean space, as used by the kinematics packages.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles (in radians) used to represent the rotation of an object in 3D Euclidean space.
// The Tait-Bryan angle formalism is used, with rotation order z-y'-x'' (intrinsic yaw, then pitch, then roll),
// so that the equivalent rotation matrix is R = Rz(Yaw) * Ry(Pitch) * Rx(Roll).
type EulerAngles struct {
	Roll  float64 // rotation about the final X axis
	Pitch float64 // rotation about the intermediate Y axis
	Yaw   float64 // rotation about the initial Z axis
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{Roll: 0, Pitch: 0, Yaw: 0}
}

// EulerAngles returns orientation in Euler angle representation.
func (ea *EulerAngles) EulerAngles() *EulerAngles {
	return ea
}

// Quaternion returns orientation in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	angles := []float64{ea.Yaw, ea.Pitch, ea.Roll}
	cy := math.Cos(angles[0] * 0.5)
	sy := math.Sin(angles[0] * 0.5)
	cp := math.Cos(angles[1] * 0.5)
	sp := math.Sin(angles[1] * 0.5)
	cr := math.Cos(angles[2] * 0.5)
	sr := math.Sin(angles[2] * 0.5)

	q := quat.Number{}
	q.Real = cr*cp*cy + sr*sp*sy
	q.Imag = sr*cp*cy - cr*sp*sy
	q.Jmag = cr*sp*cy + sr*cp*sy
	q.Kmag = cr*cp*sy - sr*sp*cy
	return q
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	cr := math.Cos(ea.Roll)
	sr := math.Sin(ea.Roll)
	cp := math.Cos(ea.Pitch)
	sp := math.Sin(ea.Pitch)
	cy := math.Cos(ea.Yaw)
	sy := math.Sin(ea.Yaw)

	// Rz(yaw) * Ry(pitch) * Rx(roll), row major
	return &RotationMatrix{[9]float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr,
		-sp, cp * sr, cp * cr,
	}}
}

// QuatToEulerAngles converts a quaternion to the equivalent Euler angles, using the
// same gimbal lock convention as RotationMatrix.EulerAngles.
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	return QuatToRotationMatrix(q).EulerAngles()
}

// OrientationAlmostEqual will return a bool describing whether two orientations
// are approximately the same. Quaternion double cover is accounted for.
func OrientationAlmostEqual(o1, o2 *EulerAngles) bool {
	return QuaternionAlmostEqual(o1.Quaternion(), o2.Quaternion(), 1e-5)
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Since q and -q
// represent the same rotation, both cases are checked.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	prod := quat.Mul(a, quat.Conj(b))
	return quat.Abs(quat.Sub(prod, quat.Number{Real: 1})) < tol ||
		quat.Abs(quat.Sub(prod, quat.Number{Real: -1})) < tol
}
