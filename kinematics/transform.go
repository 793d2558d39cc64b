package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// DHParam holds the four Denavit-Hartenberg parameters describing the rigid transform
// from one link frame to the next in a serial kinematic chain. Theta is the joint
// angle offset added to the commanded joint angle at evaluation time; the other three
// are fixed for a given manipulator.
type DHParam struct {
	Theta float64 // rotation about the preceding Z axis (radians)
	D     float64 // translation along the preceding Z axis
	Alpha float64 // rotation about the new X axis (radians)
	R     float64 // translation along the new X axis
}

// DHTransform implements the standard DH convention, building the homogeneous transform
// mapping the previous link's frame to this link's frame: rotate about the preceding Z
// axis by theta, translate along that axis by d, translate along the new X axis by r,
// then rotate about that X axis by alpha.
func DHTransform(theta, d, alpha, r float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(theta).
		Mul4(mgl64.Translate3D(0, 0, d)).
		Mul4(mgl64.Translate3D(r, 0, 0)).
		Mul4(mgl64.HomogRotate3DX(alpha))
}

// Transform evaluates the link's transform for the given joint angle.
func (dh DHParam) Transform(angle float64) mgl64.Mat4 {
	return DHTransform(dh.Theta+angle, dh.D, dh.Alpha, dh.R)
}
