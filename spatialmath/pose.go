package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Pose represents a 6dof pose: a position in 3D space and an orientation, expressed
// relative to some parent frame. Distance units are whatever the owning model's link
// parameters use (millimeters for the bundled models); angles are radians.
type Pose struct {
	Point       r3.Vector
	Orientation *EulerAngles
}

// NewZeroPose returns a pose at the origin with no rotation.
func NewZeroPose() Pose {
	return Pose{Orientation: NewEulerAngles()}
}

// NewPose takes a position and orientation and returns a Pose.
func NewPose(pt r3.Vector, o *EulerAngles) Pose {
	if o == nil {
		o = NewEulerAngles()
	}
	return Pose{Point: pt, Orientation: o}
}

// NewPoseFromVector creates a pose from a 6-element (X, Y, Z, Roll, Pitch, Yaw) vector.
func NewPoseFromVector(v []float64) (Pose, error) {
	if len(v) != 6 {
		return Pose{}, newPoseVectorLengthError(v)
	}
	return Pose{
		Point:       r3.Vector{X: v[0], Y: v[1], Z: v[2]},
		Orientation: &EulerAngles{Roll: v[3], Pitch: v[4], Yaw: v[5]},
	}, nil
}

// NewPoseFromTransform reduces a homogeneous transform to a pose, extracting the
// translation column directly and decomposing the rotation block.
func NewPoseFromTransform(tf mgl64.Mat4) Pose {
	return Pose{
		Point:       r3.Vector{X: tf.At(0, 3), Y: tf.At(1, 3), Z: tf.At(2, 3)},
		Orientation: NewRotationMatrixFromTransform(tf).EulerAngles(),
	}
}

// Vector flattens the pose to its (X, Y, Z, Roll, Pitch, Yaw) vector form.
func (p Pose) Vector() []float64 {
	return []float64{p.Point.X, p.Point.Y, p.Point.Z, p.Orientation.Roll, p.Orientation.Pitch, p.Orientation.Yaw}
}

// Transform expands the pose to its homogeneous transform representation.
func (p Pose) Transform() mgl64.Mat4 {
	tf := mgl64.HomogRotate3DZ(p.Orientation.Yaw).
		Mul4(mgl64.HomogRotate3DY(p.Orientation.Pitch)).
		Mul4(mgl64.HomogRotate3DX(p.Orientation.Roll))
	tf.Set(0, 3, p.Point.X)
	tf.Set(1, 3, p.Point.Y)
	tf.Set(2, 3, p.Point.Z)
	return tf
}

// PoseAlmostEqual returns a bool describing whether both the positions and orientations
// of the two poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return a.Point.Sub(b.Point).Norm() < 1e-5 && OrientationAlmostEqual(a.Orientation, b.Orientation)
}
