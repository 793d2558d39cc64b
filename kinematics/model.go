// Package kinematics implements forward and inverse kinematics for serial
// manipulators described by Denavit-Hartenberg parameters.
package kinematics

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"go.viam.com/armkin/spatialmath"
	"go.viam.com/armkin/utils"
)

// Limit represents the limits of motion for a single joint, in radians.
type Limit struct {
	Min float64
	Max float64
}

// Model holds the immutable kinematic description of one manipulator: its DH table
// and joint limits. All methods are read-only, so a Model may be shared freely
// between goroutines.
type Model struct {
	name     string
	dhParams []DHParam
	limits   []Limit
	home     spatialmath.Pose
}

// NewModel creates a kinematic model from a DH table and accompanying joint limits.
// The two slices must have the same length, one entry per revolute joint.
func NewModel(name string, dhParams []DHParam, limits []Limit) (*Model, error) {
	if len(dhParams) == 0 {
		return nil, errors.New("model must have at least one joint")
	}
	if len(dhParams) != len(limits) {
		return nil, errors.Errorf("DH table has %d entries but %d joint limits were given", len(dhParams), len(limits))
	}
	for i, limit := range limits {
		if limit.Min > limit.Max {
			return nil, errors.Errorf("joint %d has min limit %f greater than max limit %f", i, limit.Min, limit.Max)
		}
	}
	m := &Model{
		name:     name,
		dhParams: append([]DHParam{}, dhParams...),
		limits:   append([]Limit{}, limits...),
	}
	home, err := m.Transform(make([]float64, len(dhParams)))
	if err != nil {
		return nil, err
	}
	m.home = home
	return m, nil
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// Dof returns the degree of freedom count of the model.
func (m *Model) Dof() int {
	return len(m.dhParams)
}

// Limits returns a copy of the per-joint limits of the model.
func (m *Model) Limits() []Limit {
	return append([]Limit{}, m.limits...)
}

// Home returns the TCP pose of the all-zero joint configuration.
func (m *Model) Home() spatialmath.Pose {
	return m.home
}

// MaxReach returns an upper bound on the distance from the base frame origin to the
// TCP over all joint configurations, the sum of every link offset in the DH table.
func (m *Model) MaxReach() float64 {
	reach := 0.0
	for _, dh := range m.dhParams {
		reach += math.Abs(dh.D) + math.Abs(dh.R)
	}
	return reach
}

// JointsToTransform composes the per-link DH transforms in kinematic chain order,
// returning the homogeneous transform from the base frame to the TCP frame.
func (m *Model) JointsToTransform(angles []float64) (mgl64.Mat4, error) {
	if len(angles) != len(m.dhParams) {
		return mgl64.Ident4(), NewIncorrectDoFError(len(angles), len(m.dhParams))
	}
	ee := mgl64.Ident4()
	for i, dh := range m.dhParams {
		ee = ee.Mul4(dh.Transform(angles[i]))
	}
	return ee, nil
}

// Transform computes the forward kinematics of the model, mapping a full set of joint
// angles (radians) to the TCP pose. The only failure mode is a joint angle vector whose
// length does not match the model's DoF; every in-dimension input evaluates.
func (m *Model) Transform(angles []float64) (spatialmath.Pose, error) {
	ee, err := m.JointsToTransform(angles)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	return spatialmath.NewPoseFromTransform(ee), nil
}

// AreJointPositionsValid checks whether the given joint angles all fall within the
// model's joint limits.
func (m *Model) AreJointPositionsValid(angles []float64) bool {
	if len(angles) != len(m.limits) {
		return false
	}
	for i, angle := range angles {
		if angle < m.limits[i].Min || angle > m.limits[i].Max {
			return false
		}
	}
	return true
}

// Normalize wraps each joint angle by multiples of 2pi into the joint's limit range
// where possible. Angles whose entire wrap orbit lies outside the limits are left
// unchanged.
func (m *Model) Normalize(angles []float64) []float64 {
	normalized := make([]float64, len(angles))
	for i, angle := range angles {
		normalized[i] = angle
		if i >= len(m.limits) {
			continue
		}
		for normalized[i] > m.limits[i].Max && normalized[i]-2*math.Pi >= m.limits[i].Min {
			normalized[i] -= 2 * math.Pi
		}
		for normalized[i] < m.limits[i].Min && normalized[i]+2*math.Pi <= m.limits[i].Max {
			normalized[i] += 2 * math.Pi
		}
	}
	return normalized
}

// GenerateRandomJointPositions generates a random, in-bounds set of joint angles using
// the given rand.Rand.
func (m *Model) GenerateRandomJointPositions(randSeed *rand.Rand) []float64 {
	angles := make([]float64, len(m.limits))
	for i, limit := range m.limits {
		jRange := math.Abs(limit.Max - limit.Min)
		angles[i] = randSeed.Float64()*jRange + limit.Min
	}
	return angles
}

// lowerBounds and upperBounds flatten the joint limits into the parallel arrays the
// numeric solvers want.
func (m *Model) lowerBounds() []float64 {
	lower := make([]float64, len(m.limits))
	for i, limit := range m.limits {
		lower[i] = limit.Min
	}
	return lower
}

func (m *Model) upperBounds() []float64 {
	upper := make([]float64, len(m.limits))
	for i, limit := range m.limits {
		upper[i] = limit.Max
	}
	return upper
}

// AlmostEquals returns whether the two models have the same kinematic description,
// differences being just floating point imprecision.
func (m *Model) AlmostEquals(other *Model) bool {
	if len(m.dhParams) != len(other.dhParams) {
		return false
	}
	const epsilon = 1e-5
	for i, dh := range m.dhParams {
		o := other.dhParams[i]
		if !utils.Float64AlmostEqual(dh.Theta, o.Theta, epsilon) ||
			!utils.Float64AlmostEqual(dh.D, o.D, epsilon) ||
			!utils.Float64AlmostEqual(dh.Alpha, o.Alpha, epsilon) ||
			!utils.Float64AlmostEqual(dh.R, o.R, epsilon) {
			return false
		}
	}
	return true
}
