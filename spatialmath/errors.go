package spatialmath

import (
	"github.com/pkg/errors"
)

func newRotationMatrixInputError(m []float64) error {
	return errors.Errorf("rotation matrix input slice has %d elements, need exactly 9", len(m))
}

func newPoseVectorLengthError(v []float64) error {
	return errors.Errorf("pose vector has %d elements, need exactly 6", len(v))
}
