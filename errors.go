package poselite

import "fmt"

// InvalidTransformError indicates an affine transform could not be built or
// inverted because its inputs are degenerate, such as a bounding box scale
// with a zero component or a singular matrix
type InvalidTransformError struct {
	// Reason describes the degenerate input
	Reason string
}

func (e *InvalidTransformError) Error() string {
	return fmt.Sprintf("invalid transform: %s", e.Reason)
}

// NewInvalidTransformError returns an InvalidTransformError with the given
// reason, formatted in the manner of fmt.Sprintf
func NewInvalidTransformError(format string, args ...interface{}) *InvalidTransformError {
	return &InvalidTransformError{Reason: fmt.Sprintf(format, args...)}
}

// SchemaMismatchError indicates a per joint sequence disagrees in length
// with the keypoint schema, such as keypoints and sigmas of different
// lengths.  Per joint edge cases like invisible or out of bounds joints are
// not errors, they are normalized by zeroing the joint weight instead
type SchemaMismatchError struct {
	// Field names the sequence whose length is wrong
	Field string
	// Want is the expected length
	Want int
	// Got is the actual length
	Got int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: %s has length %d, want %d",
		e.Field, e.Got, e.Want)
}

// NewSchemaMismatchError returns a SchemaMismatchError for the named field
func NewSchemaMismatchError(field string, want, got int) *SchemaMismatchError {
	return &SchemaMismatchError{Field: field, Want: want, Got: got}
}
