package die

import "errors"

var (
	// ErrInvalidArgument indicates malformed input: an empty or mixed face
	// list, duplicate faces, or a negative roll count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOutcome indicates a face that is not part of the die.
	ErrInvalidOutcome = errors.New("face is not on this die")

	// ErrInvalidWeight indicates a weight that is not a finite non-negative
	// number. The die is left unchanged and remains usable.
	ErrInvalidWeight = errors.New("weight must be a finite non-negative number")

	// ErrNoWeight indicates every face has zero weight, so nothing can be rolled.
	ErrNoWeight = errors.New("all face weights are zero")
)
