package kernel

import "errors"

// The closed set of error kinds surfaced by the geometry core. Callers
// branch with errors.Is; concrete errors wrap these sentinels with
// operation-specific context.
var (
	// ErrInvalidInput reports a rejected operation: non-positive
	// dimension, malformed transform, empty layer list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrKernelOpFailed reports a boolean operation or triangulation that
	// did not complete.
	ErrKernelOpFailed = errors.New("kernel operation failed")

	// ErrDegenerateResult reports a geometric result whose volume is
	// below the configured minimum threshold.
	ErrDegenerateResult = errors.New("degenerate result")

	// ErrIndexOutOfRange reports a layer index outside the valid range.
	ErrIndexOutOfRange = errors.New("index out of range")
)
