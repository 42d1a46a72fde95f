package cachedimage

import "errors"

var (
	// ErrDimensionMismatch is returned when an image's requested
	// dimensions don't evenly divide its tile size, or when a Plane
	// passed to Assign doesn't match the bounding box it's assigned to.
	ErrDimensionMismatch = errors.New("cachedimage: dimension mismatch")

	// ErrOutOfBounds names the condition of a bounding box or pixel
	// coordinate lying outside an image's logical extent vertically
	// (horizontal coordinates wrap on a wrap-enabled image). Extract and
	// Assign do not return it: Extract leaves out-of-range rows at T's
	// zero value and Assign skips them.
	ErrOutOfBounds = errors.New("cachedimage: out of bounds")
)
