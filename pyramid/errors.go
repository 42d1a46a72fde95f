package pyramid

import "errors"

var (
	// ErrNotInitialized is returned by Apply/Rebuild/Augment when called
	// before Initialize.
	ErrNotInitialized = errors.New("pyramid: not initialized")

	// ErrAlreadyInitialized is returned by Initialize when called twice.
	ErrAlreadyInitialized = errors.New("pyramid: already initialized")

	// ErrInvalidLevels is returned when a requested level count is not
	// positive, or Augment is asked to shrink the pyramid.
	ErrInvalidLevels = errors.New("pyramid: invalid level count")

	// ErrViewOutOfRange is returned when a view's vertical extent lies
	// entirely outside the panorama (horizontal extent always wraps and
	// is never out of range).
	ErrViewOutOfRange = errors.New("pyramid: view out of vertical range")
)
