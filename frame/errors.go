package frame

import "errors"

var (
	// ErrInvalidGridGeometry indicates a grid that cannot tile its canvas.
	ErrInvalidGridGeometry = errors.New("invalid grid geometry")

	// ErrFrameSizeMismatch indicates a frame whose size differs from the grid canvas.
	ErrFrameSizeMismatch = errors.New("frame size does not match grid")

	// ErrNilFrame indicates a nil frame was passed.
	ErrNilFrame = errors.New("frame cannot be nil")
)
