package stream

import (
	"errors"

	"github.com/opd-ai/framemodem/frame"
)

var (
	// ErrInvalidGridGeometry indicates a canvas that cannot host the virtual
	// grid, or a grid too small to carry one byte per frame.
	ErrInvalidGridGeometry = frame.ErrInvalidGridGeometry

	// ErrInvalidConfig indicates a configuration field outside its range.
	ErrInvalidConfig = errors.New("invalid stream configuration")

	// ErrSourceExhausted indicates the frame source ended before the target
	// length was reconstructed.
	ErrSourceExhausted = errors.New("frame source exhausted")
)
