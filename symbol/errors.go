package symbol

import "errors"

var (
	// ErrInvalidScheme indicates a channel bit split that cannot be quantized
	// with a non-empty guard band.
	ErrInvalidScheme = errors.New("invalid symbol scheme")

	// ErrUnsupportedSymbolWidth indicates a symbol width that does not divide
	// a byte.
	ErrUnsupportedSymbolWidth = errors.New("unsupported symbol width")
)
