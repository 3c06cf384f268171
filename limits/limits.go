// Package limits provides centralized size limits for framemodem.
// This ensures consistent validation across different components of the system.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxCanvasDimension is the largest accepted canvas width or height.
	MaxCanvasDimension = 16383

	// BytesPerPixel is the size of one packed HSV pixel.
	BytesPerPixel = 3

	// MaxRecordSize is the largest frame record (compressed or raw) accepted
	// from a recording or the network.
	MaxRecordSize = 64 * 1024 * 1024

	// MaxFramePixels is the largest canvas area whose raw HSV plane fits in
	// MaxRecordSize.
	MaxFramePixels = MaxRecordSize / BytesPerPixel

	// MaxPayloadLength is the largest payload a single decode may produce.
	MaxPayloadLength = 1 << 30
)

var (
	// ErrDimensionZero indicates a zero width or height.
	ErrDimensionZero = errors.New("dimension is zero")

	// ErrDimensionTooLarge indicates a canvas dimension or area over the limit.
	ErrDimensionTooLarge = errors.New("dimension too large")

	// ErrRecordTooLarge indicates a frame record exceeding MaxRecordSize.
	ErrRecordTooLarge = errors.New("record too large")

	// ErrPayloadTooLarge indicates a payload length exceeding MaxPayloadLength.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrNegativeLength indicates a negative length.
	ErrNegativeLength = errors.New("negative length")
)

// ValidateCanvas validates canvas dimensions against MaxCanvasDimension and
// MaxFramePixels.
func ValidateCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrDimensionZero, width, height)
	}
	if width > MaxCanvasDimension || height > MaxCanvasDimension {
		return fmt.Errorf("%w: canvas %dx%d exceeds %d per side", ErrDimensionTooLarge, width, height, MaxCanvasDimension)
	}
	if width*height > MaxFramePixels {
		return fmt.Errorf("%w: canvas area %d exceeds %d pixels", ErrDimensionTooLarge, width*height, MaxFramePixels)
	}
	return nil
}

// ValidateRecordSize validates a record length read from untrusted input.
func ValidateRecordSize(size int) error {
	if size < 0 {
		return fmt.Errorf("%w: record size %d", ErrNegativeLength, size)
	}
	if size > MaxRecordSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrRecordTooLarge, size, MaxRecordSize)
	}
	return nil
}

// ValidatePayloadLength validates a requested payload length.
// Zero is valid and decodes to an empty payload.
func ValidatePayloadLength(length int) error {
	if length < 0 {
		return fmt.Errorf("%w: payload length %d", ErrNegativeLength, length)
	}
	if length > MaxPayloadLength {
		return fmt.Errorf("%w: length %d exceeds limit %d", ErrPayloadTooLarge, length, MaxPayloadLength)
	}
	return nil
}
