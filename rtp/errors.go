package rtp

import "errors"

var (
	// ErrEmptyFrame indicates an attempt to packetize zero bytes.
	ErrEmptyFrame = errors.New("frame data cannot be empty")

	// ErrMalformedPayload indicates a packet payload without a valid descriptor.
	ErrMalformedPayload = errors.New("malformed frame payload")

	// ErrInvalidPacketSize indicates a packet size outside [MinPacketSize, MaxPacketSize].
	ErrInvalidPacketSize = errors.New("invalid packet size")
)
