// Package limits provides centralized size constants and validation functions
// for framemodem. Every component that accepts untrusted sizes (canvas
// dimensions from a capture device, record lengths read from disk, payload
// lengths from the command line) validates them here so the bounds stay
// consistent across the encoder, decoder and the frame containers.
//
// # Size Hierarchy
//
//   - MaxCanvasDimension (16383): the largest canvas width or height. This
//     matches the largest frame dimension common video codecs accept.
//
//   - MaxFramePixels: the largest canvas area, bounded so one HSV frame stays
//     below MaxRecordSize when stored uncompressed.
//
//   - MaxRecordSize (64MB): the largest compressed frame record accepted from
//     a recording or from the network. Decompression is capped at the same
//     value.
//
//   - MaxPayloadLength (1GB): the largest payload the decoder will allocate
//     for a single stream.
//
// # Validation Functions
//
//	if err := limits.ValidateCanvas(1920, 1080); err != nil {
//	    // ErrDimensionZero or ErrDimensionTooLarge
//	}
//
//	if err := limits.ValidatePayloadLength(n); err != nil {
//	    // ErrPayloadTooLarge
//	}
//
// All errors wrap a sentinel so callers classify them with errors.Is.
package limits
