package frame

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/opd-ai/framemodem/limits"
)

// HeaderSize is the length of the width/height prefix written by MarshalBinary.
const HeaderSize = 4

func newZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func newZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(limits.MaxRecordSize),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{New: func() any { return newZstdEncoder() }}

var zstdDecPool = sync.Pool{New: func() any { return newZstdDecoder() }}

// CompressPix returns the zstd encoding of the frame's HSV plane.
func (f *Frame) CompressPix() []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(f.Pix, nil)
	zstdEncPool.Put(enc)
	return out
}

// DecompressPix rebuilds a width x height frame from a CompressPix payload.
func DecompressPix(width, height int, data []byte) (*Frame, error) {
	if err := limits.ValidateCanvas(width, height); err != nil {
		return nil, err
	}
	want := width * height * limits.BytesPerPixel
	if err := limits.ValidateRecordSize(want); err != nil {
		return nil, err
	}

	dec := zstdDecPool.Get().(*zstd.Decoder)
	pix, err := dec.DecodeAll(data, make([]byte, 0, want))
	zstdDecPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("decompress HSV plane: %w", err)
	}
	return FromPix(width, height, pix)
}

// MarshalBinary encodes the frame as width and height (uint16 big endian)
// followed by the compressed HSV plane.
func (f *Frame) MarshalBinary() ([]byte, error) {
	if err := limits.ValidateCanvas(f.Width, f.Height); err != nil {
		return nil, err
	}
	buf := make([]byte, HeaderSize, HeaderSize+len(f.Pix)/4)
	binary.BigEndian.PutUint16(buf[0:2], uint16(f.Width))
	binary.BigEndian.PutUint16(buf[2:4], uint16(f.Height))

	enc := zstdEncPool.Get().(*zstd.Encoder)
	buf = enc.EncodeAll(f.Pix, buf)
	zstdEncPool.Put(enc)
	return buf, nil
}

// UnmarshalBinary decodes a MarshalBinary payload into f.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d byte payload is shorter than its header", ErrFrameSizeMismatch, len(data))
	}
	width := int(binary.BigEndian.Uint16(data[0:2]))
	height := int(binary.BigEndian.Uint16(data[2:4]))

	decoded, err := DecompressPix(width, height, data[HeaderSize:])
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}
