package frame

import (
	"fmt"
	"image"

	"github.com/opd-ai/framemodem/limits"
	"github.com/opd-ai/framemodem/symbol"
)

// Frame is one rendered canvas as packed HSV triples.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // H,S,V per pixel, row-major, stride 3*Width
}

// NewFrame allocates a background (all zero) frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*limits.BytesPerPixel),
	}
}

// FromPix wraps an existing HSV plane, validating its size.
func FromPix(width, height int, pix []byte) (*Frame, error) {
	if err := limits.ValidateCanvas(width, height); err != nil {
		return nil, err
	}
	if want := width * height * limits.BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: HSV plane is %d bytes, expected %d", ErrFrameSizeMismatch, len(pix), want)
	}
	return &Frame{Width: width, Height: height, Pix: pix}, nil
}

// Bounds returns the frame rectangle.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Stride returns the byte length of one row.
func (f *Frame) Stride() int {
	return f.Width * limits.BytesPerPixel
}

// At returns the triple at (x, y).
func (f *Frame) At(x, y int) symbol.HSV {
	i := y*f.Stride() + x*limits.BytesPerPixel
	return symbol.HSV{H: f.Pix[i], S: f.Pix[i+1], V: f.Pix[i+2]}
}

// Set writes the triple at (x, y).
func (f *Frame) Set(x, y int, c symbol.HSV) {
	i := y*f.Stride() + x*limits.BytesPerPixel
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.H, c.S, c.V
}

// Fill paints r, clipped to the frame, with c.
func (f *Frame) Fill(r image.Rectangle, c symbol.HSV) {
	r = r.Intersect(f.Bounds())
	if r.Empty() {
		return
	}
	stride := f.Stride()
	row := f.Pix[r.Min.Y*stride+r.Min.X*limits.BytesPerPixel : r.Min.Y*stride+r.Max.X*limits.BytesPerPixel]
	for i := 0; i < len(row); i += limits.BytesPerPixel {
		row[i], row[i+1], row[i+2] = c.H, c.S, c.V
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		copy(f.Pix[y*stride+r.Min.X*limits.BytesPerPixel:], row)
	}
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Width:  f.Width,
		Height: f.Height,
		Pix:    append([]byte(nil), f.Pix...),
	}
}
