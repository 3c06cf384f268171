package frame

import (
	"fmt"

	"github.com/opd-ai/framemodem/limits"
)

// Scaler resizes captured frames to the canvas a grid expects.
//
// Sampling is nearest-neighbour at pixel centres: interpolating would blend
// hue across cell edges, and hue is circular, so a blended value can land in
// an unrelated bin.
type Scaler struct{}

// NewScaler creates a new frame scaler.
func NewScaler() *Scaler {
	return &Scaler{}
}

// Scale resizes a frame to the specified dimensions.
//
// Parameters:
//   - frame: Source frame to scale
//   - targetWidth, targetHeight: Target canvas, validated against limits.ValidateCanvas
//
// Returns:
//   - *Frame: Scaled frame (a copy when no scaling is needed)
//   - error: Any error that occurred during scaling
func (s *Scaler) Scale(frame *Frame, targetWidth, targetHeight int) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("source frame cannot be nil")
	}
	if err := limits.ValidateCanvas(targetWidth, targetHeight); err != nil {
		return nil, fmt.Errorf("invalid target dimensions: %w", err)
	}
	if len(frame.Pix) < frame.Width*frame.Height*limits.BytesPerPixel {
		return nil, fmt.Errorf("source buffer too small: %d < %d", len(frame.Pix), frame.Width*frame.Height*limits.BytesPerPixel)
	}

	if !s.IsScalingRequired(frame.Width, frame.Height, targetWidth, targetHeight) {
		return frame.Clone(), nil
	}

	result := NewFrame(targetWidth, targetHeight)

	// source column for each destination column
	srcX := make([]int, targetWidth)
	for x := range srcX {
		srcX[x] = ((2*x + 1) * frame.Width) / (2 * targetWidth) * limits.BytesPerPixel
	}

	srcStride, dstStride := frame.Stride(), result.Stride()
	for y := 0; y < targetHeight; y++ {
		sy := ((2*y + 1) * frame.Height) / (2 * targetHeight)
		srcRow := frame.Pix[sy*srcStride : (sy+1)*srcStride]
		dstRow := result.Pix[y*dstStride : (y+1)*dstStride]
		for x, sx := range srcX {
			d := x * limits.BytesPerPixel
			copy(dstRow[d:d+limits.BytesPerPixel], srcRow[sx:sx+limits.BytesPerPixel])
		}
	}

	return result, nil
}

// GetScaleFactors calculates the scaling factors for given dimensions.
func (s *Scaler) GetScaleFactors(srcWidth, srcHeight, dstWidth, dstHeight int) (xFactor, yFactor float64) {
	xFactor = float64(dstWidth) / float64(srcWidth)
	yFactor = float64(dstHeight) / float64(srcHeight)
	return
}

// IsScalingRequired checks if scaling is needed for given dimensions.
func (s *Scaler) IsScalingRequired(srcWidth, srcHeight, dstWidth, dstHeight int) bool {
	return srcWidth != dstWidth || srcHeight != dstHeight
}
