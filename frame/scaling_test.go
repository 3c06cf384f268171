package frame

import (
	"testing"

	"github.com/opd-ai/framemodem/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFrame fills a frame with a pattern where every pixel differs
// from its neighbours.
func createTestFrame(width, height int) *Frame {
	f := NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Set(x, y, symbol.HSV{H: uint8((x + y) % 180), S: uint8(x % 256), V: uint8(y % 256)})
		}
	}
	return f
}

func TestScaler_Scale(t *testing.T) {
	scaler := NewScaler()

	tests := []struct {
		name                      string
		srcWidth, srcHeight       int
		targetWidth, targetHeight int
	}{
		{"downscale by two", 64, 48, 32, 24},
		{"upscale by two", 32, 24, 64, 48},
		{"non-integer ratio", 100, 60, 64, 48},
		{"same size", 40, 30, 40, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createTestFrame(tt.srcWidth, tt.srcHeight)

			result, err := scaler.Scale(src, tt.targetWidth, tt.targetHeight)
			require.NoError(t, err)
			assert.Equal(t, tt.targetWidth, result.Width)
			assert.Equal(t, tt.targetHeight, result.Height)
			assert.Len(t, result.Pix, tt.targetWidth*tt.targetHeight*3)
		})
	}
}

func TestScaler_SameSizeReturnsCopy(t *testing.T) {
	src := createTestFrame(16, 16)
	result, err := NewScaler().Scale(src, 16, 16)
	require.NoError(t, err)

	assert.Equal(t, src.Pix, result.Pix)
	result.Pix[0] = 99
	assert.NotEqual(t, src.Pix[0], result.Pix[0])
}

func TestScaler_UpscaleNearestNeighbour(t *testing.T) {
	src := createTestFrame(4, 4)
	result, err := NewScaler().Scale(src, 8, 8)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, src.At(x/2, y/2), result.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestScaler_InvalidInput(t *testing.T) {
	scaler := NewScaler()

	_, err := scaler.Scale(nil, 10, 10)
	assert.Error(t, err)

	_, err = scaler.Scale(createTestFrame(4, 4), 0, 10)
	assert.Error(t, err)

	_, err = scaler.Scale(&Frame{Width: 4, Height: 4, Pix: make([]byte, 5)}, 8, 8)
	assert.Error(t, err)
}

func TestScaler_PreservesCellsForDemodulation(t *testing.T) {
	grid := Grid{VirtualWidth: 4, VirtualHeight: 3, ActualWidth: 80, ActualHeight: 60}
	comp, demod := newTestPair(t, grid, symbol.Scheme4)
	want := sequence(grid.Capacity(), 4)
	f, _ := comp.Compose(want)

	scaler := NewScaler()
	captured, err := scaler.Scale(f, 160, 120)
	require.NoError(t, err)
	assert.True(t, scaler.IsScalingRequired(captured.Width, captured.Height, grid.ActualWidth, grid.ActualHeight))

	restored, err := scaler.Scale(captured, grid.ActualWidth, grid.ActualHeight)
	require.NoError(t, err)

	got, err := demod.Demodulate(restored)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestScaler_GetScaleFactors(t *testing.T) {
	x, y := NewScaler().GetScaleFactors(1920, 1080, 960, 540)
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 0.5, y)
}
