package frame

import (
	"image"
	"image/color"
	"testing"

	"github.com/opd-ai/framemodem/symbol"
	"github.com/stretchr/testify/assert"
)

func TestRGBToHSV_Primaries(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    symbol.HSV
	}{
		{"black", 0, 0, 0, symbol.HSV{}},
		{"white", 255, 255, 255, symbol.HSV{H: 0, S: 0, V: 255}},
		{"red", 255, 0, 0, symbol.HSV{H: 0, S: 255, V: 255}},
		{"green", 0, 255, 0, symbol.HSV{H: 60, S: 255, V: 255}},
		{"blue", 0, 0, 255, symbol.HSV{H: 120, S: 255, V: 255}},
		{"magenta-ish wraps below 180", 255, 0, 2, symbol.HSV{H: 0, S: 255, V: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RGBToHSV(tt.r, tt.g, tt.b))
		})
	}
}

func TestHSVToRGB_Primaries(t *testing.T) {
	assert.Equal(t, [3]uint8{255, 0, 0}, HSVToRGB(symbol.HSV{H: 0, S: 255, V: 255}))
	assert.Equal(t, [3]uint8{0, 255, 0}, HSVToRGB(symbol.HSV{H: 60, S: 255, V: 255}))
	assert.Equal(t, [3]uint8{0, 0, 255}, HSVToRGB(symbol.HSV{H: 120, S: 255, V: 255}))
	assert.Equal(t, [3]uint8{0, 0, 0}, HSVToRGB(symbol.HSV{}))
}

func TestColorspace_CodecLevelsSurviveRGB(t *testing.T) {
	codec, err := symbol.NewCodec(symbol.Scheme4)
	assert.NoError(t, err)

	for s := 0; s < 16; s++ {
		c := codec.Encode(symbol.Symbol(s))
		rgb := HSVToRGB(c)
		back := RGBToHSV(rgb[0], rgb[1], rgb[2])
		assert.Equal(t, symbol.Symbol(s), codec.Decode(back), "symbol %d: %s -> %v -> %s", s, c, rgb, back)
	}
}

func TestFromImage_GenericAndOffsetImages(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	nrgba.Set(0, 0, color.NRGBA{R: 255, A: 255})
	nrgba.Set(1, 0, color.NRGBA{B: 255, A: 255})

	f := FromImage(nrgba)
	assert.Equal(t, 2, f.Width)
	assert.Equal(t, symbol.HSV{H: 0, S: 255, V: 255}, f.At(0, 0))
	assert.Equal(t, symbol.HSV{H: 120, S: 255, V: 255}, f.At(1, 0))

	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	rgba.Set(2, 2, color.RGBA{G: 255, A: 255})
	sub := rgba.SubImage(image.Rect(2, 2, 4, 4))

	f = FromImage(sub)
	assert.Equal(t, 2, f.Width)
	assert.Equal(t, 2, f.Height)
	assert.Equal(t, symbol.HSV{H: 60, S: 255, V: 255}, f.At(0, 0))
	assert.Equal(t, symbol.HSV{}, f.At(1, 1))
}

func TestToRGBA_Opaque(t *testing.T) {
	f := NewFrame(3, 2)
	f.Set(1, 1, symbol.HSV{H: 60, S: 255, V: 255})

	img := ToRGBA(f)
	assert.Equal(t, f.Bounds(), img.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))
}
