package frame

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/opd-ai/framemodem/limits"
	"github.com/opd-ai/framemodem/symbol"
)

// ToRGBA converts an HSV frame to an opaque RGBA image for a video sink.
func ToRGBA(f *Frame) *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	cache := make(map[symbol.HSV][3]uint8)

	src, dst := f.Pix, img.Pix
	for i, j := 0, 0; i < len(src); i, j = i+limits.BytesPerPixel, j+4 {
		c := symbol.HSV{H: src[i], S: src[i+1], V: src[i+2]}
		rgb, ok := cache[c]
		if !ok {
			rgb = HSVToRGB(c)
			cache[c] = rgb
		}
		dst[j], dst[j+1], dst[j+2], dst[j+3] = rgb[0], rgb[1], rgb[2], 0xFF
	}
	return img
}

// FromImage converts a captured image to an HSV frame. Alpha is ignored.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	cache := make(map[[3]uint8]symbol.HSV)

	convert := func(x, y int, r, g, bl uint8) {
		key := [3]uint8{r, g, bl}
		c, ok := cache[key]
		if !ok {
			c = RGBToHSV(r, g, bl)
			cache[key] = c
		}
		f.Set(x, y, c)
	}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < f.Height; y++ {
			row := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(b.Min.X-rgba.Rect.Min.X)*4:]
			for x := 0; x < f.Width; x++ {
				convert(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return f
	}

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			convert(x, y, c.R, c.G, c.B)
		}
	}
	return f
}

// HSVToRGB converts one OpenCV-convention triple (H = degrees/2) to 8-bit RGB.
func HSVToRGB(c symbol.HSV) [3]uint8 {
	col := colorful.Hsv(float64(c.H)*2, float64(c.S)/255, float64(c.V)/255)
	r, g, b := col.RGB255()
	return [3]uint8{r, g, b}
}

// RGBToHSV converts 8-bit RGB to an OpenCV-convention triple.
func RGBToHSV(r, g, b uint8) symbol.HSV {
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := col.Hsv()
	return symbol.HSV{
		H: uint8(int(math.Floor(h/2+0.5)) % symbol.HueModulus),
		S: uint8(math.Floor(s*255 + 0.5)),
		V: uint8(math.Floor(v*255 + 0.5)),
	}
}
