package frame

import (
	"fmt"
	"image"
	"math"

	"github.com/opd-ai/framemodem/limits"
	"github.com/opd-ai/framemodem/symbol"
	"github.com/sirupsen/logrus"
)

// hueUnit is the angle of one hue step in radians.
const hueUnit = 2 * math.Pi / symbol.HueModulus

var hueCos, hueSin [256]float64

func init() {
	for h := range hueCos {
		hueCos[h] = math.Cos(float64(h) * hueUnit)
		hueSin[h] = math.Sin(float64(h) * hueUnit)
	}
}

// Demodulator recovers symbols from a frame by averaging each cell.
type Demodulator struct {
	grid  Grid
	codec *symbol.Codec
}

// NewDemodulator validates the grid and returns a demodulator for it.
func NewDemodulator(grid Grid, codec *symbol.Codec) (*Demodulator, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, fmt.Errorf("codec cannot be nil")
	}
	return &Demodulator{grid: grid, codec: codec}, nil
}

// Grid returns the demodulator's grid.
func (d *Demodulator) Grid() Grid { return d.grid }

// Demodulate returns one symbol per cell, Capacity symbols in row-major order.
func (d *Demodulator) Demodulate(f *Frame) ([]symbol.Symbol, error) {
	if f == nil {
		return nil, ErrNilFrame
	}
	if f.Width != d.grid.ActualWidth || f.Height != d.grid.ActualHeight {
		return nil, fmt.Errorf("%w: frame %dx%d, grid canvas %dx%d", ErrFrameSizeMismatch,
			f.Width, f.Height, d.grid.ActualWidth, d.grid.ActualHeight)
	}

	out := make([]symbol.Symbol, d.grid.Capacity())
	for i := range out {
		out[i] = d.codec.Decode(CellMean(f, d.grid.CellBounds(i)))
	}

	logrus.WithFields(logrus.Fields{
		"function": "Demodulator.Demodulate",
		"cells":    len(out),
	}).Debug("Frame demodulated")

	return out, nil
}

// DemodulateImage converts a captured RGB image to HSV and demodulates it.
func (d *Demodulator) DemodulateImage(img image.Image) ([]symbol.Symbol, error) {
	return d.Demodulate(FromImage(img))
}

// CellMean averages the triples inside r. Saturation and value use the
// arithmetic mean; hue uses the circular mean. Each mean is rounded half up.
func CellMean(f *Frame, r image.Rectangle) symbol.HSV {
	r = r.Intersect(f.Bounds())
	if r.Empty() {
		return symbol.HSV{}
	}

	var sumS, sumV int
	var sumCos, sumSin float64
	stride := f.Stride()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := f.Pix[y*stride+r.Min.X*limits.BytesPerPixel : y*stride+r.Max.X*limits.BytesPerPixel]
		for i := 0; i < len(row); i += limits.BytesPerPixel {
			sumCos += hueCos[row[i]]
			sumSin += hueSin[row[i]]
			sumS += int(row[i+1])
			sumV += int(row[i+2])
		}
	}

	count := float64(r.Dx() * r.Dy())
	hue := math.Atan2(sumSin, sumCos) / hueUnit
	if hue < 0 {
		hue += symbol.HueModulus
	}
	return symbol.HSV{
		H: uint8(roundHalfUp(hue) % symbol.HueModulus),
		S: uint8(roundHalfUp(float64(sumS) / count)),
		V: uint8(roundHalfUp(float64(sumV) / count)),
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
