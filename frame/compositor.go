package frame

import (
	"fmt"

	"github.com/opd-ai/framemodem/symbol"
	"github.com/sirupsen/logrus"
)

// Compositor paints symbols into grid cells.
type Compositor struct {
	grid  Grid
	codec *symbol.Codec
}

// NewCompositor validates the grid and returns a compositor for it.
func NewCompositor(grid Grid, codec *symbol.Codec) (*Compositor, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, fmt.Errorf("codec cannot be nil")
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewCompositor",
		"grid":     grid.String(),
		"scheme":   codec.Scheme().String(),
	}).Debug("Frame compositor created")

	return &Compositor{grid: grid, codec: codec}, nil
}

// Grid returns the compositor's grid.
func (c *Compositor) Grid() Grid { return c.grid }

// Compose renders up to Capacity symbols, one per cell in row-major order,
// and returns the frame with the number of symbols consumed. Cells past the
// end of the supply stay black.
func (c *Compositor) Compose(symbols []symbol.Symbol) (*Frame, int) {
	f := NewFrame(c.grid.ActualWidth, c.grid.ActualHeight)

	n := min(len(symbols), c.grid.Capacity())
	for i := 0; i < n; i++ {
		f.Fill(c.grid.CellBounds(i), c.codec.Encode(symbols[i]))
	}

	logrus.WithFields(logrus.Fields{
		"function": "Compositor.Compose",
		"consumed": n,
		"capacity": c.grid.Capacity(),
	}).Debug("Frame composed")

	return f, n
}
