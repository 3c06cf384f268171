package frame

import (
	"fmt"
	"image"

	"github.com/opd-ai/framemodem/limits"
)

// Grid is the virtual cell layout over a pixel canvas.
type Grid struct {
	VirtualWidth  int
	VirtualHeight int
	ActualWidth   int
	ActualHeight  int
}

// Validate checks that every cell gets a block of at least one pixel.
func (g Grid) Validate() error {
	if g.VirtualWidth <= 0 || g.VirtualHeight <= 0 {
		return fmt.Errorf("%w: virtual grid %dx%d", ErrInvalidGridGeometry, g.VirtualWidth, g.VirtualHeight)
	}
	if err := limits.ValidateCanvas(g.ActualWidth, g.ActualHeight); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGridGeometry, err)
	}
	if g.ActualWidth < g.VirtualWidth || g.ActualHeight < g.VirtualHeight {
		return fmt.Errorf("%w: canvas %dx%d smaller than virtual grid %dx%d", ErrInvalidGridGeometry,
			g.ActualWidth, g.ActualHeight, g.VirtualWidth, g.VirtualHeight)
	}
	return nil
}

// Capacity returns the number of cells.
func (g Grid) Capacity() int {
	return g.VirtualWidth * g.VirtualHeight
}

// BlockSize returns the pixel block dimensions of every cell.
func (g Grid) BlockSize() (width, height int) {
	return g.ActualWidth / g.VirtualWidth, g.ActualHeight / g.VirtualHeight
}

// Remainder returns the width of the right strip and the height of the
// bottom strip that belong to no cell.
func (g Grid) Remainder() (width, height int) {
	bw, bh := g.BlockSize()
	return g.ActualWidth - bw*g.VirtualWidth, g.ActualHeight - bh*g.VirtualHeight
}

// CellBounds returns the pixel block of cell i (row-major).
func (g Grid) CellBounds(i int) image.Rectangle {
	bw, bh := g.BlockSize()
	cx, cy := i%g.VirtualWidth, i/g.VirtualWidth
	return image.Rect(cx*bw, cy*bh, (cx+1)*bw, (cy+1)*bh)
}

// CellAt returns the cell owning pixel (x, y), or false for remainder pixels.
func (g Grid) CellAt(x, y int) (int, bool) {
	bw, bh := g.BlockSize()
	cx, cy := x/bw, y/bh
	if x < 0 || y < 0 || cx >= g.VirtualWidth || cy >= g.VirtualHeight {
		return 0, false
	}
	return cy*g.VirtualWidth + cx, true
}

// String returns the grid as virtual@actual.
func (g Grid) String() string {
	return fmt.Sprintf("%dx%d@%dx%d", g.VirtualWidth, g.VirtualHeight, g.ActualWidth, g.ActualHeight)
}
