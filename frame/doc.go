// Package frame renders symbols into HSV frames and measures them back.
//
// This package implements the spatial half of the modem:
//
//	Encoding: Symbols → Compositor → Frame (HSV) → ToRGBA → video sink
//	Decoding: video source → FromImage → Frame (HSV) → Scaler → Demodulator → Symbols
//
// # Frames
//
// A Frame is a packed HSV raster in the 8-bit OpenCV convention (H in
// [0,180), S and V in [0,255]), three bytes per pixel, row-major:
//
//	f := frame.NewFrame(1920, 1080)
//	f.Fill(image.Rect(0, 0, 320, 270), symbol.HSV{H: 45, S: 85, V: 51})
//
// Frames are not mutated once handed to a sink or a demodulator.
//
// # Grid Geometry
//
// A Grid overlays VirtualWidth x VirtualHeight cells on an ActualWidth x
// ActualHeight canvas. x is the column (width) axis and y the row (height)
// axis. Cells are numbered row-major, index = cy*VirtualWidth + cx, and cell
// (cx, cy) covers the half-open pixel block
//
//	[cx*bw, (cx+1)*bw) x [cy*bh, (cy+1)*bh)
//
// where bw = ActualWidth/VirtualWidth and bh = ActualHeight/VirtualHeight in
// integer division. The strip left over on the right and bottom edges
// belongs to no cell and stays background. Compositor and Demodulator both
// call Grid.CellBounds; nothing else computes block bounds.
//
// # Composition and Demodulation
//
//	comp, _ := frame.NewCompositor(grid, codec)
//	f, consumed := comp.Compose(symbols)
//
//	demod, _ := frame.NewDemodulator(grid, codec)
//	recovered, err := demod.Demodulate(f)
//
// The demodulator averages every pixel of a cell before deciding, which is
// what rejects compression noise. Hue is averaged on the circle.
//
// # Channel Impairments
//
// Impairments simulate what a lossy sink does to a frame (value drift, hue
// drift, per-pixel noise). They compose into an ImpairmentChain and are used
// by loopback channels and tests.
//
// # Thread Safety
//
// Compositor, Demodulator and Scaler hold only immutable configuration and
// may be shared between goroutines. Frames are safe to read concurrently.
package frame
