package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/stream"
	"github.com/opd-ai/framemodem/symbol"
	"github.com/sirupsen/logrus"
)

// StreamFlags are the modem parameters both ends must agree on.
type StreamFlags struct {
	width      int
	height     int
	gridWidth  int
	gridHeight int
	scheme     string
	redundancy int
	phaseSkip  int
	logLevel   string
}

// RegisterStreamFlags binds the shared flags to fs with DefaultConfig values.
func RegisterStreamFlags(fs *flag.FlagSet) *StreamFlags {
	def := stream.DefaultConfig()
	f := &StreamFlags{}

	// Canvas and grid
	fs.IntVar(&f.width, "width", def.Grid.ActualWidth, "Canvas width in pixels")
	fs.IntVar(&f.height, "height", def.Grid.ActualHeight, "Canvas height in pixels")
	fs.IntVar(&f.gridWidth, "grid-width", def.Grid.VirtualWidth, "Cells per row")
	fs.IntVar(&f.gridHeight, "grid-height", def.Grid.VirtualHeight, "Cells per column")

	// Symbols and redundancy
	fs.StringVar(&f.scheme, "scheme", "4", "Symbol scheme: 4, 8 or hue/saturation/value bits (e.g. 1/1/2)")
	fs.IntVar(&f.redundancy, "redundancy", def.Redundancy, "Identical frames per batch")
	fs.IntVar(&f.phaseSkip, "phase-skip", def.PhaseSkip, "Frames skipped before the first sample (-1 for redundancy/2)")

	// Logging
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return f
}

// Config builds and validates the stream configuration.
func (f *StreamFlags) Config() (stream.Config, error) {
	scheme, err := symbol.ParseScheme(f.scheme)
	if err != nil {
		return stream.Config{}, err
	}
	cfg := stream.Config{
		Grid: frame.Grid{
			VirtualWidth:  f.gridWidth,
			VirtualHeight: f.gridHeight,
			ActualWidth:   f.width,
			ActualHeight:  f.height,
		},
		Scheme:     scheme,
		Redundancy: f.redundancy,
		PhaseSkip:  f.phaseSkip,
	}
	return cfg, cfg.Validate()
}

// SetupLogging sends logrus output to w at the configured level. Commands
// pass stderr so stdout stays reserved for payload bytes.
func (f *StreamFlags) SetupLogging(w io.Writer) error {
	level, err := logrus.ParseLevel(f.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetOutput(w)
	logrus.SetLevel(level)
	return nil
}

// Fatalf prints an error in the commands' format and exits with status 1.
func Fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "❌ "+format+"\n", args...)
	os.Exit(1)
}
