package stream

import (
	"fmt"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/symbol"
)

// AutoPhaseSkip selects Redundancy/2 as the decoder's initial skip.
const AutoPhaseSkip = -1

// Config carries everything encoder and decoder must agree on.
type Config struct {
	Grid       frame.Grid
	Scheme     symbol.Scheme
	Redundancy int // identical frames written per batch
	PhaseSkip  int // frames discarded before the first sample; AutoPhaseSkip for Redundancy/2
}

// DefaultConfig returns the 1080p, 6x4 grid, 4-bit, triple-redundancy setup.
func DefaultConfig() Config {
	return Config{
		Grid: frame.Grid{
			VirtualWidth:  6,
			VirtualHeight: 4,
			ActualWidth:   1920,
			ActualHeight:  1080,
		},
		Scheme:     symbol.Scheme4,
		Redundancy: 3,
		PhaseSkip:  AutoPhaseSkip,
	}
}

// Validate checks the configuration once, before any frame is produced.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := c.Scheme.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.BytesPerFrame() < 1 {
		return fmt.Errorf("%w: %d cells cannot carry one byte of %d-bit symbols",
			ErrInvalidGridGeometry, c.Grid.Capacity(), c.Scheme.Bits())
	}
	if c.Redundancy < 1 {
		return fmt.Errorf("%w: redundancy %d must be at least 1", ErrInvalidConfig, c.Redundancy)
	}
	if c.PhaseSkip < AutoPhaseSkip {
		return fmt.Errorf("%w: phase skip %d", ErrInvalidConfig, c.PhaseSkip)
	}
	// skipping a whole group would lose the first group's payload
	if c.PhaseSkip >= c.Redundancy {
		return fmt.Errorf("%w: phase skip %d must be below redundancy %d",
			ErrInvalidConfig, c.PhaseSkip, c.Redundancy)
	}
	return nil
}

// BytesPerFrame returns the payload bytes carried by one frame.
func (c Config) BytesPerFrame() int {
	bits := c.Scheme.Bits()
	if symbol.ValidateSymbolWidth(bits) != nil {
		return 0
	}
	return c.Grid.Capacity() / symbol.SymbolsPerByte(bits)
}

// SymbolsPerFrame returns the cells actually used by a full frame.
func (c Config) SymbolsPerFrame() int {
	bits := c.Scheme.Bits()
	if symbol.ValidateSymbolWidth(bits) != nil {
		return 0
	}
	return c.BytesPerFrame() * symbol.SymbolsPerByte(bits)
}

// EffectivePhaseSkip resolves AutoPhaseSkip.
func (c Config) EffectivePhaseSkip() int {
	if c.PhaseSkip == AutoPhaseSkip {
		return c.Redundancy / 2
	}
	return c.PhaseSkip
}

// FramesFor returns how many frames (including repeats) a payload of n bytes produces.
func (c Config) FramesFor(n int) int {
	per := c.BytesPerFrame()
	if per == 0 {
		return 0
	}
	return (n + per - 1) / per * c.Redundancy
}
