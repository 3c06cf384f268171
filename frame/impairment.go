package frame

import (
	"fmt"
	"math/rand"

	"github.com/opd-ai/framemodem/limits"
	"github.com/opd-ai/framemodem/symbol"
)

// Impairment is a distortion a lossy channel applies to frames.
type Impairment interface {
	// Apply returns a distorted copy of the frame
	Apply(frame *Frame) (*Frame, error)
	// GetName returns the impairment name for identification
	GetName() string
}

// ImpairmentChain applies multiple impairments in sequence.
type ImpairmentChain struct {
	impairments []Impairment
}

// NewImpairmentChain creates a new, empty chain.
func NewImpairmentChain(impairments ...Impairment) *ImpairmentChain {
	return &ImpairmentChain{
		impairments: append(make([]Impairment, 0, len(impairments)), impairments...),
	}
}

// AddImpairment adds an impairment to the end of the chain.
func (ic *ImpairmentChain) AddImpairment(impairment Impairment) {
	ic.impairments = append(ic.impairments, impairment)
}

// Apply processes a frame through all impairments in the chain. The input
// frame is never modified.
func (ic *ImpairmentChain) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	if len(ic.impairments) == 0 {
		return frame.Clone(), nil
	}

	current := frame
	for i, impairment := range ic.impairments {
		result, err := impairment.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("impairment %d (%s) failed: %v", i, impairment.GetName(), err)
		}
		current = result
	}

	return current, nil
}

// GetImpairmentCount returns the number of impairments in the chain.
func (ic *ImpairmentChain) GetImpairmentCount() int {
	return len(ic.impairments)
}

// Clear removes all impairments from the chain.
func (ic *ImpairmentChain) Clear() {
	ic.impairments = ic.impairments[:0]
}

// ValueShiftImpairment adds a constant to the value channel, the way a
// sink's brightness drift would.
type ValueShiftImpairment struct {
	adjustment int // -255 to +255
}

// NewValueShiftImpairment creates a value drift.
func NewValueShiftImpairment(adjustment int) *ValueShiftImpairment {
	return &ValueShiftImpairment{adjustment: clampInt(adjustment, -255, 255)}
}

// Apply shifts V of every pixel, clamped to [0,255].
func (vi *ValueShiftImpairment) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()
	for i := 2; i < len(result.Pix); i += limits.BytesPerPixel {
		result.Pix[i] = uint8(clampInt(int(result.Pix[i])+vi.adjustment, 0, 255))
	}
	return result, nil
}

// GetName returns the impairment name.
func (vi *ValueShiftImpairment) GetName() string {
	return fmt.Sprintf("ValueShift(%+d)", vi.adjustment)
}

// HueShiftImpairment rotates hue around the circle.
type HueShiftImpairment struct {
	shift int
}

// NewHueShiftImpairment creates a hue rotation in hue units (degrees/2).
func NewHueShiftImpairment(shift int) *HueShiftImpairment {
	return &HueShiftImpairment{shift: shift % symbol.HueModulus}
}

// Apply rotates H of every pixel.
func (hi *HueShiftImpairment) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()
	for i := 0; i < len(result.Pix); i += limits.BytesPerPixel {
		result.Pix[i] = uint8(wrapHue(int(result.Pix[i]) + hi.shift))
	}
	return result, nil
}

// GetName returns the impairment name.
func (hi *HueShiftImpairment) GetName() string {
	return fmt.Sprintf("HueShift(%+d)", hi.shift)
}

// NoiseImpairment adds independent uniform noise in [-amplitude, amplitude]
// to every channel of every pixel. The sequence is reproducible per seed.
type NoiseImpairment struct {
	amplitude int
	seed      int64
}

// NewNoiseImpairment creates a seeded noise source.
func NewNoiseImpairment(amplitude int, seed int64) *NoiseImpairment {
	return &NoiseImpairment{amplitude: clampInt(amplitude, 0, 255), seed: seed}
}

// Apply adds noise; H wraps, S and V clamp.
func (ni *NoiseImpairment) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()
	if ni.amplitude == 0 {
		return result, nil
	}

	rng := rand.New(rand.NewSource(ni.seed))
	span := 2*ni.amplitude + 1
	for i := 0; i < len(result.Pix); i += limits.BytesPerPixel {
		result.Pix[i] = uint8(wrapHue(int(result.Pix[i]) + rng.Intn(span) - ni.amplitude))
		result.Pix[i+1] = uint8(clampInt(int(result.Pix[i+1])+rng.Intn(span)-ni.amplitude, 0, 255))
		result.Pix[i+2] = uint8(clampInt(int(result.Pix[i+2])+rng.Intn(span)-ni.amplitude, 0, 255))
	}
	return result, nil
}

// GetName returns the impairment name.
func (ni *NoiseImpairment) GetName() string {
	return fmt.Sprintf("Noise(±%d)", ni.amplitude)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapHue(h int) int {
	h %= symbol.HueModulus
	if h < 0 {
		h += symbol.HueModulus
	}
	return h
}
