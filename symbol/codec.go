package symbol

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Symbol is one cell's worth of payload, in [0, 2^bits).
type Symbol uint16

// HSV is a color triple in the 8-bit OpenCV convention: H in [0,180),
// S and V in [0,255].
type HSV struct {
	H, S, V uint8
}

// String returns a compact representation of the triple.
func (c HSV) String() string {
	return fmt.Sprintf("hsv(%d,%d,%d)", c.H, c.S, c.V)
}

// Scheme describes how many bits each channel carries.
type Scheme struct {
	HueBits        int
	SaturationBits int
	ValueBits      int
}

var (
	// Scheme4 carries 4 bits per symbol: 1 hue, 1 saturation, 2 value.
	Scheme4 = Scheme{HueBits: 1, SaturationBits: 1, ValueBits: 2}

	// Scheme8 carries 8 bits per symbol: 2 hue, 2 saturation, 4 value.
	Scheme8 = Scheme{HueBits: 2, SaturationBits: 2, ValueBits: 4}
)

// Bits returns the symbol width.
func (s Scheme) Bits() int {
	return s.HueBits + s.SaturationBits + s.ValueBits
}

// String returns the bit split as hue/saturation/value.
func (s Scheme) String() string {
	return fmt.Sprintf("%d/%d/%d", s.HueBits, s.SaturationBits, s.ValueBits)
}

// ParseScheme accepts a preset width ("4", "8") or explicit channel bits
// in String form ("h/s/v").
func ParseScheme(text string) (Scheme, error) {
	switch text {
	case "4":
		return Scheme4, nil
	case "8":
		return Scheme8, nil
	}

	var s Scheme
	if n, err := fmt.Sscanf(text, "%d/%d/%d", &s.HueBits, &s.SaturationBits, &s.ValueBits); err != nil || n != 3 {
		return Scheme{}, fmt.Errorf("%w: %q is not 4, 8 or h/s/v", ErrInvalidScheme, text)
	}
	if s.String() != text {
		return Scheme{}, fmt.Errorf("%w: %q is not 4, 8 or h/s/v", ErrInvalidScheme, text)
	}
	return s, s.Validate()
}

// Validate checks that the symbol width divides a byte and that every
// channel can be quantized.
func (s Scheme) Validate() error {
	if err := ValidateSymbolWidth(s.Bits()); err != nil {
		return err
	}
	_, err := NewCodec(s)
	return err
}

// Codec maps symbols to HSV triples. The symbol's bit layout is
// hue | saturation | value, most significant first.
type Codec struct {
	scheme     Scheme
	hue        *Quantizer
	saturation *Quantizer
	value      *Quantizer
}

// NewCodec builds the quantization tables for a scheme.
func NewCodec(scheme Scheme) (*Codec, error) {
	if err := ValidateSymbolWidth(scheme.Bits()); err != nil {
		return nil, err
	}

	hue, err := NewCircularQuantizer(scheme.HueBits, HueModulus)
	if err != nil {
		return nil, fmt.Errorf("hue channel: %w", err)
	}
	saturation, err := NewLinearQuantizer(scheme.SaturationBits, ChannelMax)
	if err != nil {
		return nil, fmt.Errorf("saturation channel: %w", err)
	}
	value, err := NewLinearQuantizer(scheme.ValueBits, ChannelMax)
	if err != nil {
		return nil, fmt.Errorf("value channel: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewCodec",
		"scheme":     scheme.String(),
		"hue":        hue.Levels(),
		"saturation": saturation.Levels(),
		"value":      value.Levels(),
	}).Debug("Symbol codec tables built")

	return &Codec{scheme: scheme, hue: hue, saturation: saturation, value: value}, nil
}

// Scheme returns the codec's bit split.
func (c *Codec) Scheme() Scheme { return c.scheme }

// Bits returns the symbol width.
func (c *Codec) Bits() int { return c.scheme.Bits() }

// Encode maps a symbol to its color triple. Bits above the symbol width are ignored.
func (c *Codec) Encode(s Symbol) HSV {
	vb, sb := c.scheme.ValueBits, c.scheme.SaturationBits
	return HSV{
		H: uint8(c.hue.Encode(int(s) >> (vb + sb))),
		S: uint8(c.saturation.Encode(int(s) >> vb)),
		V: uint8(c.value.Encode(int(s))),
	}
}

// Decode classifies a color triple back to a symbol. It never fails.
func (c *Codec) Decode(t HSV) Symbol {
	vb, sb := c.scheme.ValueBits, c.scheme.SaturationBits
	h := c.hue.Decode(int(t.H))
	s := c.saturation.Decode(int(t.S))
	v := c.value.Decode(int(t.V))
	return Symbol(h<<(vb+sb) | s<<vb | v)
}

// Tolerance returns the per-channel perturbation every symbol survives.
func (c *Codec) Tolerance() (hue, saturation, value int) {
	return c.hue.Tolerance(), c.saturation.Tolerance(), c.value.Tolerance()
}

// Hue returns the hue quantizer.
func (c *Codec) Hue() *Quantizer { return c.hue }

// Saturation returns the saturation quantizer.
func (c *Codec) Saturation() *Quantizer { return c.saturation }

// Value returns the value quantizer.
func (c *Codec) Value() *Quantizer { return c.value }
