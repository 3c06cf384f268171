package symbol

import (
	"fmt"
	"sort"
)

const (
	// HueModulus is the size of the circular hue range.
	HueModulus = 180

	// ChannelMax is the inclusive maximum of the saturation and value channels.
	ChannelMax = 255

	// MaxChannelBits is the widest quantizer a single channel supports.
	MaxChannelBits = 8
)

// Quantizer holds the encode levels and decision regions for one channel.
//
// For a linear channel, value v decodes to the number of boundaries that are
// <= v. For a circular channel, v decodes to bin floor(v*n/modulus).
type Quantizer struct {
	bits     int
	span     int // inclusive max for linear channels, modulus for circular ones
	circular bool
	levels   []int
	bounds   []int
}

// NewLinearQuantizer builds a quantizer with 2^bits levels over [0, max].
func NewLinearQuantizer(bits, max int) (*Quantizer, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	n := 1 << bits
	q := &Quantizer{bits: bits, span: max, levels: make([]int, n)}
	for i := range q.levels {
		q.levels[i] = divRoundHalfUp((i+1)*max, n+1)
	}
	q.bounds = make([]int, n-1)
	for i := range q.bounds {
		q.bounds[i] = divRoundHalfUp(q.levels[i]+q.levels[i+1], 2)
	}
	return q, q.verify()
}

// NewCircularQuantizer builds a quantizer with 2^bits bins over the modular
// range [0, modulus).
func NewCircularQuantizer(bits, modulus int) (*Quantizer, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	n := 1 << bits
	q := &Quantizer{bits: bits, span: modulus, circular: true, levels: make([]int, n)}
	for i := range q.levels {
		q.levels[i] = divRoundHalfUp((2*i+1)*modulus, 2*n) % modulus
	}
	return q, q.verify()
}

func checkBits(bits int) error {
	if bits < 0 || bits > MaxChannelBits {
		return fmt.Errorf("%w: channel bits %d outside [0,%d]", ErrInvalidScheme, bits, MaxChannelBits)
	}
	return nil
}

// verify rejects tables whose levels collide or fall outside their own
// decision region.
func (q *Quantizer) verify() error {
	for i, level := range q.levels {
		if i > 0 && level <= q.levels[i-1] {
			return fmt.Errorf("%w: %d levels do not fit in range %d", ErrInvalidScheme, len(q.levels), q.span)
		}
		if got := q.Decode(level); got != i {
			return fmt.Errorf("%w: level %d (value %d) decodes to %d", ErrInvalidScheme, i, level, got)
		}
	}
	return nil
}

// Bits returns the number of bits carried by the channel.
func (q *Quantizer) Bits() int { return q.bits }

// Levels returns a copy of the encode level values.
func (q *Quantizer) Levels() []int { return append([]int(nil), q.levels...) }

// Boundaries returns a copy of the decision boundaries. Circular quantizers
// have none; their regions are the equal-width bins.
func (q *Quantizer) Boundaries() []int { return append([]int(nil), q.bounds...) }

// Encode returns the channel value for level i. i is masked to the level count.
func (q *Quantizer) Encode(i int) int {
	return q.levels[i&(len(q.levels)-1)]
}

// Decode classifies any channel value into exactly one level. Linear values
// outside [0, max] are clamped; circular values are reduced modulo the range.
func (q *Quantizer) Decode(v int) int {
	if q.circular {
		v %= q.span
		if v < 0 {
			v += q.span
		}
		return v * len(q.levels) / q.span
	}
	if v < 0 {
		v = 0
	} else if v > q.span {
		v = q.span
	}
	return sort.Search(len(q.bounds), func(i int) bool { return q.bounds[i] > v })
}

// Tolerance returns the largest symmetric perturbation every level survives.
func (q *Quantizer) Tolerance() int {
	n := len(q.levels)
	if n == 1 {
		return q.span
	}
	tol := q.span
	for i, level := range q.levels {
		var lo, hi int
		if q.circular {
			// bin i is [ceil(i*span/n), ceil((i+1)*span/n)-1]
			lo = level - (i*q.span+n-1)/n
			hi = ((i+1)*q.span+n-1)/n - 1 - level
		} else {
			lo, hi = q.span, q.span
			if i > 0 {
				lo = level - q.bounds[i-1]
			}
			if i < n-1 {
				hi = q.bounds[i] - 1 - level
			}
		}
		tol = min(tol, lo, hi)
	}
	return tol
}

// divRoundHalfUp returns a/b rounded half up for non-negative a and positive b.
func divRoundHalfUp(a, b int) int {
	return (2*a + b) / (2 * b)
}
