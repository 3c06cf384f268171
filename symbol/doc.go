// Package symbol maps fixed-width data symbols to quantized HSV color triples
// and back.
//
// # Channels and Quantizers
//
// A Scheme splits a symbol's bits across the hue, saturation and value
// channels. Each channel gets a Quantizer with 2^k encode levels generated
// programmatically from its bit count:
//
//	codec, err := symbol.NewCodec(symbol.Scheme4) // 1 hue, 1 saturation, 2 value bits
//	if err != nil {
//	    return err
//	}
//	c := codec.Encode(0xA) // HSV{H: 135, S: 85, V: 153}
//	s := codec.Decode(c)   // 0xA
//
// Saturation and value are linear channels over [0,255]. Their levels sit on
// the interior division points of the range (four levels are 51, 102, 153 and
// 204), so neither channel ever encodes 0 and hue stays measurable. Decision
// boundaries are the midpoints between adjacent levels; a value on a boundary
// decodes to the higher level (round half up).
//
// Hue is circular over [0,180), the 8-bit OpenCV convention of degrees/2. Its
// levels are the midpoints of 2^k equal bins and decoding picks the bin, so
// noise that wraps past 0 or 179 lands in the adjacent bin symmetrically.
//
// # Packing
//
// Symbols narrower than a byte are packed most significant first. With
// 4-bit symbols the high nibble is the first symbol and the low nibble the
// second:
//
//	syms := symbol.Pack([]byte{0x12}, 4) // [0x1, 0x2]
//	data := symbol.Unpack(syms, 4)        // [0x12]
package symbol
