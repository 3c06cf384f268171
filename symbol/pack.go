package symbol

import "fmt"

// ValidateSymbolWidth accepts widths that divide a byte.
func ValidateSymbolWidth(bits int) error {
	switch bits {
	case 1, 2, 4, 8:
		return nil
	}
	return fmt.Errorf("%w: %d bits (must be 1, 2, 4 or 8)", ErrUnsupportedSymbolWidth, bits)
}

// SymbolsPerByte returns how many symbols of the given width one byte splits into.
func SymbolsPerByte(bits int) int {
	return 8 / bits
}

// Pack splits each byte into 8/bits symbols, most significant first.
// bits must satisfy ValidateSymbolWidth.
func Pack(data []byte, bits int) []Symbol {
	per := SymbolsPerByte(bits)
	mask := byte(0xFF >> uint(8-bits))
	out := make([]Symbol, 0, len(data)*per)
	for _, b := range data {
		for k := per - 1; k >= 0; k-- {
			out = append(out, Symbol((b>>(uint(k*bits)))&mask))
		}
	}
	return out
}

// Unpack joins groups of 8/bits symbols back into bytes. A trailing partial
// group is dropped.
func Unpack(symbols []Symbol, bits int) []byte {
	per := SymbolsPerByte(bits)
	mask := Symbol(1<<bits - 1)
	out := make([]byte, len(symbols)/per)
	for i := range out {
		var b byte
		for _, s := range symbols[i*per : (i+1)*per] {
			b = b<<uint(bits) | byte(s&mask)
		}
		out[i] = b
	}
	return out
}
