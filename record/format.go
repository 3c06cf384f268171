package record

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/opd-ai/framemodem/limits"
)

const (
	// Magic opens every recording.
	Magic = "FMRC"

	// Version is the format version this package writes.
	Version = 1

	// FileExtension is the conventional suffix for recordings.
	FileExtension = ".fmr"

	headerSize       = len(Magic) + 1 + 2 + 2
	recordHeaderSize = 8
)

var crcTable = crc32.MakeTable(crc32.IEEE)

// Header describes a recording.
type Header struct {
	Version uint8
	Width   int
	Height  int
}

func (h Header) marshal() ([]byte, error) {
	if err := limits.ValidateCanvas(h.Width, h.Height); err != nil {
		return nil, err
	}
	buf := make([]byte, headerSize)
	copy(buf, Magic)
	buf[4] = h.Version
	binary.BigEndian.PutUint16(buf[5:7], uint16(h.Width))
	binary.BigEndian.PutUint16(buf[7:9], uint16(h.Height))
	return buf, nil
}

func parseHeader(buf []byte) (Header, error) {
	if string(buf[:len(Magic)]) != Magic {
		return Header{}, fmt.Errorf("%w: magic %q", ErrBadMagic, buf[:len(Magic)])
	}
	h := Header{
		Version: buf[4],
		Width:   int(binary.BigEndian.Uint16(buf[5:7])),
		Height:  int(binary.BigEndian.Uint16(buf[7:9])),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if err := limits.ValidateCanvas(h.Width, h.Height); err != nil {
		return Header{}, err
	}
	return h, nil
}

// checksum computes CRC-32 IEEE of a record payload.
func checksum(payload []byte) uint32 {
	return crc32.Checksum(payload, crcTable)
}
