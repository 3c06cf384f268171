package rtp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/framemodem/limits"
	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
)

const (
	// PayloadType is the dynamic RTP payload type used for frames.
	PayloadType = 96

	// ClockRate is the RTP timestamp clock for video.
	ClockRate = 90000

	// DefaultPacketSize is a conservative MTU minus IP/UDP headers.
	DefaultPacketSize = 1200

	// MinPacketSize and MaxPacketSize bound SetMaxPacketSize.
	MinPacketSize = 100
	MaxPacketSize = 9000

	headerSize     = 12
	descriptorSize = 1
	startBit       = 0x10
)

// Packetizer splits serialized frames into RTP packets.
type Packetizer struct {
	ssrc           uint32
	sequenceNumber uint16
	maxPacketSize  int
}

// NewPacketizer creates a packetizer. A zero ssrc is replaced with a random one.
func NewPacketizer(ssrc uint32) (*Packetizer, error) {
	if ssrc == 0 {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("failed to generate SSRC: %w", err)
		}
		ssrc = binary.BigEndian.Uint32(b[:])
	}

	logrus.WithFields(logrus.Fields{
		"function":        "NewPacketizer",
		"ssrc":            ssrc,
		"payload_type":    PayloadType,
		"max_packet_size": DefaultPacketSize,
	}).Info("RTP packetizer created")

	return &Packetizer{ssrc: ssrc, sequenceNumber: 1, maxPacketSize: DefaultPacketSize}, nil
}

// SSRC returns the stream's synchronization source.
func (p *Packetizer) SSRC() uint32 { return p.ssrc }

// SetMaxPacketSize configures the maximum marshalled packet size.
func (p *Packetizer) SetMaxPacketSize(size int) error {
	if size < MinPacketSize || size > MaxPacketSize {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidPacketSize, size, MinPacketSize, MaxPacketSize)
	}
	p.maxPacketSize = size
	return nil
}

// Packetize splits data into packets sharing timestamp. The first packet
// carries the start bit and the last the marker bit.
func (p *Packetizer) Packetize(data []byte, timestamp uint32) ([]*rtp.Packet, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFrame
	}
	if err := limits.ValidateRecordSize(len(data)); err != nil {
		return nil, err
	}

	chunk := p.maxPacketSize - headerSize - descriptorSize
	count := (len(data) + chunk - 1) / chunk
	packets := make([]*rtp.Packet, count)

	for i := 0; i < count; i++ {
		start := i * chunk
		end := min(start+chunk, len(data))

		payload := make([]byte, descriptorSize+end-start)
		if i == 0 {
			payload[0] = startBit
		}
		copy(payload[descriptorSize:], data[start:end])

		packets[i] = &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         i == count-1,
				PayloadType:    PayloadType,
				SequenceNumber: p.sequenceNumber,
				Timestamp:      timestamp,
				SSRC:           p.ssrc,
			},
			Payload: payload,
		}
		p.sequenceNumber++
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Packetizer.Packetize",
		"timestamp": timestamp,
		"size":      len(data),
		"packets":   count,
	}).Debug("Frame packetized")

	return packets, nil
}

func parsePayload(payload []byte) (start bool, data []byte, err error) {
	if len(payload) < descriptorSize {
		return false, nil, fmt.Errorf("%w: %d bytes", ErrMalformedPayload, len(payload))
	}
	if payload[0]&^startBit != 0 {
		return false, nil, fmt.Errorf("%w: descriptor %#02x", ErrMalformedPayload, payload[0])
	}
	return payload[0]&startBit != 0, payload[descriptorSize:], nil
}
