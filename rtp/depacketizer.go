package rtp

import (
	"fmt"
	"sort"
	"time"

	"github.com/opd-ai/framemodem/limits"
	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
)

const (
	// MaxPendingFrames bounds the number of incomplete or held frames.
	MaxPendingFrames = 10

	// AssemblyTimeout evicts assemblies that stopped receiving packets.
	AssemblyTimeout = 5 * time.Second
)

// TimeProvider abstracts time for deterministic testing.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the standard library clock.
type DefaultTimeProvider struct{}

// Now returns the current time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }

type assembly struct {
	timestamp     uint32
	packets       []*rtp.Packet
	size          int
	lastActivity  time.Time
	hasStart      bool
	startSequence uint16
	hasMarker     bool
	frame         []byte // reassembled payload held until older frames resolve
}

// Depacketizer reassembles frames from RTP packets.
type Depacketizer struct {
	assemblies   map[uint32]*assembly
	ssrc         uint32
	hasSSRC      bool
	last         uint32 // timestamp of the last delivered frame
	hasLast      bool
	timeProvider TimeProvider
}

// NewDepacketizer creates a depacketizer using the wall clock.
func NewDepacketizer() *Depacketizer {
	return NewDepacketizerWithTimeProvider(DefaultTimeProvider{})
}

// NewDepacketizerWithTimeProvider creates a depacketizer with a custom clock.
func NewDepacketizerWithTimeProvider(tp TimeProvider) *Depacketizer {
	return &Depacketizer{
		assemblies:   make(map[uint32]*assembly),
		timeProvider: tp,
	}
}

// Pending returns the number of frames received in part or held for
// ordering but not yet delivered.
func (d *Depacketizer) Pending() int { return len(d.assemblies) }

// Push adds a packet and returns the frames it releases, oldest first.
//
// Frames are delivered in timestamp order. A completed frame is held while
// an older assembly is still receiving packets within AssemblyTimeout; a
// stale older assembly is dropped. Packets for a timestamp at or before
// the last delivered frame are discarded, as are packets from a second SSRC.
func (d *Depacketizer) Push(packet *rtp.Packet) ([][]byte, error) {
	if packet.PayloadType != PayloadType {
		return nil, fmt.Errorf("%w: payload type %d", ErrMalformedPayload, packet.PayloadType)
	}
	if !d.hasSSRC {
		d.ssrc, d.hasSSRC = packet.SSRC, true
	} else if packet.SSRC != d.ssrc {
		logrus.WithFields(logrus.Fields{
			"function":      "Depacketizer.Push",
			"expected_ssrc": d.ssrc,
			"received_ssrc": packet.SSRC,
		}).Warn("Ignoring packet from unexpected SSRC")
		return nil, nil
	}

	start, data, err := parsePayload(packet.Payload)
	if err != nil {
		return nil, err
	}

	if d.hasLast && !tsBefore(d.last, packet.Timestamp) {
		logrus.WithFields(logrus.Fields{
			"function":       "Depacketizer.Push",
			"timestamp":      packet.Timestamp,
			"last_delivered": d.last,
			"sequence":       packet.SequenceNumber,
		}).Debug("Discarding packet for an already delivered frame")
		return nil, nil
	}

	a := d.assemblyFor(packet.Timestamp)
	if a.frame != nil {
		// duplicate of a frame already reassembled and held
		return d.release(), nil
	}
	a.packets = append(a.packets, packet)
	a.size += len(data)
	a.lastActivity = d.timeProvider.Now()
	if start {
		a.hasStart, a.startSequence = true, packet.SequenceNumber
	}
	if packet.Marker {
		a.hasMarker = true
	}
	if err := limits.ValidateRecordSize(a.size); err != nil {
		delete(d.assemblies, a.timestamp)
		return nil, err
	}

	if a.hasStart && a.hasMarker {
		if frame, ok := a.reassemble(); ok {
			a.frame, a.packets = frame, nil
		}
	}
	return d.release(), nil
}

// Flush releases every held frame in timestamp order and drops incomplete
// assemblies. Sources call it once the sender has gone quiet.
func (d *Depacketizer) Flush() [][]byte {
	var frames [][]byte
	for len(d.assemblies) > 0 {
		a := d.oldest()
		if a.frame == nil {
			d.drop(a.timestamp, "flushed incomplete")
			continue
		}
		frames = append(frames, d.deliver(a))
	}
	return frames
}

// release delivers held frames from the oldest pending timestamp forward,
// stopping at the first incomplete assembly that is still live.
func (d *Depacketizer) release() [][]byte {
	var frames [][]byte
	cutoff := d.timeProvider.Now().Add(-AssemblyTimeout)
	for len(d.assemblies) > 0 {
		a := d.oldest()
		if a.frame != nil {
			frames = append(frames, d.deliver(a))
			continue
		}
		if !a.lastActivity.Before(cutoff) || !d.hasHeldFrame() {
			break
		}
		d.drop(a.timestamp, "stale")
	}
	return frames
}

func (d *Depacketizer) deliver(a *assembly) []byte {
	delete(d.assemblies, a.timestamp)
	d.last, d.hasLast = a.timestamp, true
	return a.frame
}

func (d *Depacketizer) hasHeldFrame() bool {
	for _, a := range d.assemblies {
		if a.frame != nil {
			return true
		}
	}
	return false
}

// oldest returns the pending assembly with the earliest timestamp.
func (d *Depacketizer) oldest() *assembly {
	var oldest *assembly
	for _, a := range d.assemblies {
		if oldest == nil || tsBefore(a.timestamp, oldest.timestamp) {
			oldest = a
		}
	}
	return oldest
}

func (d *Depacketizer) assemblyFor(timestamp uint32) *assembly {
	if a, ok := d.assemblies[timestamp]; ok {
		return a
	}
	if len(d.assemblies) >= MaxPendingFrames {
		d.evictStale()
		if len(d.assemblies) >= MaxPendingFrames {
			d.evictOldest()
		}
	}
	a := &assembly{timestamp: timestamp}
	d.assemblies[timestamp] = a
	return a
}

func (d *Depacketizer) evictStale() {
	cutoff := d.timeProvider.Now().Add(-AssemblyTimeout)
	for ts, a := range d.assemblies {
		if a.frame == nil && a.lastActivity.Before(cutoff) {
			d.drop(ts, "stale")
		}
	}
}

// evictOldest drops the earliest pending timestamp, which release keeps
// incomplete, so held frames behind it can move.
func (d *Depacketizer) evictOldest() {
	if a := d.oldest(); a != nil {
		d.drop(a.timestamp, "buffer full")
	}
}

func (d *Depacketizer) drop(timestamp uint32, reason string) {
	a := d.assemblies[timestamp]
	delete(d.assemblies, timestamp)

	logrus.WithFields(logrus.Fields{
		"function":  "Depacketizer.drop",
		"timestamp": timestamp,
		"packets":   len(a.packets),
		"reason":    reason,
	}).Warn("Dropped incomplete frame")
}

// reassemble concatenates the payloads from the start packet through the
// marker packet when the sequence numbers between them are contiguous.
func (a *assembly) reassemble() ([]byte, bool) {
	packets := append([]*rtp.Packet(nil), a.packets...)
	sort.Slice(packets, func(i, j int) bool {
		return seqDistance(a.startSequence, packets[i].SequenceNumber) <
			seqDistance(a.startSequence, packets[j].SequenceNumber)
	})

	if packets[0].SequenceNumber != a.startSequence {
		return nil, false
	}
	out := make([]byte, 0, a.size)
	expected := a.startSequence
	for _, p := range packets {
		if p.SequenceNumber != expected {
			// duplicate of an already consumed packet
			if seqDistance(a.startSequence, p.SequenceNumber) < seqDistance(a.startSequence, expected) {
				continue
			}
			return nil, false
		}
		_, data, _ := parsePayload(p.Payload)
		out = append(out, data...)
		if p.Marker {
			return out, true
		}
		expected++
	}
	return nil, false
}

// tsBefore reports whether RTP timestamp a precedes b with 32-bit wraparound.
func tsBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// seqDistance is the forward distance from a to b with 16-bit wraparound.
func seqDistance(a, b uint16) uint16 {
	return b - a
}
