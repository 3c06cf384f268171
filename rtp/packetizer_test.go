package rtp

import (
	"bytes"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

func TestPacketizer_Packetize(t *testing.T) {
	p, err := NewPacketizer(0x1234)
	require.NoError(t, err)
	chunk := DefaultPacketSize - headerSize - descriptorSize

	tests := []struct {
		name    string
		size    int
		packets int
	}{
		{"single byte", 1, 1},
		{"exactly one packet", chunk, 1},
		{"one byte over", chunk + 1, 2},
		{"many packets", 10*chunk + 3, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packets, err := p.Packetize(testData(tt.size), 9000)
			require.NoError(t, err)
			require.Len(t, packets, tt.packets)

			for i, pkt := range packets {
				assert.Equal(t, uint8(PayloadType), pkt.PayloadType)
				assert.Equal(t, uint32(9000), pkt.Timestamp)
				assert.Equal(t, uint32(0x1234), pkt.SSRC)
				assert.Equal(t, i == len(packets)-1, pkt.Marker)
				assert.Equal(t, i == 0, pkt.Payload[0]&startBit != 0)
				if i > 0 {
					assert.Equal(t, packets[i-1].SequenceNumber+1, pkt.SequenceNumber)
				}

				raw, err := pkt.Marshal()
				require.NoError(t, err)
				assert.LessOrEqual(t, len(raw), DefaultPacketSize)
			}
		})
	}

	_, err = p.Packetize(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestPacketizer_SetMaxPacketSize(t *testing.T) {
	p, err := NewPacketizer(0)
	require.NoError(t, err)
	assert.NotZero(t, p.SSRC())

	assert.ErrorIs(t, p.SetMaxPacketSize(MinPacketSize-1), ErrInvalidPacketSize)
	assert.ErrorIs(t, p.SetMaxPacketSize(MaxPacketSize+1), ErrInvalidPacketSize)
	require.NoError(t, p.SetMaxPacketSize(MinPacketSize))

	packets, err := p.Packetize(testData(500), 0)
	require.NoError(t, err)
	assert.Len(t, packets, 6)
}

func pushAll(t *testing.T, d *Depacketizer, packets []*rtp.Packet) [][]byte {
	t.Helper()
	var frames [][]byte
	for _, pkt := range packets {
		out, err := d.Push(pkt)
		require.NoError(t, err)
		frames = append(frames, out...)
	}
	return frames
}

func TestDepacketizer_Reassembly(t *testing.T) {
	data := testData(5000)

	tests := []struct {
		name    string
		reorder func([]*rtp.Packet) []*rtp.Packet
		want    int
	}{
		{"in order", func(p []*rtp.Packet) []*rtp.Packet { return p }, 1},
		{"reversed", func(p []*rtp.Packet) []*rtp.Packet {
			out := make([]*rtp.Packet, len(p))
			for i := range p {
				out[len(p)-1-i] = p[i]
			}
			return out
		}, 1},
		{"marker before middle", func(p []*rtp.Packet) []*rtp.Packet {
			return []*rtp.Packet{p[0], p[len(p)-1], p[2], p[1], p[3]}
		}, 1},
		{"duplicate packet", func(p []*rtp.Packet) []*rtp.Packet {
			return append([]*rtp.Packet{p[1]}, p...)
		}, 1},
		{"missing middle packet", func(p []*rtp.Packet) []*rtp.Packet {
			return append(append([]*rtp.Packet{}, p[:2]...), p[3:]...)
		}, 0},
		{"missing start packet", func(p []*rtp.Packet) []*rtp.Packet { return p[1:] }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPacketizer(7)
			require.NoError(t, err)
			packets, err := p.Packetize(data, 3000)
			require.NoError(t, err)
			require.Len(t, packets, 5)

			d := NewDepacketizer()
			frames := pushAll(t, d, tt.reorder(packets))
			require.Len(t, frames, tt.want)
			if tt.want == 1 {
				assert.True(t, bytes.Equal(data, frames[0]))
				assert.Equal(t, 0, d.Pending())
			} else {
				assert.Equal(t, 1, d.Pending())
			}
		})
	}
}

func TestDepacketizer_SequenceWraparound(t *testing.T) {
	p, err := NewPacketizer(7)
	require.NoError(t, err)
	p.sequenceNumber = 0xFFFE

	data := testData(4000)
	packets, err := p.Packetize(data, 0)
	require.NoError(t, err)
	require.Len(t, packets, 4)
	assert.Equal(t, uint16(1), packets[3].SequenceNumber)

	frames := pushAll(t, NewDepacketizer(), []*rtp.Packet{packets[3], packets[1], packets[0], packets[2]})
	require.Len(t, frames, 1)
	assert.Equal(t, data, frames[0])
}

func TestDepacketizer_IgnoresForeignSSRC(t *testing.T) {
	a, err := NewPacketizer(1)
	require.NoError(t, err)
	b, err := NewPacketizer(2)
	require.NoError(t, err)

	first, err := a.Packetize([]byte{1, 2, 3}, 0)
	require.NoError(t, err)
	foreign, err := b.Packetize([]byte{4, 5, 6}, 3000)
	require.NoError(t, err)

	frames := pushAll(t, NewDepacketizer(), append(first, foreign...))
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{1, 2, 3}, frames[0])
}

func TestDepacketizer_RejectsMalformed(t *testing.T) {
	d := NewDepacketizer()

	_, err := d.Push(&rtp.Packet{Header: rtp.Header{PayloadType: 0}, Payload: []byte{startBit}})
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = d.Push(&rtp.Packet{Header: rtp.Header{PayloadType: PayloadType}})
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = d.Push(&rtp.Packet{Header: rtp.Header{PayloadType: PayloadType}, Payload: []byte{0xFF, 1}})
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

type mockTime struct{ now time.Time }

func (m *mockTime) Now() time.Time { return m.now }

func TestDepacketizer_Eviction(t *testing.T) {
	clock := &mockTime{now: time.Unix(1000, 0)}
	d := NewDepacketizerWithTimeProvider(clock)
	p, err := NewPacketizer(9)
	require.NoError(t, err)

	// leave MaxPendingFrames assemblies waiting for their marker
	for i := 0; i < MaxPendingFrames; i++ {
		packets, err := p.Packetize(testData(3000), uint32(i*3000))
		require.NoError(t, err)
		pushAll(t, d, packets[:1])
		clock.now = clock.now.Add(100 * time.Millisecond)
	}
	assert.Equal(t, MaxPendingFrames, d.Pending())

	// buffer full and nothing stale: the oldest is evicted and the new
	// frame waits behind the live assemblies before it
	complete, err := p.Packetize(testData(10), 99000)
	require.NoError(t, err)
	frames := pushAll(t, d, complete)
	assert.Empty(t, frames)
	assert.Equal(t, MaxPendingFrames, d.Pending())

	extra, err := p.Packetize(testData(3000), 120000)
	require.NoError(t, err)
	pushAll(t, d, extra[:1])
	assert.Equal(t, MaxPendingFrames, d.Pending())

	// once the partial frames go stale the held frame is released
	clock.now = clock.now.Add(AssemblyTimeout + time.Minute)
	late, err := p.Packetize(testData(3000), 150000)
	require.NoError(t, err)
	frames = pushAll(t, d, late[:1])
	require.Len(t, frames, 1)
	assert.Equal(t, testData(10), frames[0])
	assert.Equal(t, 1, d.Pending())
}

func TestDepacketizer_DeliversInTimestampOrder(t *testing.T) {
	p, err := NewPacketizer(5)
	require.NoError(t, err)
	require.NoError(t, p.SetMaxPacketSize(100))

	first := testData(200)
	a, err := p.Packetize(first, 0)
	require.NoError(t, err)
	require.Len(t, a, 3)
	b, err := p.Packetize([]byte{9, 8, 7}, 3000)
	require.NoError(t, err)
	require.Len(t, b, 1)

	d := NewDepacketizer()

	// the later frame completes while the earlier one still lacks its marker
	frames := pushAll(t, d, []*rtp.Packet{a[0], a[1], b[0]})
	assert.Empty(t, frames)
	assert.Equal(t, 2, d.Pending())

	frames = pushAll(t, d, a[2:])
	require.Len(t, frames, 2)
	assert.Equal(t, first, frames[0])
	assert.Equal(t, []byte{9, 8, 7}, frames[1])
	assert.Equal(t, 0, d.Pending())

	// retransmissions of delivered frames are not delivered again
	frames = pushAll(t, d, []*rtp.Packet{a[0], a[1], a[2], b[0]})
	assert.Empty(t, frames)
	assert.Equal(t, 0, d.Pending())
}

func TestDepacketizer_ReleasesPastStaleFrame(t *testing.T) {
	clock := &mockTime{now: time.Unix(1000, 0)}
	d := NewDepacketizerWithTimeProvider(clock)
	p, err := NewPacketizer(5)
	require.NoError(t, err)

	lost, err := p.Packetize(testData(3000), 0)
	require.NoError(t, err)
	held, err := p.Packetize([]byte{1}, 3000)
	require.NoError(t, err)
	next, err := p.Packetize(testData(3000), 6000)
	require.NoError(t, err)

	assert.Empty(t, pushAll(t, d, lost[:1]))
	assert.Empty(t, pushAll(t, d, held))

	clock.now = clock.now.Add(AssemblyTimeout + time.Second)
	frames := pushAll(t, d, next[:1])
	require.Len(t, frames, 1)
	assert.Equal(t, []byte{1}, frames[0])
	assert.Equal(t, 1, d.Pending())

	// packets of the dropped frame arriving afterwards are discarded
	assert.Empty(t, pushAll(t, d, lost[1:]))
	assert.Equal(t, 1, d.Pending())
}

func TestDepacketizer_Flush(t *testing.T) {
	d := NewDepacketizer()
	p, err := NewPacketizer(5)
	require.NoError(t, err)

	partial, err := p.Packetize(testData(3000), 0)
	require.NoError(t, err)
	second, err := p.Packetize([]byte{2}, 6000)
	require.NoError(t, err)
	first, err := p.Packetize([]byte{1}, 3000)
	require.NoError(t, err)

	assert.Empty(t, pushAll(t, d, partial[:1]))
	assert.Empty(t, pushAll(t, d, second))
	assert.Empty(t, pushAll(t, d, first))
	assert.Equal(t, 3, d.Pending())

	assert.Equal(t, [][]byte{{1}, {2}}, d.Flush())
	assert.Equal(t, 0, d.Pending())
	assert.Empty(t, d.Flush())
}

func TestTimestampOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b uint32
		want bool
	}{
		{"earlier", 0, 3000, true},
		{"later", 3000, 0, false},
		{"equal", 3000, 3000, false},
		{"across wraparound", 0xFFFFF000, 0x00000100, true},
		{"behind wraparound", 0x00000100, 0xFFFFF000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tsBefore(tt.a, tt.b))
		})
	}
}
