package rtp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/opd-ai/framemodem/frame"
	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultFrameRate sets the timestamp step between frames.
	DefaultFrameRate = 30

	// DefaultIdleTimeout ends a Source that has stopped receiving packets.
	DefaultIdleTimeout = 2 * time.Second

	receiveBufferSize = MaxPacketSize + 512
)

// Sink sends frames to a remote address.
type Sink struct {
	conn       net.PacketConn
	remote     net.Addr
	packetizer *Packetizer
	timestamp  uint32
	step       uint32
	ownsConn   bool
	frames     int
}

// NewSink sends frames over conn to remote. The caller keeps ownership of conn.
func NewSink(conn net.PacketConn, remote net.Addr) (*Sink, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection cannot be nil")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote address cannot be nil")
	}
	packetizer, err := NewPacketizer(0)
	if err != nil {
		return nil, err
	}
	return &Sink{
		conn:       conn,
		remote:     remote,
		packetizer: packetizer,
		step:       ClockRate / DefaultFrameRate,
	}, nil
}

// Dial opens a UDP socket that sends to address (host:port).
func Dial(address string) (*Sink, error) {
	remote, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", address, err)
	}
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("open UDP socket: %w", err)
	}
	sink, err := NewSink(conn, remote)
	if err != nil {
		conn.Close()
		return nil, err
	}
	sink.ownsConn = true

	logrus.WithFields(logrus.Fields{
		"function": "rtp.Dial",
		"local":    conn.LocalAddr().String(),
		"remote":   remote.String(),
		"ssrc":     sink.packetizer.SSRC(),
	}).Info("RTP sink ready")

	return sink, nil
}

// SetFrameRate sets the timestamp step used between consecutive frames.
func (s *Sink) SetFrameRate(fps int) error {
	if fps <= 0 || fps > ClockRate {
		return fmt.Errorf("invalid frame rate: %d", fps)
	}
	s.step = uint32(ClockRate / fps)
	return nil
}

// Packetizer exposes the sink's packetizer for tuning the packet size.
func (s *Sink) Packetizer() *Packetizer { return s.packetizer }

// WriteFrame serializes, packetizes and sends one frame.
func (s *Sink) WriteFrame(f *frame.Frame) error {
	if f == nil {
		return frame.ErrNilFrame
	}
	data, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	packets, err := s.packetizer.Packetize(data, s.timestamp)
	if err != nil {
		return err
	}

	for _, p := range packets {
		raw, err := p.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal RTP packet: %w", err)
		}
		if _, err := s.conn.WriteTo(raw, s.remote); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Sink.WriteFrame",
				"frame":    s.frames,
				"sequence": p.SequenceNumber,
				"error":    err.Error(),
			}).Error("Failed to send RTP packet")
			return fmt.Errorf("send frame %d: %w", s.frames, err)
		}
	}

	s.timestamp += s.step
	s.frames++
	return nil
}

// Close closes the socket if the sink opened it.
func (s *Sink) Close() error {
	if s.ownsConn {
		return s.conn.Close()
	}
	return nil
}

// Source receives frames from a PacketConn.
type Source struct {
	conn         net.PacketConn
	depacketizer *Depacketizer
	idleTimeout  time.Duration
	buf          []byte
	ready        [][]byte // released frames awaiting ReadFrame
	drained      bool     // idle timeout hit and held frames flushed
	ownsConn     bool
	frames       int
}

// NewSource reads frames from conn. The caller keeps ownership of conn.
// A zero idleTimeout blocks until a packet or a socket error arrives.
func NewSource(conn net.PacketConn, idleTimeout time.Duration) (*Source, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection cannot be nil")
	}
	return &Source{
		conn:         conn,
		depacketizer: NewDepacketizer(),
		idleTimeout:  idleTimeout,
		buf:          make([]byte, receiveBufferSize),
	}, nil
}

// Listen binds a UDP socket on address (host:port).
func Listen(address string, idleTimeout time.Duration) (*Source, error) {
	conn, err := net.ListenPacket("udp", address)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", address, err)
	}
	source, err := NewSource(conn, idleTimeout)
	if err != nil {
		conn.Close()
		return nil, err
	}
	source.ownsConn = true

	logrus.WithFields(logrus.Fields{
		"function":     "rtp.Listen",
		"local":        conn.LocalAddr().String(),
		"idle_timeout": idleTimeout.String(),
	}).Info("RTP source listening")

	return source, nil
}

// LocalAddr returns the address the source receives on.
func (s *Source) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// ReadFrame blocks until the next frame in timestamp order is available.
// When no packet arrives within the idle timeout, frames still held for
// ordering are returned first and io.EOF after them.
func (s *Source) ReadFrame() (*frame.Frame, error) {
	for {
		if f, ok := s.nextReady(); ok {
			return f, nil
		}
		if s.drained {
			return nil, io.EOF
		}

		if s.idleTimeout > 0 {
			if err := s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
				return nil, fmt.Errorf("set read deadline: %w", err)
			}
		}

		n, _, err := s.conn.ReadFrom(s.buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				logrus.WithFields(logrus.Fields{
					"function":     "Source.ReadFrame",
					"frames":       s.frames,
					"pending":      s.depacketizer.Pending(),
					"idle_timeout": s.idleTimeout.String(),
				}).Info("RTP source idle, ending stream")
				s.ready = append(s.ready, s.depacketizer.Flush()...)
				s.drained = true
				continue
			}
			return nil, fmt.Errorf("receive packet: %w", err)
		}

		packet := &rtp.Packet{}
		if err := packet.Unmarshal(s.buf[:n]); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Source.ReadFrame",
				"size":     n,
				"error":    err.Error(),
			}).Warn("Discarding unparseable RTP packet")
			continue
		}
		// Unmarshal aliases the receive buffer.
		packet.Payload = append([]byte(nil), packet.Payload...)

		released, err := s.depacketizer.Push(packet)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Source.ReadFrame",
				"sequence": packet.SequenceNumber,
				"error":    err.Error(),
			}).Warn("Discarding RTP packet")
			continue
		}
		s.ready = append(s.ready, released...)
	}
}

// nextReady decodes the oldest released frame, skipping undecodable ones.
func (s *Source) nextReady() (*frame.Frame, bool) {
	for len(s.ready) > 0 {
		data := s.ready[0]
		s.ready[0] = nil
		s.ready = s.ready[1:]

		f := &frame.Frame{}
		if err := f.UnmarshalBinary(data); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Source.nextReady",
				"frame":    s.frames,
				"error":    err.Error(),
			}).Warn("Discarding undecodable frame")
			continue
		}
		s.frames++
		return f, true
	}
	return nil, false
}

// Close closes the socket if the source opened it.
func (s *Source) Close() error {
	if s.ownsConn {
		return s.conn.Close()
	}
	return nil
}
