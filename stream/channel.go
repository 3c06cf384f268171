package stream

import (
	"io"
	"sync"

	"github.com/opd-ai/framemodem/frame"
)

// FrameSink accepts frames in order.
type FrameSink interface {
	WriteFrame(f *frame.Frame) error
}

// FrameSource yields frames in write order and io.EOF at end of stream.
type FrameSource interface {
	ReadFrame() (*frame.Frame, error)
}

// Channel is an in-memory FIFO sink and source. An optional impairment
// chain distorts each frame on write, standing in for a lossy transcoder.
type Channel struct {
	mu     sync.Mutex
	frames []*frame.Frame
	chain  *frame.ImpairmentChain
}

// NewChannel creates a lossless channel, or a lossy one when impairments are given.
func NewChannel(impairments ...frame.Impairment) *Channel {
	return &Channel{chain: frame.NewImpairmentChain(impairments...)}
}

// WriteFrame appends a frame, applying the impairment chain first.
func (c *Channel) WriteFrame(f *frame.Frame) error {
	if f == nil {
		return frame.ErrNilFrame
	}
	if c.chain.GetImpairmentCount() > 0 {
		impaired, err := c.chain.Apply(f)
		if err != nil {
			return err
		}
		f = impaired
	}

	c.mu.Lock()
	c.frames = append(c.frames, f)
	c.mu.Unlock()
	return nil
}

// ReadFrame removes and returns the oldest frame, or io.EOF when empty.
func (c *Channel) ReadFrame() (*frame.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.frames) == 0 {
		return nil, io.EOF
	}
	f := c.frames[0]
	c.frames[0] = nil
	c.frames = c.frames[1:]
	return f, nil
}

// Len returns the number of queued frames.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// Discard drops up to n queued frames, simulating a decoder that joined
// the stream late. It returns the number dropped.
func (c *Channel) Discard(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n = min(n, len(c.frames))
	c.frames = c.frames[n:]
	return n
}

var (
	_ FrameSink   = (*Channel)(nil)
	_ FrameSource = (*Channel)(nil)
)
