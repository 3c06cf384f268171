package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/record"
	"github.com/opd-ai/framemodem/rtp"
	"github.com/opd-ai/framemodem/video"
)

// UDPScheme prefixes RTP endpoints.
const UDPScheme = "udp://"

// Kind identifies the endpoint a target string selects.
type Kind int

const (
	KindVideo Kind = iota
	KindRecord
	KindRTP
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindRTP:
		return "rtp"
	case KindCamera:
		return "camera"
	default:
		return "video"
	}
}

// Classify maps a target to its endpoint kind and address: "*.fmr" is a
// recording, "udp://host:port" is RTP, a bare integer is a camera index
// and anything else is a video file.
func Classify(target string) (Kind, string) {
	switch {
	case strings.HasPrefix(target, UDPScheme):
		return KindRTP, strings.TrimPrefix(target, UDPScheme)
	case strings.HasSuffix(strings.ToLower(target), record.FileExtension):
		return KindRecord, target
	}
	if _, err := strconv.Atoi(target); err == nil {
		return KindCamera, target
	}
	return KindVideo, target
}

// Sink is a frame sink the command must close.
type Sink interface {
	WriteFrame(f *frame.Frame) error
	Close() error
}

// Source is a frame source the command must close.
type Source interface {
	ReadFrame() (*frame.Frame, error)
	Close() error
}

// OpenSink opens the output endpoint for width x height frames.
func OpenSink(target string, width, height int, fps float64) (Sink, error) {
	kind, addr := Classify(target)
	switch kind {
	case KindRecord:
		sink, err := record.Create(addr, width, height)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case KindRTP:
		sink, err := rtp.Dial(addr)
		if err != nil {
			return nil, err
		}
		if err := sink.SetFrameRate(int(fps)); err != nil {
			sink.Close()
			return nil, err
		}
		return sink, nil
	case KindCamera:
		return nil, fmt.Errorf("camera %s cannot be an output", addr)
	default:
		opts := video.DefaultWriterOptions()
		opts.FPS = fps
		sink, err := video.Create(addr, width, height, opts)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
}

// OpenSource opens the input endpoint. idle bounds how long an RTP source
// waits for packets before reporting end of stream.
func OpenSource(target string, idle time.Duration) (Source, error) {
	var (
		source Source
		err    error
	)
	kind, addr := Classify(target)
	switch kind {
	case KindRecord:
		source, err = openAs(record.Open(addr))
	case KindRTP:
		source, err = openAs(rtp.Listen(addr, idle))
	case KindCamera:
		index, _ := strconv.Atoi(addr)
		source, err = openAs(video.OpenCamera(index))
	default:
		source, err = openAs(video.Open(addr))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s source %q: %w", kind, target, err)
	}
	return source, nil
}

// openAs drops typed nil results so a failed open yields a nil Source.
func openAs[S Source](s S, err error) (Source, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
