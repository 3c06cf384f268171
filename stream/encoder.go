package stream

import (
	"context"
	"fmt"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/symbol"
	"github.com/sirupsen/logrus"
)

// Stats summarizes one encode run.
type Stats struct {
	Bytes         int // payload bytes consumed
	Batches       int // distinct frames composed
	FramesWritten int // frames written including repeats
}

// Encoder turns payloads into redundant frame sequences.
type Encoder struct {
	cfg        Config
	bits       int
	compositor *frame.Compositor
}

// NewEncoder validates cfg and builds the encoder.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := symbol.NewCodec(cfg.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	compositor, err := frame.NewCompositor(cfg.Grid, codec)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":        "NewEncoder",
		"grid":            cfg.Grid.String(),
		"scheme":          cfg.Scheme.String(),
		"redundancy":      cfg.Redundancy,
		"bytes_per_frame": cfg.BytesPerFrame(),
	}).Info("Stream encoder created")

	return &Encoder{cfg: cfg, bits: cfg.Scheme.Bits(), compositor: compositor}, nil
}

// Config returns the encoder's configuration.
func (e *Encoder) Config() Config { return e.cfg }

// EncodeStream writes data to sink as frames, each repeated Redundancy
// times. An empty payload writes nothing. Only sink errors and ctx
// cancellation fail the run.
func (e *Encoder) EncodeStream(ctx context.Context, data []byte, sink FrameSink) (Stats, error) {
	var stats Stats
	if sink == nil {
		return stats, fmt.Errorf("frame sink cannot be nil")
	}

	perFrame := e.cfg.BytesPerFrame()
	for stats.Bytes < len(data) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		chunk := data[stats.Bytes:min(stats.Bytes+perFrame, len(data))]
		symbols := symbol.Pack(chunk, e.bits)
		f, consumed := e.compositor.Compose(symbols)

		for r := 0; r < e.cfg.Redundancy; r++ {
			if err := sink.WriteFrame(f); err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "Encoder.EncodeStream",
					"batch":    stats.Batches,
					"repeat":   r,
					"error":    err.Error(),
				}).Error("Failed to write frame")
				return stats, fmt.Errorf("write frame %d (batch %d): %w", stats.FramesWritten, stats.Batches, err)
			}
			stats.FramesWritten++
		}

		stats.Bytes += consumed / symbol.SymbolsPerByte(e.bits)
		stats.Batches++

		logrus.WithFields(logrus.Fields{
			"function": "Encoder.EncodeStream",
			"batch":    stats.Batches,
			"consumed": consumed,
			"offset":   stats.Bytes,
			"total":    len(data),
		}).Debug("Batch written")
	}

	logrus.WithFields(logrus.Fields{
		"function":       "Encoder.EncodeStream",
		"bytes":          stats.Bytes,
		"batches":        stats.Batches,
		"frames_written": stats.FramesWritten,
	}).Info("Payload encoded")

	return stats, nil
}
