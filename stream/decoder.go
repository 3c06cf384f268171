package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/limits"
	"github.com/opd-ai/framemodem/symbol"
	"github.com/sirupsen/logrus"
)

// Decoder reconstructs payloads from redundant frame sequences.
type Decoder struct {
	cfg         Config
	bits        int
	demodulator *frame.Demodulator
	scaler      *frame.Scaler
}

// NewDecoder validates cfg and builds the decoder.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := symbol.NewCodec(cfg.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	demodulator, err := frame.NewDemodulator(cfg.Grid, codec)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewDecoder",
		"grid":       cfg.Grid.String(),
		"scheme":     cfg.Scheme.String(),
		"redundancy": cfg.Redundancy,
		"phase_skip": cfg.EffectivePhaseSkip(),
	}).Info("Stream decoder created")

	return &Decoder{
		cfg:         cfg,
		bits:        cfg.Scheme.Bits(),
		demodulator: demodulator,
		scaler:      frame.NewScaler(),
	}, nil
}

// Config returns the decoder's configuration.
func (d *Decoder) Config() Config { return d.cfg }

// DecodeStream reads source until targetLength bytes are reconstructed.
//
// It discards EffectivePhaseSkip frames, then repeatedly samples one frame
// and discards the Redundancy-1 frames after it. The result is exactly
// targetLength bytes; if the source ends first the error wraps
// ErrSourceExhausted and no partial payload is returned.
func (d *Decoder) DecodeStream(ctx context.Context, source FrameSource, targetLength int) ([]byte, error) {
	if err := limits.ValidatePayloadLength(targetLength); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("frame source cannot be nil")
	}

	out := make([]byte, 0, targetLength)
	if targetLength == 0 {
		return out, nil
	}

	read := 0
	if err := d.skip(ctx, source, d.cfg.EffectivePhaseSkip(), &read); err != nil {
		return nil, d.exhausted(err, read, len(out), targetLength)
	}

	usable := d.cfg.SymbolsPerFrame()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := source.ReadFrame()
		if err != nil {
			return nil, d.exhausted(err, read, len(out), targetLength)
		}
		read++

		symbols, err := d.demodulate(f)
		if err != nil {
			return nil, fmt.Errorf("demodulate frame %d: %w", read-1, err)
		}

		chunk := symbol.Unpack(symbols[:usable], d.bits)
		out = append(out, chunk[:min(len(chunk), targetLength-len(out))]...)

		logrus.WithFields(logrus.Fields{
			"function": "Decoder.DecodeStream",
			"frame":    read - 1,
			"decoded":  len(out),
			"target":   targetLength,
		}).Debug("Sampled frame")

		if len(out) == targetLength {
			break
		}

		if err := d.skip(ctx, source, d.cfg.Redundancy-1, &read); err != nil {
			return nil, d.exhausted(err, read, len(out), targetLength)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Decoder.DecodeStream",
		"bytes":       len(out),
		"frames_read": read,
	}).Info("Payload decoded")

	return out, nil
}

// demodulate rescales captures whose size differs from the configured canvas.
func (d *Decoder) demodulate(f *frame.Frame) ([]symbol.Symbol, error) {
	g := d.cfg.Grid
	if f != nil && d.scaler.IsScalingRequired(f.Width, f.Height, g.ActualWidth, g.ActualHeight) {
		logrus.WithFields(logrus.Fields{
			"function": "Decoder.demodulate",
			"captured": fmt.Sprintf("%dx%d", f.Width, f.Height),
			"canvas":   fmt.Sprintf("%dx%d", g.ActualWidth, g.ActualHeight),
		}).Warn("Captured frame size differs from canvas, rescaling")

		scaled, err := d.scaler.Scale(f, g.ActualWidth, g.ActualHeight)
		if err != nil {
			return nil, err
		}
		f = scaled
	}
	return d.demodulator.Demodulate(f)
}

// skip discards n frames.
func (d *Decoder) skip(ctx context.Context, source FrameSource, n int, read *int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := source.ReadFrame(); err != nil {
			return err
		}
		*read++
	}
	return nil
}

// exhausted maps end of stream to ErrSourceExhausted and passes other errors through.
func (d *Decoder) exhausted(err error, read, decoded, target int) error {
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("read frame %d: %w", read, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Decoder.DecodeStream",
		"frames_read": read,
		"decoded":     decoded,
		"target":      target,
	}).Error("Frame source ended before payload was complete")

	return fmt.Errorf("%w: %d of %d bytes after %d frames", ErrSourceExhausted, decoded, target, read)
}
