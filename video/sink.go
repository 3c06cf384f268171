package video

import (
	"fmt"

	vidio "github.com/AlexEidt/Vidio"
	"github.com/opd-ai/framemodem/frame"
	"github.com/sirupsen/logrus"
)

// WriterOptions controls the encoded output file.
type WriterOptions struct {
	FPS     float64 // frames per second
	Quality float64 // 0 best to 1 worst, used when Bitrate is zero
	Bitrate int     // bits per second; zero selects Quality
	Codec   string  // ffmpeg codec name; empty selects ffmpeg's default for the container
}

// DefaultWriterOptions returns 30 fps at the best quality.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{FPS: 30, Quality: 0}
}

// FileSink encodes frames into a video file.
type FileSink struct {
	writer *vidio.VideoWriter
	path   string
	width  int
	height int
	frames int
}

// Create starts an ffmpeg encode of width x height frames into path.
func Create(path string, width, height int, opts WriterOptions) (*FileSink, error) {
	writer, err := vidio.NewVideoWriter(path, width, height, &vidio.Options{
		FPS:     opts.FPS,
		Quality: opts.Quality,
		Bitrate: opts.Bitrate,
		Codec:   opts.Codec,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "video.Create",
			"path":     path,
			"error":    err.Error(),
		}).Error("Failed to start video writer")
		return nil, fmt.Errorf("create video %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "video.Create",
		"path":     path,
		"width":    width,
		"height":   height,
		"fps":      opts.FPS,
		"codec":    writer.Codec(),
	}).Info("Video writer started")

	return &FileSink{writer: writer, path: path, width: width, height: height}, nil
}

// WriteFrame converts f to RGBA and hands it to the encoder.
func (s *FileSink) WriteFrame(f *frame.Frame) error {
	if f == nil {
		return frame.ErrNilFrame
	}
	if f.Width != s.width || f.Height != s.height {
		return fmt.Errorf("%w: frame %dx%d, video %dx%d",
			frame.ErrFrameSizeMismatch, f.Width, f.Height, s.width, s.height)
	}
	if err := s.writer.Write(frame.ToRGBA(f).Pix); err != nil {
		return fmt.Errorf("write video frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

// Frames returns the number of frames written.
func (s *FileSink) Frames() int { return s.frames }

// Close finishes the encode and waits for ffmpeg to exit.
func (s *FileSink) Close() error {
	s.writer.Close()

	logrus.WithFields(logrus.Fields{
		"function": "FileSink.Close",
		"path":     s.path,
		"frames":   s.frames,
	}).Info("Video writer closed")
	return nil
}
