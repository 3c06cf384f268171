package record

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/limits"
	"github.com/sirupsen/logrus"
)

// Writer appends frame records to an io.Writer.
type Writer struct {
	w      *bufio.Writer
	header Header
	count  int
}

// NewWriter writes the recording header for width x height frames.
func NewWriter(w io.Writer, width, height int) (*Writer, error) {
	header := Header{Version: Version, Width: width, Height: height}
	buf, err := header.marshal()
	if err != nil {
		return nil, err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(buf); err != nil {
		return nil, fmt.Errorf("write recording header: %w", err)
	}
	return &Writer{w: bw, header: header}, nil
}

// Header returns the recording header.
func (w *Writer) Header() Header { return w.header }

// Count returns the number of frames written.
func (w *Writer) Count() int { return w.count }

// WriteFrame appends one record. The frame must match the header dimensions.
func (w *Writer) WriteFrame(f *frame.Frame) error {
	if f == nil {
		return frame.ErrNilFrame
	}
	if f.Width != w.header.Width || f.Height != w.header.Height {
		return fmt.Errorf("%w: frame %dx%d, recording %dx%d",
			frame.ErrFrameSizeMismatch, f.Width, f.Height, w.header.Width, w.header.Height)
	}

	payload := f.CompressPix()
	if err := limits.ValidateRecordSize(len(payload)); err != nil {
		return err
	}

	var prefix [recordHeaderSize]byte
	binary.BigEndian.PutUint32(prefix[0:4], uint32(len(payload)))
	binary.BigEndian.PutUint32(prefix[4:8], checksum(payload))
	if _, err := w.w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write record %d: %w", w.count, err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return fmt.Errorf("write record %d: %w", w.count, err)
	}
	w.count++

	logrus.WithFields(logrus.Fields{
		"function":   "Writer.WriteFrame",
		"record":     w.count - 1,
		"raw":        len(f.Pix),
		"compressed": len(payload),
	}).Debug("Frame record written")

	return nil
}

// Flush writes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// FileSink writes a recording to a file.
type FileSink struct {
	*Writer
	file *os.File
}

// Create creates or truncates path and writes the recording header.
func Create(path string, width, height int) (*FileSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	w, err := NewWriter(file, width, height)
	if err != nil {
		file.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "record.Create",
		"path":     path,
		"width":    width,
		"height":   height,
	}).Info("Recording created")

	return &FileSink{Writer: w, file: file}, nil
}

// Close flushes buffered records and closes the file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush recording: %w", err)
	}
	return s.file.Close()
}
