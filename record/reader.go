package record

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/opd-ai/framemodem/frame"
	"github.com/opd-ai/framemodem/limits"
	"github.com/sirupsen/logrus"
)

// Reader reads frame records from an io.Reader.
type Reader struct {
	r      *bufio.Reader
	header Header
	count  int
}

// NewReader reads and validates the recording header.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(br, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: input ends before header", ErrBadMagic)
		}
		return nil, fmt.Errorf("read recording header: %w", err)
	}
	header, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}
	return &Reader{r: br, header: header}, nil
}

// Header returns the recording header.
func (r *Reader) Header() Header { return r.header }

// ReadFrame returns the next frame, or io.EOF after the last complete record.
func (r *Reader) ReadFrame() (*frame.Frame, error) {
	var prefix [recordHeaderSize]byte
	if _, err := io.ReadFull(r.r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, r.readError(err)
	}

	size := int(binary.BigEndian.Uint32(prefix[0:4]))
	if err := limits.ValidateRecordSize(size); err != nil {
		return nil, fmt.Errorf("record %d: %w", r.count, err)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, r.readError(err)
	}

	want := binary.BigEndian.Uint32(prefix[4:8])
	if got := checksum(payload); got != want {
		logrus.WithFields(logrus.Fields{
			"function": "Reader.ReadFrame",
			"record":   r.count,
			"expected": want,
			"computed": got,
		}).Warn("Frame record checksum mismatch")
		return nil, fmt.Errorf("%w: record %d crc %08x, expected %08x", ErrCorruptRecord, r.count, got, want)
	}

	f, err := frame.DecompressPix(r.header.Width, r.header.Height, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: record %d: %v", ErrCorruptRecord, r.count, err)
	}
	r.count++
	return f, nil
}

func (r *Reader) readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: record %d", ErrTruncatedRecord, r.count)
	}
	return fmt.Errorf("read record %d: %w", r.count, err)
}

// FileSource reads a recording from a file.
type FileSource struct {
	*Reader
	file *os.File
}

// Open opens a recording and validates its header.
func Open(path string) (*FileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	r, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "record.Open",
		"path":     path,
		"width":    r.header.Width,
		"height":   r.header.Height,
	}).Info("Recording opened")

	return &FileSource{Reader: r, file: file}, nil
}

// Close closes the file.
func (s *FileSource) Close() error {
	return s.file.Close()
}
