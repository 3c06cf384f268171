package record

import "errors"

var (
	// ErrBadMagic indicates the input is not a frame recording.
	ErrBadMagic = errors.New("not a frame recording")

	// ErrUnsupportedVersion indicates a recording written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported recording version")

	// ErrCorruptRecord indicates a record whose checksum does not match its payload.
	ErrCorruptRecord = errors.New("corrupt frame record")

	// ErrTruncatedRecord indicates the input ended inside a record.
	ErrTruncatedRecord = errors.New("truncated frame record")
)
