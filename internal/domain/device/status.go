package device

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Status is the device state published on every transition.
type Status int32

const (
	// StatusIdle means nothing is playing.
	StatusIdle Status = 0
	// StatusProcessing means a text command is being encoded.
	StatusProcessing Status = 1
	// StatusPlaying means a sequence is being rendered.
	StatusPlaying Status = 2
	// StatusError means the last command could not be played.
	StatusError Status = 3
)

// StatusSize is the wire width of an encoded status.
const StatusSize = 4

// ErrBadStatus is returned when a payload is not a valid status.
var ErrBadStatus = errors.New("invalid status payload")

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusProcessing:
		return "processing"
	case StatusPlaying:
		return "playing"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Valid reports whether s is one of the four known codes.
func (s Status) Valid() bool {
	return s >= StatusIdle && s <= StatusError
}

// Bytes encodes s as a little-endian 32-bit integer.
func (s Status) Bytes() []byte {
	b := make([]byte, StatusSize)
	binary.LittleEndian.PutUint32(b, uint32(s)) //nolint:gosec // Codes are small and non-negative.

	return b
}

// ParseStatus decodes a payload produced by Status.Bytes.
func ParseStatus(b []byte) (Status, error) {
	if len(b) != StatusSize {
		return StatusError, fmt.Errorf("%w: %d bytes", ErrBadStatus, len(b))
	}

	s := Status(binary.LittleEndian.Uint32(b)) //nolint:gosec // Range is checked below.
	if !s.Valid() {
		return StatusError, fmt.Errorf("%w: code %d", ErrBadStatus, int32(s))
	}

	return s, nil
}
