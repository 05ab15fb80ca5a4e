package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Extension type tags from the OSC 1.0 specification that are recognized
// but not decoded. Seeing one of these is an unsupported construct, not a
// malformed packet.
const extensionTypeTags = "mcSI[]"

// ParseMessage decodes a single OSC message from data. The packet must be
// complete and exact: truncated buffers, misaligned fields, unknown type
// tags and trailing garbage all return an error wrapping
// ErrMalformedPacket, while well-formed bundles and extension type tags
// return an error wrapping ErrUnsupported. ParseMessage never panics on
// arbitrary input and a non-nil error always means a nil message.
func ParseMessage(data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty packet", ErrMalformedPacket)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrMalformedPacket, len(data))
	}

	switch data[0] {
	case '/':
		// An OSC message starts with a '/'.
	case '#':
		// An OSC bundle starts with the '#bundle' string.
		if bytes.HasPrefix(data, []byte(BundleTag+"\x00")) {
			return nil, ErrUnsupportedBundle
		}
		return nil, fmt.Errorf("%w: bad bundle tag", ErrMalformedPacket)
	default:
		return nil, fmt.Errorf("%w: address does not start with '/'", ErrMalformedPacket)
	}

	address, offset, err := parsePaddedString(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w in address", err)
	}

	if offset == len(data) {
		return nil, fmt.Errorf("%w: missing type tag string", ErrMalformedPacket)
	}
	typetags, offset, err := parsePaddedString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%w in type tags", err)
	}
	if len(typetags) == 0 || typetags[0] != ',' {
		return nil, fmt.Errorf("%w: type tags %q do not start with ','", ErrMalformedPacket, typetags)
	}

	msg := NewMessage(address)
	for _, tag := range []byte(typetags[1:]) {
		var arg Argument
		switch tag {
		case 'i':
			v, next, err := parseUint32(data, offset, tag)
			if err != nil {
				return nil, err
			}
			arg, offset = Int32(v), next

		case 'h':
			v, next, err := parseUint64(data, offset, tag)
			if err != nil {
				return nil, err
			}
			arg, offset = Int64(v), next

		case 'f':
			v, next, err := parseUint32(data, offset, tag)
			if err != nil {
				return nil, err
			}
			arg, offset = Float32(math.Float32frombits(v)), next

		case 'd':
			v, next, err := parseUint64(data, offset, tag)
			if err != nil {
				return nil, err
			}
			arg, offset = Float64(math.Float64frombits(v)), next

		case 's':
			v, next, err := parsePaddedString(data, offset)
			if err != nil {
				return nil, fmt.Errorf("%w in 's' argument", err)
			}
			arg, offset = String(v), next

		case 'b':
			v, next, err := parseBlob(data, offset)
			if err != nil {
				return nil, err
			}
			arg, offset = Blob(v), next

		case 'r':
			v, next, err := parseUint32(data, offset, tag)
			if err != nil {
				return nil, err
			}
			arg = RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
			offset = next

		case 't':
			v, next, err := parseUint64(data, offset, tag)
			if err != nil {
				return nil, err
			}
			arg, offset = Timetag(v), next

		case 'T':
			arg = Bool(true)

		case 'F':
			arg = Bool(false)

		case 'N':
			arg = Nil{}

		default:
			if strings.IndexByte(extensionTypeTags, tag) >= 0 {
				return nil, fmt.Errorf("%w %q", ErrUnsupportedType, tag)
			}
			return nil, fmt.Errorf("%w: unknown type tag %q", ErrMalformedPacket, tag)
		}
		msg.Append(arg)
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after arguments", ErrMalformedPacket, len(data)-offset)
	}

	return msg, nil
}

// parsePaddedString reads a null-terminated string from data starting at
// offset and consumes it together with its padding, up to the next 4 byte
// boundary. All padding bytes must be zero.
func parsePaddedString(data []byte, offset int) (string, int, error) {
	rel := bytes.IndexByte(data[offset:], 0)
	if rel < 0 {
		return "", 0, fmt.Errorf("%w: unterminated string", ErrMalformedPacket)
	}
	end := offset + rel + padBytesNeeded(rel)
	if end > len(data) {
		return "", 0, fmt.Errorf("%w: truncated string padding", ErrMalformedPacket)
	}
	for _, b := range data[offset+rel : end] {
		if b != 0 {
			return "", 0, fmt.Errorf("%w: nonzero string padding", ErrMalformedPacket)
		}
	}
	return string(data[offset : offset+rel]), end, nil
}

// parseBlob reads an int32 size prefix followed by that many bytes of
// payload and zero padding to the next 4 byte boundary. The returned slice
// is a copy and does not alias data.
func parseBlob(data []byte, offset int) ([]byte, int, error) {
	size, offset, err := parseUint32(data, offset, 'b')
	if err != nil {
		return nil, 0, err
	}
	n := int(int32(size))
	if n < 0 {
		return nil, 0, fmt.Errorf("%w: negative blob size %d", ErrMalformedPacket, n)
	}
	end := offset + n + blobPadBytes(n)
	if end > len(data) || end < offset {
		return nil, 0, fmt.Errorf("%w: truncated blob of size %d", ErrMalformedPacket, n)
	}
	for _, b := range data[offset+n : end] {
		if b != 0 {
			return nil, 0, fmt.Errorf("%w: nonzero blob padding", ErrMalformedPacket)
		}
	}
	blob := make([]byte, n)
	copy(blob, data[offset:offset+n])
	return blob, end, nil
}

func parseUint32(data []byte, offset int, tag byte) (uint32, int, error) {
	if offset+4 > len(data) {
		return 0, 0, fmt.Errorf("%w: truncated %q argument", ErrMalformedPacket, tag)
	}
	return binary.BigEndian.Uint32(data[offset:]), offset + 4, nil
}

func parseUint64(data []byte, offset int, tag byte) (uint64, int, error) {
	if offset+8 > len(data) {
		return 0, 0, fmt.Errorf("%w: truncated %q argument", ErrMalformedPacket, tag)
	}
	return binary.BigEndian.Uint64(data[offset:]), offset + 8, nil
}
