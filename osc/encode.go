package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// MarshalBinary encodes the message in OSC 1.0 wire format:
// 1. OSC address pattern
// 2. OSC type tag string
// 3. OSC arguments
func (msg *Message) MarshalBinary() ([]byte, error) {
	if msg.Address == "" || msg.Address[0] != '/' {
		return nil, fmt.Errorf("osc: message address %q missing leading '/'", msg.Address)
	}

	data := new(bytes.Buffer)
	writePaddedString(msg.Address, data)
	writePaddedString(msg.TypeTags(), data)

	for _, arg := range msg.Arguments {
		var err error
		switch t := arg.(type) {
		case Int32:
			err = binary.Write(data, binary.BigEndian, int32(t))
		case Int64:
			err = binary.Write(data, binary.BigEndian, int64(t))
		case Float32:
			err = binary.Write(data, binary.BigEndian, math.Float32bits(float32(t)))
		case Float64:
			err = binary.Write(data, binary.BigEndian, math.Float64bits(float64(t)))
		case String:
			writePaddedString(string(t), data)
		case Blob:
			err = writeBlob(t, data)
		case RGBA:
			_, err = data.Write([]byte{t.R, t.G, t.B, t.A})
		case Timetag:
			err = binary.Write(data, binary.BigEndian, uint64(t))
		case Bool, Nil:
			// Carried entirely in the type tag.
		}
		if err != nil {
			return nil, err
		}
	}

	return data.Bytes(), nil
}

// writeBlob writes blob as an int32 size prefix followed by the payload,
// zero padded to the next 4 byte boundary.
func writeBlob(blob []byte, buf *bytes.Buffer) error {
	if len(blob) > math.MaxInt32 {
		return fmt.Errorf("osc: blob of %d bytes exceeds int32 size prefix", len(blob))
	}
	if err := binary.Write(buf, binary.BigEndian, int32(len(blob))); err != nil {
		return err
	}
	buf.Write(blob)
	buf.Write(zeroPad[:blobPadBytes(len(blob))])
	return nil
}

// writePaddedString writes str followed by one to four zero bytes, padding
// it to the next 4 byte boundary.
func writePaddedString(str string, buf *bytes.Buffer) {
	buf.WriteString(str)
	buf.Write(zeroPad[:padBytesNeeded(len(str))])
}

var zeroPad [4]byte

// padBytesNeeded determines how many zero bytes terminate and pad a string
// of elementLen bytes up to the next 4 byte length. Always at least one,
// for the null terminator.
func padBytesNeeded(elementLen int) int {
	return 4*(elementLen/4+1) - elementLen
}

// blobPadBytes determines how many zero bytes pad a blob payload of n
// bytes to a 4 byte boundary. Blobs carry no terminator, so unlike strings
// the answer can be zero.
func blobPadBytes(n int) int {
	return (4 - n%4) % 4
}
