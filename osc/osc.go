package osc

import (
	"fmt"
	"strings"
	"time"
)

const (
	// BundleTag marks the start of an OSC bundle packet.
	BundleTag = "#bundle"

	// The time tag value consisting of 63 zero bits followed by a one in
	// the least significant bit is a special case meaning "immediately."
	timetagImmediate      = uint64(1)
	secondsFrom1900To1970 = 2208988800
)

// Message is a single OSC message: an address pattern followed by zero or
// more typed arguments.
type Message struct {
	Address   string
	Arguments []Argument
}

// NewMessage returns a new Message addressed to address.
func NewMessage(address string, args ...Argument) *Message {
	return &Message{Address: address, Arguments: args}
}

// Append adds the given arguments to the end of the argument list.
func (msg *Message) Append(args ...Argument) {
	msg.Arguments = append(msg.Arguments, args...)
}

// TypeTags returns the type tag string of the message, including the
// leading comma.
func (msg *Message) TypeTags() string {
	var sb strings.Builder
	sb.WriteByte(',')
	for _, arg := range msg.Arguments {
		sb.WriteByte(arg.TypeTag())
	}
	return sb.String()
}

// String implements fmt.Stringer. The output mirrors the wire order:
// address, type tags, then each argument.
func (msg *Message) String() string {
	var sb strings.Builder
	sb.WriteString(msg.Address)
	sb.WriteByte(' ')
	sb.WriteString(msg.TypeTags())
	for _, arg := range msg.Arguments {
		sb.WriteByte(' ')
		sb.WriteString(arg.String())
	}
	return sb.String()
}

////
// Arguments
////

// Argument is one typed OSC argument. The set of implementations is closed:
// each supported type tag has exactly one Argument type, so a type switch
// over the variants below covers every value a decoded Message can hold.
type Argument interface {
	fmt.Stringer

	// TypeTag returns the OSC type tag byte identifying the argument type.
	TypeTag() byte

	sealed()
}

// Int32 is an OSC int32 argument (type tag 'i').
type Int32 int32

// Int64 is an OSC int64 argument (type tag 'h').
type Int64 int64

// Float32 is an OSC float32 argument (type tag 'f').
type Float32 float32

// Float64 is an OSC double argument (type tag 'd').
type Float64 float64

// String is an OSC string argument (type tag 's').
type String string

// Blob is an OSC blob argument (type tag 'b'). Decoded blobs never alias
// the packet buffer.
type Blob []byte

// Bool is an OSC boolean argument. True and false are carried entirely in
// the type tag ('T' or 'F') and occupy no argument bytes.
type Bool bool

// Nil is an OSC nil argument (type tag 'N'). Like booleans it occupies no
// argument bytes.
type Nil struct{}

// RGBA is an OSC 32-bit color argument (type tag 'r'), one byte per
// channel in R, G, B, A wire order.
type RGBA struct {
	R, G, B, A uint8
}

// Timetag is an OSC time tag argument (type tag 't') in NTP format: the
// first 32 bits count seconds since midnight January 1, 1900, the last 32
// bits the fractional part of a second.
type Timetag uint64

func (Int32) TypeTag() byte   { return 'i' }
func (Int64) TypeTag() byte   { return 'h' }
func (Float32) TypeTag() byte { return 'f' }
func (Float64) TypeTag() byte { return 'd' }
func (String) TypeTag() byte  { return 's' }
func (Blob) TypeTag() byte    { return 'b' }
func (Nil) TypeTag() byte     { return 'N' }
func (RGBA) TypeTag() byte    { return 'r' }
func (Timetag) TypeTag() byte { return 't' }

func (b Bool) TypeTag() byte {
	if b {
		return 'T'
	}
	return 'F'
}

func (a Int32) String() string   { return fmt.Sprintf("%d", int32(a)) }
func (a Int64) String() string   { return fmt.Sprintf("%d", int64(a)) }
func (a Float32) String() string { return fmt.Sprintf("%g", float32(a)) }
func (a Float64) String() string { return fmt.Sprintf("%g", float64(a)) }
func (a String) String() string  { return string(a) }
func (a Blob) String() string    { return fmt.Sprintf("blob[%d]", len(a)) }
func (a Bool) String() string    { return fmt.Sprintf("%t", bool(a)) }
func (Nil) String() string       { return "nil" }

func (a RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", a.R, a.G, a.B, a.A)
}

func (a Timetag) String() string {
	if uint64(a) == timetagImmediate {
		return "immediate"
	}
	return a.Time().UTC().Format(time.RFC3339Nano)
}

func (Int32) sealed()   {}
func (Int64) sealed()   {}
func (Float32) sealed() {}
func (Float64) sealed() {}
func (String) sealed()  {}
func (Blob) sealed()    {}
func (Bool) sealed()    {}
func (Nil) sealed()     {}
func (RGBA) sealed()    {}
func (Timetag) sealed() {}

////
// Timetag utility functions
////

// NewTimetag converts the given time to an OSC time tag.
func NewTimetag(t time.Time) Timetag {
	secs := uint64(t.Unix() + secondsFrom1900To1970)
	frac := uint64(t.Nanosecond()) << 32 / 1e9
	return Timetag(secs<<32 | frac)
}

// TimetagImmediate returns the special time tag meaning "immediately."
func TimetagImmediate() Timetag {
	return Timetag(timetagImmediate)
}

// Time returns the wall clock time the time tag represents. The immediate
// time tag maps to the zero time.
func (a Timetag) Time() time.Time {
	if uint64(a) == timetagImmediate {
		return time.Time{}
	}
	secs := int64(uint64(a)>>32) - secondsFrom1900To1970
	nsec := int64((uint64(a) & 0xffffffff) * 1e9 >> 32)
	return time.Unix(secs, nsec)
}
