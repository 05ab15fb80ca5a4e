/*
Package osc implements the Open Sound Control 1.0 binary format for single
messages, together with a small UDP client for sending them.

The implementation follows the Open Sound Control 1.0 Specification
(http://opensoundcontrol.org/spec-1_0).

Open Sound Control (OSC) is an open, transport-independent, message-based
protocol developed for communication among computers, sound synthesizers,
and other multimedia devices.

An OSC message consists of an OSC address pattern, followed by an OSC type
tag string, and finally by zero or more OSC arguments. The size of an OSC
packet is always a multiple of 4. Arguments decode to a closed set of
types implementing Argument, one per supported type tag: 'i' (Int32),
'h' (Int64), 'f' (Float32), 'd' (Float64), 's' (String), 'b' (Blob),
'r' (RGBA color), 't' (Timetag), 'T'/'F' (Bool) and 'N' (Nil).

ParseMessage is deliberately strict. A packet either decodes completely or
is rejected: errors wrapping ErrMalformedPacket mean the bytes violate the
wire format, and errors wrapping ErrUnsupported mean the packet is valid
OSC that this package chooses not to handle, such as #bundle containers
and the OSC 1.0 extension type tags. Callers that only care about the
class can test with errors.Is against those two sentinels.

Decoding example:

	msg, err := osc.ParseMessage(datagram)
	if err != nil {
	    // errors.Is(err, osc.ErrMalformedPacket) or osc.ErrUnsupported
	}
	for _, arg := range msg.Arguments {
	    switch v := arg.(type) {
	    case osc.String:
	        fmt.Println(string(v))
	    case osc.Int32:
	        fmt.Println(int32(v))
	    }
	}

Sending example:

	client := osc.NewClient("localhost", 32000)
	msg := osc.NewMessage("/cue", osc.String("1.5"))
	client.Send(msg)
*/
package osc
