package cue

import (
	"math"

	"github.com/RockBacon9922/theatremix-remote-display/osc"
)

// OSC addresses the display listens on.
const (
	AddressCue         = "/cue"
	AddressDescription = "/description"
	AddressColor       = "/color"
)

// Map translates a decoded OSC message into a state update. The second
// return is false for a mapping miss: an address the display does not
// listen on, or arguments that do not fit the shape the address expects.
// Misses carry no error, the caller decides whether to count or log them.
func Map(msg *osc.Message) (Update, bool) {
	switch msg.Address {
	case AddressCue:
		s, ok := singleString(msg.Arguments)
		if !ok {
			return nil, false
		}
		return CueUpdate(s), true

	case AddressDescription:
		s, ok := singleString(msg.Arguments)
		if !ok {
			return nil, false
		}
		return DescriptionUpdate(s), true

	case AddressColor:
		c, ok := colorFromArguments(msg.Arguments)
		if !ok {
			return nil, false
		}
		return ColorUpdate(c), true
	}
	return nil, false
}

func singleString(args []osc.Argument) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	s, ok := args[0].(osc.String)
	return string(s), ok
}

// colorFromArguments accepts the shapes color senders actually use: a
// native OSC color, a packed 0xRRGGBBAA integer, a hex string, or three
// to four separate channel components. Anything else is a miss.
func colorFromArguments(args []osc.Argument) (Color, bool) {
	switch len(args) {
	case 1:
		switch a := args[0].(type) {
		case osc.RGBA:
			return Color{R: a.R, G: a.G, B: a.B, A: a.A}, true
		case osc.Int32:
			// Packed colors with a high red channel wrap negative in
			// int32, the bit pattern is what counts.
			return ColorFromPacked(uint32(a)), true
		case osc.Int64:
			if a < 0 || a > math.MaxUint32 {
				return Color{}, false
			}
			return ColorFromPacked(uint32(a)), true
		case osc.String:
			return ParseHexColor(string(a))
		}
		return Color{}, false

	case 3, 4:
		var ch [4]uint8
		ch[3] = 0xff
		for i, arg := range args {
			v, ok := channelValue(arg)
			if !ok {
				return Color{}, false
			}
			ch[i] = v
		}
		return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, true
	}
	return Color{}, false
}

// channelValue converts one numeric color component: integers count 0 to
// 255, floats are normalized 0.0 to 1.0. Out of range values are a miss,
// not clamped.
func channelValue(arg osc.Argument) (uint8, bool) {
	switch v := arg.(type) {
	case osc.Int32:
		return intChannel(int64(v))
	case osc.Int64:
		return intChannel(int64(v))
	case osc.Float32:
		return floatChannel(float64(v))
	case osc.Float64:
		return floatChannel(float64(v))
	}
	return 0, false
}

func intChannel(v int64) (uint8, bool) {
	if v < 0 || v > 255 {
		return 0, false
	}
	return uint8(v), true
}

func floatChannel(v float64) (uint8, bool) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, false
	}
	return uint8(math.Round(v * 255)), true
}
