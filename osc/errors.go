package osc

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPacket reports a structural violation of the OSC 1.0
	// binary format: a truncated buffer, bad 4-byte alignment, a missing
	// type tag string, or an unknown type tag. Packets that fail this way
	// carry no usable content.
	ErrMalformedPacket = errors.New("osc: malformed packet")

	// ErrUnsupported covers well-formed OSC constructs this package does
	// not implement. It is the common class for ErrUnsupportedBundle and
	// ErrUnsupportedType so callers can match either with errors.Is.
	ErrUnsupported = errors.New("osc: unsupported")

	// ErrUnsupportedBundle is returned for #bundle packets. Bundles are
	// valid OSC but carry timetag scheduling semantics that have no place
	// in a latest-value display.
	ErrUnsupportedBundle = fmt.Errorf("%w: bundle", ErrUnsupported)

	// ErrUnsupportedType is returned for OSC 1.0 extension type tags
	// (arrays, MIDI, char, symbol, infinitum) that are recognized but not
	// decoded.
	ErrUnsupportedType = fmt.Errorf("%w: type tag", ErrUnsupported)
)
