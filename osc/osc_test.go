package osc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTypeTags(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{name: "no arguments", msg: NewMessage("/ping"), want: ","},
		{name: "single string", msg: NewMessage("/cue", String("1.5")), want: ",s"},
		{
			name: "mixed arguments",
			msg: NewMessage("/all",
				Int32(1), Int64(2), Float32(3), Float64(4),
				String("s"), Blob{0x01}, Bool(true), Bool(false),
				Nil{}, RGBA{}, Timetag(1)),
			want: ",ihfdsbTFNrt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.TypeTags())
		})
	}
}

func TestMessageString(t *testing.T) {
	msg := NewMessage("/cue", String("5"), Int32(3))
	assert.Equal(t, "/cue ,si 5 3", msg.String())

	msg = NewMessage("/color", RGBA{R: 255, G: 128, B: 0, A: 255})
	assert.Equal(t, "/color ,r rgba(255,128,0,255)", msg.String())
}

func TestMarshalBinaryLayout(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want []byte
	}{
		{
			name: "string argument",
			msg:  NewMessage("/cue", String("Act1Scene2")),
			want: []byte("/cue\x00\x00\x00\x00,s\x00\x00Act1Scene2\x00\x00"),
		},
		{
			name: "address on boundary still gets padding",
			msg:  NewMessage("/cue"),
			want: []byte("/cue\x00\x00\x00\x00,\x00\x00\x00"),
		},
		{
			name: "blob padded to boundary",
			msg:  NewMessage("/b", Blob("abc")),
			want: []byte("/b\x00\x00,b\x00\x00\x00\x00\x00\x03abc\x00"),
		},
		{
			name: "aligned blob gets no padding",
			msg:  NewMessage("/b", Blob("abcd")),
			want: []byte("/b\x00\x00,b\x00\x00\x00\x00\x00\x04abcd"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, len(got)%4, "packet length must be a multiple of 4")
		})
	}
}

func TestMarshalBinaryRoundTrip(t *testing.T) {
	msg := NewMessage("/all",
		Int32(-42), Int64(1<<40), Float32(1.5), Float64(-2.25),
		String("hello"), Blob{0xde, 0xad, 0xbe, 0xef}, Bool(true),
		Bool(false), Nil{}, RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44},
		Timetag(1))

	data, err := msg.MarshalBinary()
	require.NoError(t, err)

	got, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestMarshalBinaryBadAddress(t *testing.T) {
	for _, address := range []string{"", "cue"} {
		_, err := NewMessage(address).MarshalBinary()
		assert.Error(t, err, "address %q", address)
	}
}

func TestTimetag(t *testing.T) {
	orig := time.Unix(1660000000, 500000000)
	tag := NewTimetag(orig)
	assert.WithinDuration(t, orig, tag.Time(), time.Microsecond)

	immediate := TimetagImmediate()
	assert.True(t, immediate.Time().IsZero())
	assert.Equal(t, "immediate", immediate.String())
}

func TestPadBytesNeeded(t *testing.T) {
	tests := []struct {
		elementLen int
		want       int
	}{
		{0, 4}, {1, 3}, {2, 2}, {3, 1}, {4, 4}, {5, 3}, {10, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, padBytesNeeded(tt.elementLen), "padBytesNeeded(%d)", tt.elementLen)
	}

	blobs := []struct {
		n    int
		want int
	}{
		{0, 0}, {1, 3}, {2, 2}, {3, 1}, {4, 0}, {5, 3},
	}
	for _, tt := range blobs {
		assert.Equal(t, tt.want, blobPadBytes(tt.n), "blobPadBytes(%d)", tt.n)
	}
}
