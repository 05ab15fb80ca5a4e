package osc

import (
	"fmt"
	"net"

	"github.com/Lobaro/slip"
)

// StreamClient sends OSC messages over a TCP connection using SLIP
// framing (RFC 1055) to delimit packets on the stream.
type StreamClient struct {
	conn net.Conn
	w    *slip.Writer
}

// DialStream connects to addr and returns a client ready to send.
func DialStream(addr string) (*StreamClient, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("osc: dial stream %s: %w", addr, err)
	}
	return &StreamClient{conn: conn, w: slip.NewWriter(conn)}, nil
}

// Send encodes msg and writes it as a single SLIP frame.
func (c *StreamClient) Send(msg *Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	if err := c.w.WritePacket(data); err != nil {
		return fmt.Errorf("osc: stream send: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *StreamClient) Close() error {
	return c.conn.Close()
}
