package osc

import (
	"fmt"
	"net"
	"strconv"
)

// Client sends OSC messages to a single UDP destination.
type Client struct {
	host string
	port int
}

// NewClient returns a client that sends to the given host and port.
func NewClient(host string, port int) *Client {
	return &Client{host: host, port: port}
}

// Send encodes msg and writes it to the destination as one datagram. Every
// call dials a fresh connection, so a Client is safe for concurrent use.
func (c *Client) Send(msg *Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	if err != nil {
		return fmt.Errorf("osc: resolve %s: %w", c.host, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("osc: dial %v: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("osc: send to %v: %w", addr, err)
	}
	return nil
}
