package osc

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	client := NewClient("127.0.0.1", port)
	require.NoError(t, client.Send(NewMessage("/cue", String("1.5"))))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)

	msg, err := ParseMessage(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, "/cue", msg.Address)
	assert.Equal(t, []Argument{String("1.5")}, msg.Arguments)
}

func TestClientSendBadMessage(t *testing.T) {
	client := NewClient("127.0.0.1", 9)
	err := client.Send(NewMessage("no-slash"))
	assert.Error(t, err)
}
