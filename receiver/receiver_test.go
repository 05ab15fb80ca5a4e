package receiver

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RockBacon9922/theatremix-remote-display/cue"
	"github.com/RockBacon9922/theatremix-remote-display/osc"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func marshal(t *testing.T, msg *osc.Message) []byte {
	t.Helper()
	data, err := msg.MarshalBinary()
	require.NoError(t, err)
	return data
}

// Packets fed through the pipeline in order land in exactly one counter
// each, and the last applied value for a field wins.
func TestPipelineOutcomes(t *testing.T) {
	state := cue.NewState()
	p := &pipeline{state: state, logger: quietLogger()}
	from := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 53000}

	p.process(marshal(t, osc.NewMessage("/cue", osc.String("1"))), from)
	p.process(marshal(t, osc.NewMessage("/cue", osc.String("2"))), from)
	p.process(marshal(t, osc.NewMessage("/cue", osc.String("3"))), from)

	p.process([]byte("garbage"), from)
	p.process([]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01"), from)
	p.process(marshal(t, osc.NewMessage("/cuefired", osc.String("x"))), from)

	assert.Equal(t, "3", state.Snapshot().Cue)

	s := p.stats()
	assert.Equal(t, uint64(6), s.Received)
	assert.Equal(t, uint64(3), s.Applied)
	assert.Equal(t, uint64(1), s.Malformed)
	assert.Equal(t, uint64(1), s.Unsupported)
	assert.Equal(t, uint64(1), s.Ignored)
	assert.Equal(t, s.Received, s.Applied+s.Malformed+s.Unsupported+s.Ignored)
	assert.WithinDuration(t, time.Now(), s.LastPacket, 5*time.Second)
}

func TestReceiverEndToEnd(t *testing.T) {
	state := cue.NewState()
	r, err := Start(Config{Port: 0, State: state, Logger: quietLogger()})
	require.NoError(t, err)
	defer r.Stop()

	assert.Equal(t, PhaseRunning, r.Phase())

	port := r.Addr().(*net.UDPAddr).Port
	client := osc.NewClient("127.0.0.1", port)

	// One raw datagram with known bytes, the rest through the client.
	conn, err := net.Dial("udp", r.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("/cue\x00\x00\x00\x00,s\x00\x00Act1Scene2\x00\x00"))
	require.NoError(t, err)

	require.NoError(t, client.Send(osc.NewMessage("/description", osc.String("Blackout"))))
	require.NoError(t, client.Send(osc.NewMessage("/color", osc.Int32(255), osc.Int32(136), osc.Int32(0))))

	require.Eventually(t, func() bool {
		snap := state.Snapshot()
		return snap.Cue == "Act1Scene2" &&
			snap.Description == "Blackout" &&
			snap.Color == (cue.Color{R: 255, G: 136, B: 0, A: 255})
	}, 2*time.Second, 10*time.Millisecond)

	s := r.Stats()
	assert.Equal(t, uint64(3), s.Received)
	assert.Equal(t, uint64(3), s.Applied)
	assert.Equal(t, s.Received, s.Applied+s.Malformed+s.Unsupported+s.Ignored)
	assert.WithinDuration(t, time.Now(), s.LastPacket, 5*time.Second)
}

// Rejected packets bump their counter and leave the state alone, and the
// listener keeps reading afterwards.
func TestReceiverSurvivesBadPackets(t *testing.T) {
	state := cue.NewState()
	r, err := Start(Config{Port: 0, State: state, Logger: quietLogger()})
	require.NoError(t, err)
	defer r.Stop()

	conn, err := net.Dial("udp", r.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not osc at all"))
	require.NoError(t, err)
	_, err = conn.Write([]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s := r.Stats()
		return s.Malformed == 1 && s.Unsupported == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, cue.DisplayState{}, state.Snapshot())

	// Still alive.
	client := osc.NewClient("127.0.0.1", r.Addr().(*net.UDPAddr).Port)
	require.NoError(t, client.Send(osc.NewMessage("/cue", osc.String("54"))))
	require.Eventually(t, func() bool {
		return state.Snapshot().Cue == "54"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReceiverStopReleasesPort(t *testing.T) {
	state := cue.NewState()
	r, err := Start(Config{Port: 0, State: state, Logger: quietLogger()})
	require.NoError(t, err)
	port := r.Addr().(*net.UDPAddr).Port

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return, listener still blocked")
	}
	assert.Equal(t, PhaseStopped, r.Phase())

	// The port must be immediately bindable again.
	r2, err := Start(Config{Port: port, State: state, Logger: quietLogger()})
	require.NoError(t, err)
	r2.Stop()
}

func TestReceiverStopIdempotent(t *testing.T) {
	r, err := Start(Config{Port: 0, State: cue.NewState(), Logger: quietLogger()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Stop()
		}()
	}
	wg.Wait()
	r.Stop()
	assert.Equal(t, PhaseStopped, r.Phase())
}

func TestStartErrors(t *testing.T) {
	state := cue.NewState()

	_, err := Start(Config{Port: 0, State: nil})
	assert.ErrorContains(t, err, "state")

	_, err = Start(Config{Port: -1, State: state})
	assert.ErrorContains(t, err, "out of range")

	_, err = Start(Config{Port: 65536, State: state})
	assert.ErrorContains(t, err, "out of range")

	// Occupy a port, then try to start on it.
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()
	port := conn.LocalAddr().(*net.UDPAddr).Port

	_, err = Start(Config{Port: port, State: state, Logger: quietLogger()})
	assert.ErrorContains(t, err, "bind udp")
}
