package receiver

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/Lobaro/slip"
	"github.com/charmbracelet/log"

	"github.com/RockBacon9922/theatremix-remote-display/cue"
)

// StreamConfig carries everything a StreamReceiver needs to start.
type StreamConfig struct {
	// Addr is the TCP listen address, for example ":32001".
	Addr string

	// State receives every successfully mapped update. Required.
	State *cue.State

	// Logger gets connection and packet diagnostics. Defaults to the
	// package default logger.
	Logger *log.Logger
}

// StreamReceiver accepts TCP connections carrying SLIP framed OSC packets
// and feeds every frame through the same pipeline as the UDP receiver.
// Consoles use SLIP (RFC 1055) to delimit OSC packets on stream
// transports.
type StreamReceiver struct {
	pipeline
	ln       net.Listener
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// StartStream binds a TCP listener on cfg.Addr and starts accepting
// connections.
func StartStream(cfg StreamConfig) (*StreamReceiver, error) {
	if cfg.State == nil {
		return nil, errors.New("receiver: config needs a state")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("receiver: bind tcp %s: %w", cfg.Addr, err)
	}

	sr := &StreamReceiver{
		pipeline: pipeline{state: cfg.State, logger: cfg.Logger},
		ln:       ln,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		conns:    make(map[net.Conn]struct{}),
	}
	sr.logger.Info("listening for SLIP framed OSC", "addr", ln.Addr())

	go sr.acceptLoop()
	return sr, nil
}

func (sr *StreamReceiver) acceptLoop() {
	defer close(sr.done)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := sr.ln.Accept()
		if err != nil {
			select {
			case <-sr.quit:
			default:
				sr.logger.Error("tcp accept failed, listener exiting", "err", err)
			}
			return
		}
		if !sr.track(conn) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sr.serveConn(conn)
		}()
	}
}

func (sr *StreamReceiver) serveConn(conn net.Conn) {
	defer sr.untrack(conn)
	sr.logger.Debug("stream connected", "from", conn.RemoteAddr())

	r := slip.NewReader(conn)
	for {
		frame, _, err := r.ReadPacket()
		if err != nil {
			sr.logger.Debug("stream closed", "from", conn.RemoteAddr(), "err", err)
			return
		}
		// Back to back END delimiters produce empty frames, skip them.
		if len(frame) == 0 {
			continue
		}
		sr.process(frame, conn.RemoteAddr())
	}
}

// track registers conn so Stop can close it. Once Stop has begun it
// closes conn instead and reports false, even when the accept raced
// ahead of the listener shutdown.
func (sr *StreamReceiver) track(conn net.Conn) bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	select {
	case <-sr.quit:
		conn.Close()
		return false
	default:
	}
	sr.conns[conn] = struct{}{}
	return true
}

func (sr *StreamReceiver) untrack(conn net.Conn) {
	sr.mu.Lock()
	delete(sr.conns, conn)
	sr.mu.Unlock()
	conn.Close()
}

// Stop closes the listener and every open connection, then waits for the
// accept loop and all connection handlers to finish. Safe to call more
// than once.
func (sr *StreamReceiver) Stop() {
	sr.stopOnce.Do(func() {
		close(sr.quit)
		sr.ln.Close()
		sr.mu.Lock()
		for conn := range sr.conns {
			conn.Close()
		}
		sr.mu.Unlock()
	})
	<-sr.done
}

// Stats returns a copy of the packet counters.
func (sr *StreamReceiver) Stats() Stats {
	return sr.pipeline.stats()
}

// Addr returns the bound TCP listener address.
func (sr *StreamReceiver) Addr() net.Addr {
	return sr.ln.Addr()
}
