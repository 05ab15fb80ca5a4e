// Package receiver ingests OSC packets from the network and folds them
// into the shared cue display state.
package receiver

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/RockBacon9922/theatremix-remote-display/cue"
	"github.com/RockBacon9922/theatremix-remote-display/osc"
)

// maxPacketSize is the largest datagram the receiver reads. OSC over UDP
// is bounded by the 16-bit UDP length field.
const maxPacketSize = 65535

// Config carries everything a Receiver needs to start.
type Config struct {
	// Port is the UDP port to listen on. Port 0 binds an ephemeral port,
	// readable afterwards from Addr.
	Port int

	// State receives every successfully mapped update. Required.
	State *cue.State

	// Logger gets per-packet diagnostics at debug level. Defaults to the
	// package default logger.
	Logger *log.Logger
}

// Phase is the lifecycle phase of a Receiver.
type Phase int32

const (
	PhaseStarting Phase = iota
	PhaseRunning
	PhaseStopping
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	case PhaseStopped:
		return "stopped"
	}
	return fmt.Sprintf("phase(%d)", int32(p))
}

// Stats is a point-in-time copy of the receiver's packet counters. Every
// received packet lands in exactly one of the four outcome counters.
type Stats struct {
	Received    uint64    // datagrams read off the socket
	Applied     uint64    // decoded, mapped and applied to the state
	Malformed   uint64    // rejected by the decoder as invalid OSC
	Unsupported uint64    // valid OSC the decoder does not handle
	Ignored     uint64    // decoded fine but matched no display field
	LastPacket  time.Time // arrival time of the most recent packet
}

// pipeline is the per-packet path shared by the UDP and stream receivers:
// count the arrival, decode, map, apply.
type pipeline struct {
	state  *cue.State
	logger *log.Logger

	received    atomic.Uint64
	applied     atomic.Uint64
	malformed   atomic.Uint64
	unsupported atomic.Uint64
	ignored     atomic.Uint64
	lastPacket  atomic.Int64 // unix nanoseconds, zero means never
}

// process runs one packet through decode, map and apply. Bad packets are
// counted and logged at debug level, they never stop the caller's loop.
func (p *pipeline) process(data []byte, from net.Addr) {
	p.received.Add(1)
	p.lastPacket.Store(time.Now().UnixNano())

	msg, err := osc.ParseMessage(data)
	if err != nil {
		if errors.Is(err, osc.ErrUnsupported) {
			p.unsupported.Add(1)
		} else {
			p.malformed.Add(1)
		}
		p.logger.Debug("dropping packet", "from", from, "err", err)
		return
	}

	update, ok := cue.Map(msg)
	if !ok {
		p.ignored.Add(1)
		p.logger.Debug("no display field for message", "from", from, "msg", msg)
		return
	}

	p.state.Apply(update)
	p.applied.Add(1)
	p.logger.Debug("applied", "msg", msg)
}

func (p *pipeline) stats() Stats {
	s := Stats{
		Received:    p.received.Load(),
		Applied:     p.applied.Load(),
		Malformed:   p.malformed.Load(),
		Unsupported: p.unsupported.Load(),
		Ignored:     p.ignored.Load(),
	}
	if ns := p.lastPacket.Load(); ns != 0 {
		s.LastPacket = time.Unix(0, ns)
	}
	return s
}

// Receiver owns a UDP socket and the goroutine reading OSC packets from
// it. Create one with Start, dispose of it with Stop. All methods are
// safe for concurrent use.
type Receiver struct {
	pipeline
	conn     *net.UDPConn
	phase    atomic.Int32
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start binds a UDP socket on cfg.Port and spawns the listen loop. When
// the returned error is non-nil nothing was bound and there is no
// receiver to stop.
func Start(cfg Config) (*Receiver, error) {
	if cfg.State == nil {
		return nil, errors.New("receiver: config needs a state")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("receiver: port %d out of range", cfg.Port)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	r := &Receiver{
		pipeline: pipeline{state: cfg.State, logger: cfg.Logger},
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	r.phase.Store(int32(PhaseStarting))

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: cfg.Port})
	if err != nil {
		r.phase.Store(int32(PhaseStopped))
		return nil, fmt.Errorf("receiver: bind udp port %d: %w", cfg.Port, err)
	}
	r.conn = conn
	r.phase.Store(int32(PhaseRunning))
	r.logger.Info("listening for OSC", "addr", conn.LocalAddr())

	go r.run()
	return r, nil
}

func (r *Receiver) run() {
	defer close(r.done)
	defer r.phase.Store(int32(PhaseStopped))

	buf := make([]byte, maxPacketSize)
	var tempDelay time.Duration
	for {
		n, from, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-r.quit:
				return
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				r.logger.Warn("udp read failed, retrying", "err", err, "delay", tempDelay)
				time.Sleep(tempDelay)
				continue
			}
			r.logger.Error("udp read failed, listener exiting", "err", err)
			return
		}
		tempDelay = 0
		r.process(buf[:n], from)
	}
}

// Stop shuts the receiver down and waits for the listen loop to exit.
// Safe to call more than once, later calls just wait.
func (r *Receiver) Stop() {
	r.stopOnce.Do(func() {
		r.phase.Store(int32(PhaseStopping))
		close(r.quit)
		// Closing the socket unblocks the pending read.
		r.conn.Close()
	})
	<-r.done
}

// Phase reports the receiver's lifecycle phase.
func (r *Receiver) Phase() Phase {
	return Phase(r.phase.Load())
}

// Stats returns a copy of the packet counters.
func (r *Receiver) Stats() Stats {
	return r.pipeline.stats()
}

// Addr returns the bound UDP address. Useful with Config.Port 0.
func (r *Receiver) Addr() net.Addr {
	return r.conn.LocalAddr()
}
