package device

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/logger"
	"github.com/Faultbox/rigsync/internal/rig"
)

var (
	ErrClosed      = errors.New("device pump closed")
	ErrUnknownKind = errors.New("unknown device event kind")
)

// DefaultQueueSize is used when NewPump is given a non-positive size.
const DefaultQueueSize = 256

// Pump queues device events from any goroutine and applies them in arrival
// order on the goroutine running Run.
type Pump struct {
	engine *rig.Engine
	events chan Event

	// mu orders Send against Close: nothing is queued once done is closed,
	// so Run's final drain sees every accepted event.
	mu        sync.RWMutex
	closed    bool
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	staleAfter time.Duration
}

// PumpOption configures a Pump.
type PumpOption func(*Pump)

// WithStaleAfter logs a warning when no pose arrives for d. Zero disables it.
func WithStaleAfter(d time.Duration) PumpOption {
	return func(p *Pump) {
		p.staleAfter = d
	}
}

// NewPump creates a pump feeding e.
func NewPump(e *rig.Engine, queueSize int, opts ...PumpOption) *Pump {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	p := &Pump{
		engine:  e,
		events:  make(chan Event, queueSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send queues ev, blocking while the queue is full. An event Send accepts
// is applied unless Run's context is cancelled first.
func (p *Pump) Send(ev Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.events <- ev:
		return nil
	case <-p.closing:
		return ErrClosed
	}
}

// LaserHead queues a laser head pose.
func (p *Pump) LaserHead(pose rig.Pose) error {
	return p.Send(Event{Kind: KindLaserHead, Pose: pose})
}

// Gripper queues a gripper pose.
func (p *Pump) Gripper(pose rig.Pose) error {
	return p.Send(Event{Kind: KindGripper, Pose: pose})
}

// BodyState queues a grip state change.
func (p *Pump) BodyState(state rig.BodyState) error {
	return p.Send(Event{Kind: KindBodyState, State: state})
}

// CalibResult queues a calibration verdict.
func (p *Pump) CalibResult(result rig.CalibResult) error {
	return p.Send(Event{Kind: KindCalibResult, Result: result})
}

// Call queues fn to run on the engine goroutine, in order with the device
// events.
func (p *Pump) Call(fn func(*rig.Engine)) error {
	return p.Send(Event{Kind: kindCall, call: fn})
}

// Close stops accepting events. Run applies what is already queued and
// returns.
func (p *Pump) Close() {
	p.closeOnce.Do(func() {
		close(p.closing)
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.done)
	})
}

// Run applies queued events until ctx is cancelled or Close is called.
// It returns ctx.Err() on cancellation and nil after Close.
func (p *Pump) Run(ctx context.Context) error {
	var stale <-chan time.Time
	if p.staleAfter > 0 {
		ticker := time.NewTicker(p.staleAfter)
		defer ticker.Stop()
		stale = ticker.C
	}
	lastPose := time.Now()
	warned := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-p.done:
			p.drain()
			return nil

		case ev := <-p.events:
			p.apply(ev)
			if ev.IsPose() {
				lastPose = time.Now()
				warned = false
			}

		case now := <-stale:
			if !warned && now.Sub(lastPose) >= p.staleAfter {
				logger.Warn("no device feedback", zap.Duration("since", now.Sub(lastPose)))
				warned = true
			}
		}
	}
}

func (p *Pump) drain() {
	for {
		select {
		case ev := <-p.events:
			p.apply(ev)
		default:
			return
		}
	}
}

func (p *Pump) apply(ev Event) {
	if err := Apply(p.engine, ev); err != nil {
		logger.Warn("dropping device event", zap.Error(err))
	}
}
