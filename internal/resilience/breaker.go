// Package resilience stops a pipeline from hammering an upstream API that is
// clearly down or rejecting every request.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// State is the state of a circuit breaker.
type State int

const (
	// Closed lets requests through.
	Closed State = iota
	// Open rejects requests without issuing them.
	Open
	// HalfOpen lets a single probe through after the cooldown.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned for queries skipped while the breaker is open.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// BreakerConfig controls a Breaker.
type BreakerConfig struct {
	// Threshold is the number of consecutive failed queries that opens the
	// breaker.
	Threshold int
	// Cooldown is how long the breaker stays open before a probe is allowed.
	Cooldown time.Duration
	// OnStateChange is called on every transition, with the lock held.
	OnStateChange func(from, to State)
}

// Breaker is a consecutive-failure circuit breaker for one upstream API.
type Breaker struct {
	cfg BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	openedAt    time.Time
	probeActive bool

	now func() time.Time
}

// NewBreaker creates a closed breaker. A non-positive cooldown defaults to 30s.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold < 1 {
		cfg.Threshold = 1
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Allow reports whether a query may be issued. It returns ErrCircuitOpen while
// the breaker is open, and while a half-open probe is already in flight.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return ErrCircuitOpen
		}
		b.transition(HalfOpen)
		b.probeActive = true
		return nil
	case HalfOpen:
		if b.probeActive {
			return ErrCircuitOpen
		}
		b.probeActive = true
		return nil
	default:
		return nil
	}
}

// Record feeds the outcome of an allowed query back into the breaker.
// Cancellation is not held against the upstream.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		b.probeActive = false
		return
	}

	if err == nil {
		b.failures = 0
		b.probeActive = false
		if b.state != Closed {
			b.transition(Closed)
		}
		return
	}

	b.failures++
	switch b.state {
	case HalfOpen:
		b.probeActive = false
		b.open()
	case Closed:
		if b.failures >= b.cfg.Threshold {
			b.open()
		}
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.transition(Open)
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
