package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("breaker is open")

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	CoolDown         time.Duration
	HalfOpenProbes   int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		CoolDown:         15 * time.Second,
		HalfOpenProbes:   2,
	}
}

func (c BreakerConfig) normalized() BreakerConfig {
	defaults := DefaultBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.CoolDown <= 0 {
		c.CoolDown = defaults.CoolDown
	}
	if c.HalfOpenProbes < 1 {
		c.HalfOpenProbes = defaults.HalfOpenProbes
	}
	return c
}

// Breaker trips after a run of consecutive failures, rejects work while
// open, and lets a bounded number of probes through after the cool-down.
type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     BreakerState
	failures  int
	openedAt  time.Time
	probes    int
	probeWins int
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{cfg: cfg.normalized(), now: time.Now, state: BreakerClosed}
}

// Do runs fn under the breaker. When the breaker is open the call is
// rejected with ErrBreakerOpen without invoking fn. A disabled breaker
// passes every call through.
func (b *Breaker) Do(fn func() error) error {
	if b == nil || !b.cfg.Enabled {
		return fn()
	}

	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	b.observe(err == nil)
	return err
}

func (b *Breaker) State() BreakerState {
	if b == nil {
		return BreakerClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.CoolDown {
		return BreakerHalfOpen
	}
	return b.state
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if b.now().Sub(b.openedAt) < b.cfg.CoolDown {
			return ErrBreakerOpen
		}
		b.state = BreakerHalfOpen
		b.probes = 0
		b.probeWins = 0
	}

	if b.state == BreakerHalfOpen {
		if b.probes >= b.cfg.HalfOpenProbes {
			return ErrBreakerOpen
		}
		b.probes++
	}

	return nil
}

func (b *Breaker) observe(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		if ok {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case BreakerHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		if !ok {
			b.trip()
			return
		}
		b.probeWins++
		if b.probeWins >= b.cfg.HalfOpenProbes && b.probes == 0 {
			b.state = BreakerClosed
			b.failures = 0
			b.openedAt = time.Time{}
		}
	case BreakerOpen:
		if !ok {
			b.openedAt = b.now()
		}
	}
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.probes = 0
	b.probeWins = 0
}
