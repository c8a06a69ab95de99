package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
)

// State is the position of a provider breaker.
type State int

const (
	// StateClosed lets every provider call through.
	StateClosed State = iota

	// StateOpen rejects provider calls with ErrCircuitOpen.
	StateOpen

	// StateHalfOpen lets a bounded number of probe calls through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	defaultBreakerMaxFailures = 5
	defaultBreakerProbes      = 1
	defaultBreakerOpenFor     = 30 * time.Second
)

// BreakerSettings tunes a Breaker.
type BreakerSettings struct {
	// MaxFailures consecutive failures open the breaker.
	MaxFailures int

	// OpenFor is how long an open breaker rejects calls before probing.
	OpenFor time.Duration

	// Probes is both the in-flight probe limit and the number of successful
	// probes needed to close again.
	Probes int
}

// BreakerSettingsFrom converts the client circuit configuration.
func BreakerSettingsFrom(cfg config.CircuitBreakerConfig) BreakerSettings {
	return BreakerSettings{
		MaxFailures: cfg.MaxFailures,
		OpenFor:     cfg.Timeout,
		Probes:      cfg.HalfOpenLimit,
	}
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.MaxFailures <= 0 {
		s.MaxFailures = defaultBreakerMaxFailures
	}

	if s.OpenFor <= 0 {
		s.OpenFor = defaultBreakerOpenFor
	}

	if s.Probes <= 0 {
		s.Probes = defaultBreakerProbes
	}

	return s
}

// Counts is a snapshot of the breaker's bookkeeping. It resets on every
// state change.
type Counts struct {
	Requests             int
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	InFlightProbes       int
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithStateChange registers fn to run after every transition. It runs on the
// calling goroutine once the breaker lock is released.
func WithStateChange(fn func(name string, from, to State)) BreakerOption {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

func withClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) {
		b.now = now
	}
}

// Breaker stops calling a routing provider that keeps failing.
//
//	closed    -> open       after MaxFailures consecutive failures
//	open      -> half-open  once OpenFor has elapsed
//	half-open -> closed     after Probes successful probes
//	half-open -> open       on any failed probe
type Breaker struct {
	name     string
	settings BreakerSettings
	onChange func(name string, from, to State)
	now      func() time.Time

	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
}

// NewBreaker creates a closed breaker for the named provider.
func NewBreaker(name string, settings BreakerSettings, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		name:     name,
		settings: settings.withDefaults(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name returns the provider the breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

type transition struct {
	from, to State
}

// Allow reports whether a call may proceed. Every nil return must be
// followed by exactly one Done or Release.
func (b *Breaker) Allow() error {
	b.mu.Lock()

	var changed *transition

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.settings.OpenFor {
			b.mu.Unlock()
			return ErrCircuitOpen
		}

		changed = b.setState(StateHalfOpen)

		fallthrough
	case StateHalfOpen:
		if b.counts.InFlightProbes >= b.settings.Probes {
			b.mu.Unlock()
			b.notify(changed)

			return ErrCircuitOpen
		}

		b.counts.InFlightProbes++
	}

	b.counts.Requests++
	b.mu.Unlock()
	b.notify(changed)

	return nil
}

// Done records the outcome of a call admitted by Allow.
func (b *Breaker) Done(success bool) {
	b.mu.Lock()

	if b.state == StateHalfOpen && b.counts.InFlightProbes > 0 {
		b.counts.InFlightProbes--
	}

	var changed *transition

	if success {
		b.counts.ConsecutiveFailures = 0
		b.counts.ConsecutiveSuccesses++

		if b.state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.Probes {
			changed = b.setState(StateClosed)
		}
	} else {
		b.counts.ConsecutiveSuccesses = 0
		b.counts.ConsecutiveFailures++

		switch b.state {
		case StateClosed:
			if b.counts.ConsecutiveFailures >= b.settings.MaxFailures {
				changed = b.setState(StateOpen)
			}
		case StateHalfOpen:
			changed = b.setState(StateOpen)
		}
	}

	b.mu.Unlock()
	b.notify(changed)
}

// Release returns a probe slot without recording an outcome. It is used
// when the caller abandoned the call, which says nothing about the provider.
func (b *Breaker) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.counts.InFlightProbes > 0 {
		b.counts.InFlightProbes--
	}
}

// State returns the current state without advancing an expired open period.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Counts returns a snapshot of the current bookkeeping.
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.counts
}

// setState must be called with mu held.
func (b *Breaker) setState(to State) *transition {
	if b.state == to {
		return nil
	}

	from := b.state
	b.state = to
	b.counts = Counts{}

	if to == StateOpen {
		b.openedAt = b.now()
	}

	return &transition{from: from, to: to}
}

func (b *Breaker) notify(t *transition) {
	if t == nil || b.onChange == nil {
		return
	}

	b.onChange(b.name, t.from, t.to)
}
