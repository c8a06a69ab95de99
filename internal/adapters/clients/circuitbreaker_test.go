package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type recordedTransition struct {
	name     string
	from, to State
}

func newTestBreaker(settings BreakerSettings) (*Breaker, *fakeClock, *[]recordedTransition) {
	clock := newFakeClock()
	transitions := &[]recordedTransition{}

	b := NewBreaker("cyclestreets", settings,
		withClock(clock.Now),
		WithStateChange(func(name string, from, to State) {
			*transitions = append(*transitions, recordedTransition{name: name, from: from, to: to})
		}),
	)

	return b, clock, transitions
}

func fail(t *testing.T, b *Breaker, n int) {
	t.Helper()

	for range n {
		require.NoError(t, b.Allow())
		b.Done(false)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestBreakerSettingsFrom(t *testing.T) {
	s := BreakerSettingsFrom(config.CircuitBreakerConfig{
		MaxFailures:   4,
		Timeout:       10 * time.Second,
		HalfOpenLimit: 2,
	})

	assert.Equal(t, BreakerSettings{MaxFailures: 4, OpenFor: 10 * time.Second, Probes: 2}, s)
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker("openrouteservice", BreakerSettings{})

	assert.Equal(t, "openrouteservice", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, BreakerSettings{
		MaxFailures: defaultBreakerMaxFailures,
		OpenFor:     defaultBreakerOpenFor,
		Probes:      defaultBreakerProbes,
	}, b.settings)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _, transitions := newTestBreaker(BreakerSettings{MaxFailures: 3, OpenFor: time.Minute, Probes: 1})

	fail(t, b, 2)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 2, b.Counts().ConsecutiveFailures)

	fail(t, b, 1)
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, Counts{}, b.Counts())

	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	assert.Equal(t, []recordedTransition{{name: "cyclestreets", from: StateClosed, to: StateOpen}}, *transitions)
}

func TestBreaker_SuccessResetsFailureRun(t *testing.T) {
	b, _, _ := newTestBreaker(BreakerSettings{MaxFailures: 3, OpenFor: time.Minute, Probes: 1})

	fail(t, b, 2)

	require.NoError(t, b.Allow())
	b.Done(true)

	fail(t, b, 2)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 5, b.Counts().Requests)
}

func TestBreaker_HalfOpenAfterOpenPeriod(t *testing.T) {
	b, clock, transitions := newTestBreaker(BreakerSettings{MaxFailures: 1, OpenFor: 30 * time.Second, Probes: 2})

	fail(t, b, 1)

	clock.Advance(29 * time.Second)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	clock.Advance(time.Second)
	require.NoError(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Allow())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen, "probe limit reached")
	assert.Equal(t, 2, b.Counts().InFlightProbes)

	b.Done(true)
	assert.Equal(t, StateHalfOpen, b.State())

	b.Done(true)
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []recordedTransition{
		{name: "cyclestreets", from: StateClosed, to: StateOpen},
		{name: "cyclestreets", from: StateOpen, to: StateHalfOpen},
		{name: "cyclestreets", from: StateHalfOpen, to: StateClosed},
	}, *transitions)
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b, clock, _ := newTestBreaker(BreakerSettings{MaxFailures: 1, OpenFor: 10 * time.Second, Probes: 1})

	fail(t, b, 1)
	clock.Advance(10 * time.Second)

	require.NoError(t, b.Allow())
	b.Done(false)

	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	clock.Advance(10 * time.Second)
	assert.NoError(t, b.Allow())
}

func TestBreaker_ReleaseFreesProbeSlot(t *testing.T) {
	b, clock, _ := newTestBreaker(BreakerSettings{MaxFailures: 1, OpenFor: time.Second, Probes: 1})

	fail(t, b, 1)
	clock.Advance(time.Second)

	require.NoError(t, b.Allow())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	b.Release()
	assert.Equal(t, StateHalfOpen, b.State())
	assert.NoError(t, b.Allow())
}

func TestBreaker_Concurrent(t *testing.T) {
	b := NewBreaker("openrouteservice", BreakerSettings{MaxFailures: 1000, OpenFor: time.Minute, Probes: 1})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)

		go func(success bool) {
			defer wg.Done()

			if b.Allow() == nil {
				b.Done(success)
			}
		}(i%2 == 0)
	}

	wg.Wait()

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 50, b.Counts().Requests)
}
