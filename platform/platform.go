// Package platform provides the two host services the core deliberately
// keeps outside its boundary: a monotonic clock and a deterministic PRNG,
// exposed here because the driver needs a concrete implementation to pass
// to whatever consumes them (a future profile-port hook or seed-echoing
// test harness). Neither is imported by lexer/parser/ssa/interp.
package platform

import (
	"sync"
	"time"
)

// Clock returns the current time as seconds since the Unix epoch.
type Clock struct{}

// clockStart anchors every Clock reading; time.Since measures from it with
// Go's monotonic clock, so later readings never go backward.
var clockStart = time.Now()

// Now returns seconds since the Unix epoch as a float, advancing
// monotonically from the wall-clock time at which the process started.
func (Clock) Now() float64 {
	return float64(clockStart.UnixNano())/1e9 + time.Since(clockStart).Seconds()
}

// PRNG is a deterministic xorshift64 generator seeded on first use from
// the clock if never explicitly seeded, matching the original's
// lazily-seeded global generator.
type PRNG struct {
	mu    sync.Mutex
	state uint64
	clock Clock
}

// NewPRNG returns an unseeded PRNG; the first Next call seeds it from the
// clock.
func NewPRNG() *PRNG { return &PRNG{} }

// Seed fixes the generator's state.
func (p *PRNG) Seed(seed uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = seed
}

// Next returns the next pseudo-random word and advances the generator's
// state via the xorshift64 recurrence x^=x<<13; x^=x>>7; x^=x<<17.
func (p *PRNG) Next() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	x := p.state
	if x == 0 {
		x = uint64(p.clock.Now())
	}
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	p.state = x
	return x
}
