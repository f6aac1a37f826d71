// internal/clock/clock.go
package clock

import "time"

// Clock is the tick source for every timer in the device.
// NowMs MUST be monotonically non-decreasing.
type Clock interface {
	NowMs() uint64
}

// Elapsed returns now - since in milliseconds.
// Unsigned subtraction stays correct across a counter wrap.
func Elapsed(now, since uint64) uint64 {
	return now - since
}

// Due reports whether interval has elapsed since last.
func Due(now, last, interval uint64) bool {
	return Elapsed(now, last) >= interval
}

// Monotonic reads Go's monotonic clock relative to its creation.
// Wall-clock adjustments do not affect it.
type Monotonic struct {
	start time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (m *Monotonic) NowMs() uint64 {
	return uint64(time.Since(m.start).Milliseconds())
}

// Manual is a clock driven by hand. Used for simulated time.
// Not safe for concurrent use.
type Manual struct {
	now uint64
}

func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) NowMs() uint64 { return m.now }

// Advance moves the clock forward by ms.
func (m *Manual) Advance(ms uint64) { m.now += ms }

// Set jumps to an absolute time. Moving backwards is ignored.
func (m *Manual) Set(ms uint64) {
	if ms > m.now {
		m.now = ms
	}
}
