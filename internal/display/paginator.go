// internal/display/paginator.go
package display

import (
	"errors"

	"github.com/tamzrod/iot-monitor/internal/clock"
)

// Page indices rendered by the device.
const (
	PageSensor = 0 // temperature and alert
	PageStatus = 1 // link and telemetry counters
)

// Paginator cycles a fixed number of pages at a fixed interval.
// Paging is purely local state; it has no failure mode.
type Paginator struct {
	interval uint64
	pages    int

	page int
	last uint64
}

// NewPaginator starts on page 0 with the interval measured from now.
func NewPaginator(intervalMs uint64, totalPages int, now uint64) (*Paginator, error) {
	if intervalMs == 0 {
		return nil, errors.New("display: interval must be > 0")
	}
	if totalPages < 1 {
		return nil, errors.New("display: at least one page required")
	}
	return &Paginator{interval: intervalMs, pages: totalPages, last: now}, nil
}

// Page returns the current page index, always in [0, totalPages).
func (p *Paginator) Page() int { return p.page }

// LastTick returns when the page last advanced.
func (p *Paginator) LastTick() uint64 { return p.last }

// Due reports whether an advance would fire at now.
func (p *Paginator) Due(now uint64) bool {
	return clock.Due(now, p.last, p.interval)
}

// Advance moves to the next page when due and returns it.
// fired is false, and the page unchanged, when not due.
func (p *Paginator) Advance(now uint64) (page int, fired bool) {
	if !p.Due(now) {
		return p.page, false
	}
	p.page = (p.page + 1) % p.pages
	p.last = now
	return p.page, true
}
