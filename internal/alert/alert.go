// internal/alert/alert.go
package alert

import "fmt"

// Kind is the direction of a threshold crossing.
type Kind uint8

const (
	// Rise fires on the first value at or above the threshold.
	Rise Kind = iota + 1
	// Clear fires on the first value below the threshold after a Rise.
	Clear
)

func (k Kind) String() string {
	switch k {
	case Rise:
		return "RISE"
	case Clear:
		return "CLEAR"
	default:
		return "UNKNOWN"
	}
}

// Event is emitted on a threshold edge only. It lives for one tick.
type Event struct {
	Kind      Kind
	Value     float64
	Threshold float64
}

func (e Event) String() string {
	return fmt.Sprintf("%s value=%.1f threshold=%.1f", e.Kind, e.Value, e.Threshold)
}

// Evaluator is an edge-triggered comparator.
// Its only state is whether the alert is currently active.
type Evaluator struct {
	threshold float64
	active    bool
}

func NewEvaluator(thresholdC float64) *Evaluator {
	return &Evaluator{threshold: thresholdC}
}

// Active reports the current alert state.
func (e *Evaluator) Active() bool { return e.active }

// Evaluate compares value with the threshold and returns an event on a
// rising or falling edge. Values that stay on the same side yield nothing.
func (e *Evaluator) Evaluate(value float64) (Event, bool) {
	above := value >= e.threshold

	switch {
	case above && !e.active:
		e.active = true
		return Event{Kind: Rise, Value: value, Threshold: e.threshold}, true
	case !above && e.active:
		e.active = false
		return Event{Kind: Clear, Value: value, Threshold: e.threshold}, true
	default:
		return Event{}, false
	}
}
