package alert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type emitted struct {
	Index int
	Kind  Kind
}

func run(threshold float64, values []float64) []emitted {
	e := NewEvaluator(threshold)

	var out []emitted
	for i, v := range values {
		if ev, ok := e.Evaluate(v); ok {
			out = append(out, emitted{Index: i, Kind: ev.Kind})
		}
	}
	return out
}

func TestEvaluate_EdgeTriggered(t *testing.T) {
	got := run(30, []float64{29, 31, 32, 31, 29})
	want := []emitted{
		{Index: 1, Kind: Rise},
		{Index: 4, Kind: Clear},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_ThresholdIsInclusive(t *testing.T) {
	got := run(30, []float64{30, 30, 29.9, 30})
	want := []emitted{
		{Index: 0, Kind: Rise},
		{Index: 2, Kind: Clear},
		{Index: 3, Kind: Rise},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_OneRisePerCrossing(t *testing.T) {
	values := []float64{25, 35, 36, 37, 20, 21, 40, 41, 10}

	rises, clears := 0, 0
	for _, ev := range run(30, values) {
		switch ev.Kind {
		case Rise:
			rises++
		case Clear:
			clears++
		}
	}

	assert.Equal(t, 2, rises)
	assert.Equal(t, 2, clears)
}

func TestEvaluate_NeverBelowNeverFires(t *testing.T) {
	assert.Empty(t, run(30, []float64{1, 2, 3, 29.99}))
}

func TestEvaluate_ActiveTracksState(t *testing.T) {
	e := NewEvaluator(30)
	assert.False(t, e.Active())

	ev, ok := e.Evaluate(31)
	assert.True(t, ok)
	assert.True(t, e.Active())
	assert.Equal(t, "RISE value=31.0 threshold=30.0", ev.String())

	e.Evaluate(10)
	assert.False(t, e.Active())
}
