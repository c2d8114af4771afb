package simulation

import (
	"math"
	"testing"
)

// AssertFired asserts that the named neuron fired at the given simulated
// time (within a small tolerance).
func AssertFired(t *testing.T, result Result, name string, at float64) {
	t.Helper()
	for _, spike := range result.Spikes {
		if spike.Neuron == name && math.Abs(spike.Time-at) < 1e-9 {
			return
		}
	}
	t.Errorf("AssertFired: %s never fired at t=%g; spikes: %v", name, at, result.Spikes)
}

// AssertNeverFired asserts that the named neuron produced no spike in the
// whole run.
func AssertNeverFired(t *testing.T, result Result, name string) {
	t.Helper()
	for _, spike := range result.Spikes {
		if spike.Neuron == name {
			t.Errorf("AssertNeverFired: %s fired at t=%g", name, spike.Time)
			return
		}
	}
}

// AssertSpikeCount asserts the named neuron's total spike count.
func AssertSpikeCount(t *testing.T, result Result, name string, want int) {
	t.Helper()
	if got := len(result.SpikesOf(name)); got != want {
		t.Errorf("AssertSpikeCount: %s fired %d times, want %d", name, got, want)
	}
}

// AssertDrained asserts the run consumed every buffered event.
func AssertDrained(t *testing.T, result Result) {
	t.Helper()
	if !result.Drained {
		t.Errorf("AssertDrained: run stopped after %d steps with events still pending", result.Steps)
	}
}

// AssertFinalTime asserts the simulated clock after the run.
func AssertFinalTime(t *testing.T, result Result, want float64) {
	t.Helper()
	if math.Abs(result.FinalTime-want) > 1e-9 {
		t.Errorf("AssertFinalTime: got %g, want %g", result.FinalTime, want)
	}
}
