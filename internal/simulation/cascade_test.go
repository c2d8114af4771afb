package simulation_test

import (
	"testing"

	"github.com/nvandessel/spikesim/internal/config"
	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/simulation"
)

// unitNeuron is a non-refractory neuron with rest 0 and threshold 1.
func unitNeuron(name string) config.NeuronSpec {
	return config.NeuronSpec{
		Name: name,
		Params: &neuron.Params{
			RestingPotential: 0,
			Threshold:        1,
			DecayRate:        0.9,
		},
	}
}

// TestTwoNeuronCascade pins the canonical propagation path: a stimulus that
// exactly reaches a's threshold fires a at t=0, the a->b synapse schedules an
// event at t=0.002, and the next step makes b fire because the weight equals
// b's threshold-to-rest gap.
func TestTwoNeuronCascade(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:    "two-neuron-cascade",
		Neurons: []config.NeuronSpec{unitNeuron("a"), unitNeuron("b")},
		Synapses: []config.SynapseSpec{
			{Source: "a", Target: "b", Weight: 1, Delay: 0.002},
		},
		Stimuli: []config.StimulusSpec{
			{At: 0, Target: "a", Strength: 1},
		},
	})

	simulation.AssertFired(t, result, "a", 0)
	simulation.AssertFired(t, result, "b", 0.002)
	simulation.AssertSpikeCount(t, result, "a", 1)
	simulation.AssertSpikeCount(t, result, "b", 1)
	simulation.AssertFinalTime(t, result, 0.002)
	simulation.AssertDrained(t, result)

	if result.Steps != 2 {
		t.Errorf("cascade took %d steps, want 2", result.Steps)
	}
}

// TestFanOutDelays checks that one spike schedules per outgoing synapse and
// each descendant arrives at its own delay.
func TestFanOutDelays(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name: "fan-out",
		Neurons: []config.NeuronSpec{
			unitNeuron("hub"), unitNeuron("b"), unitNeuron("c"), unitNeuron("d"),
		},
		Synapses: []config.SynapseSpec{
			{Source: "hub", Target: "b", Weight: 1, Delay: 0.001},
			{Source: "hub", Target: "c", Weight: 1, Delay: 0.002},
			{Source: "hub", Target: "d", Weight: 1, Delay: 0.003},
		},
		Stimuli: []config.StimulusSpec{
			{At: 0, Target: "hub", Strength: 2},
		},
	})

	simulation.AssertFired(t, result, "b", 0.001)
	simulation.AssertFired(t, result, "c", 0.002)
	simulation.AssertFired(t, result, "d", 0.003)
	simulation.AssertDrained(t, result)
}

// TestInhibitionCancelsExcitation drives b from an excitatory and an
// inhibitory synapse arriving in the same bucket; the net stimulus stays
// below threshold in either application order.
func TestInhibitionCancelsExcitation(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:    "inhibition",
		Neurons: []config.NeuronSpec{unitNeuron("exc"), unitNeuron("inh"), unitNeuron("b")},
		Synapses: []config.SynapseSpec{
			{Source: "exc", Target: "b", Weight: 0.8, Delay: 0.001},
			{Source: "inh", Target: "b", Weight: -0.5, Delay: 0.001},
		},
		Stimuli: []config.StimulusSpec{
			{At: 0, Target: "exc", Strength: 2},
			{At: 0, Target: "inh", Strength: 2},
		},
	})

	simulation.AssertNeverFired(t, result, "b")
	simulation.AssertDrained(t, result)

	// The retained sub-threshold potential is the sum of both stimuli.
	got, ok := result.Network.Brain.PotentialAt(result.Network.IDs["b"], 0.001)
	if !ok {
		t.Fatal("neuron b missing after run")
	}
	if diff := got - 0.3; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("b potential after cancelled stimuli: got %g, want 0.3", got)
	}
}

// TestBiologicalPresetFires runs a preset neuron end to end: a 15mV stimulus
// closes the full rest-to-threshold gap and fires once past the refractory
// windows.
func TestBiologicalPresetFires(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name: "biological-preset",
		Neurons: []config.NeuronSpec{
			{Name: "cell", Preset: "biological"},
		},
		Stimuli: []config.StimulusSpec{
			{At: 1, Target: "cell", Strength: 15},
		},
	})

	simulation.AssertFired(t, result, "cell", 1)
	simulation.AssertDrained(t, result)
}
