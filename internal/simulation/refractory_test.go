package simulation_test

import (
	"testing"

	"github.com/nvandessel/spikesim/internal/config"
	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/simulation"
)

// refractoryNeuron has a 10ms absolute refractory window and no relative one.
func refractoryNeuron(name, anchor string) config.NeuronSpec {
	return config.NeuronSpec{
		Name:   name,
		Anchor: anchor,
		Params: &neuron.Params{
			RestingPotential:   0,
			Threshold:          1,
			DecayRate:          0.9,
			AbsoluteRefractory: 0.01,
		},
	}
}

// TestAbsoluteRefractory_AnchorPrevious pins the resolved anchor semantics:
// the refractory clock is measured from the stimulus before the one being
// delivered. A supra-threshold stimulus 5ms after a sub-threshold one is
// blocked by the 10ms absolute window; one arriving 45ms later fires.
func TestAbsoluteRefractory_AnchorPrevious(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:    "refractory-anchor-previous",
		Neurons: []config.NeuronSpec{refractoryNeuron("n", "previous")},
		Stimuli: []config.StimulusSpec{
			{At: 0, Target: "n", Strength: 0.2},
			{At: 0.005, Target: "n", Strength: 10},
			{At: 0.05, Target: "n", Strength: 10},
		},
	})

	spikes := result.SpikesOf("n")
	if len(spikes) != 1 || spikes[0] != 0.05 {
		t.Fatalf("spike times: got %v, want exactly [0.05]", spikes)
	}
}

// TestAbsoluteRefractory_AnchorCurrent pins the historical semantics: the
// anchor advances to the incoming stimulus before the threshold is
// evaluated, so the elapsed time is always zero and a neuron with a nonzero
// absolute window can never fire.
func TestAbsoluteRefractory_AnchorCurrent(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:    "refractory-anchor-current",
		Neurons: []config.NeuronSpec{refractoryNeuron("n", "current")},
		Stimuli: []config.StimulusSpec{
			{At: 0, Target: "n", Strength: 0.2},
			{At: 0.005, Target: "n", Strength: 10},
			{At: 0.05, Target: "n", Strength: 10},
			{At: 10, Target: "n", Strength: 1e9},
		},
	})

	simulation.AssertNeverFired(t, result, "n")
	simulation.AssertDrained(t, result)
}

// TestRelativeRefractory_RampBlocksThenAdmits drives a neuron with only a
// relative window: inside the window an above-baseline stimulus is rejected
// by the elevated threshold, past the window the same stimulus fires.
func TestRelativeRefractory_RampBlocksThenAdmits(t *testing.T) {
	spec := config.NeuronSpec{
		Name: "n",
		Params: &neuron.Params{
			RestingPotential:   0,
			Threshold:          1,
			DecayRate:          0.001, // slow decay so potentials survive the window
			RelativeRefractory: 0.02,
		},
	}

	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:    "relative-ramp",
		Neurons: []config.NeuronSpec{spec},
		Stimuli: []config.StimulusSpec{
			// At 5ms since the previous stimulus the threshold is
			// 1 + (1 - 0.005/0.02) = 1.75; a fresh 1.2 stays below it.
			{At: 0, Target: "n", Strength: 0.0},
			{At: 0.005, Target: "n", Strength: 1.2},
			// 45ms later the window has passed and the barely decayed 1.2
			// sits above baseline on its own.
			{At: 0.05, Target: "n", Strength: 0},
		},
	})

	spikes := result.SpikesOf("n")
	if len(spikes) != 1 || spikes[0] != 0.05 {
		t.Fatalf("spike times: got %v, want exactly [0.05]", spikes)
	}
}
