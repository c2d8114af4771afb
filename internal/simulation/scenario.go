package simulation

import (
	"github.com/nvandessel/spikesim/internal/assembly"
	"github.com/nvandessel/spikesim/internal/config"
)

// Scenario defines a complete simulation experiment over a named network.
type Scenario struct {
	Name     string
	Neurons  []config.NeuronSpec
	Synapses []config.SynapseSpec
	Stimuli  []config.StimulusSpec

	// MaxSteps caps the run; 0 means the config default.
	MaxSteps int

	// DeliveryLimit bounds batch concurrency; 0 means unbounded.
	DeliveryLimit int

	// BeforeStep, when non-nil, is called before each step executes. Use
	// this to mutate the network mid-run (e.g. deleting a neuron while
	// events for it are still buffered).
	BeforeStep func(step int, net *assembly.Network)
}

// SpikeRecord is one committed fire, with the neuron resolved back to its
// scenario name.
type SpikeRecord struct {
	Time   float64
	Neuron string
}

// Result captures a finished run.
type Result struct {
	Steps     int
	FinalTime float64
	Spikes    []SpikeRecord
	Drained   bool

	// Network is the assembled network after the run, for direct state
	// inspection.
	Network *assembly.Network
}

// SpikesOf returns the spike times of one named neuron, in commit order.
func (r Result) SpikesOf(name string) []float64 {
	var times []float64
	for _, s := range r.Spikes {
		if s.Neuron == name {
			times = append(times, s.Time)
		}
	}
	return times
}
