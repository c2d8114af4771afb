// Package preset supplies named neuron parameter tables. Presets are pure
// data lookups: each name maps to a fixed tuple of construction parameters
// for a leaky integrate-and-fire neuron, with potentials in millivolts and
// durations in simulated seconds.
package preset

import "github.com/nvandessel/spikesim/internal/neuron"

// Name identifies a preset in the closed set below.
type Name string

const (
	// Biological approximates cortical pyramidal cell constants.
	Biological Name = "biological"

	// NonRefractory is Biological with both refractory windows removed.
	NonRefractory Name = "non-refractory"

	// FastSpiking models an interneuron with quicker decay and shorter
	// refractory windows.
	FastSpiking Name = "fast-spiking"

	// HighThreshold raises the firing threshold well above Biological.
	HighThreshold Name = "high-threshold"
)

var table = map[Name]neuron.Params{
	Biological: {
		RestingPotential:   -70.0,
		Threshold:          -55.0,
		DecayRate:          0.05,
		PostSynapticDelay:  0.001,
		AbsoluteRefractory: 0.002,
		RelativeRefractory: 0.003,
	},
	NonRefractory: {
		RestingPotential:  -70.0,
		Threshold:         -55.0,
		DecayRate:         0.05,
		PostSynapticDelay: 0.001,
	},
	FastSpiking: {
		RestingPotential:   -65.0,
		Threshold:          -50.0,
		DecayRate:          0.1,
		PostSynapticDelay:  0.0005,
		AbsoluteRefractory: 0.001,
		RelativeRefractory: 0.002,
	},
	HighThreshold: {
		RestingPotential:   -70.0,
		Threshold:          -40.0,
		DecayRate:          0.05,
		PostSynapticDelay:  0.001,
		AbsoluteRefractory: 0.002,
		RelativeRefractory: 0.003,
	},
}

// Get returns the parameters for name, and whether the preset exists.
func Get(name Name) (neuron.Params, bool) {
	p, ok := table[name]
	return p, ok
}

// Names returns all preset names in a stable order.
func Names() []Name {
	return []Name{Biological, NonRefractory, FastSpiking, HighThreshold}
}
