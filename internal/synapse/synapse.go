// Package synapse implements the directed, weighted, delayed connectivity
// graph between neurons. Every synapse is indexed both by its source neuron
// (outgoing) and by its target neuron (incoming), and the two indices are
// kept symmetric under every mutation.
package synapse

import (
	"errors"
	"math/rand/v2"

	"github.com/nvandessel/spikesim/internal/neuron"
)

// ID identifies a synapse. IDs are allocated by the owning brain.
type ID uint32

var (
	// ErrInvalidEndpoint reports synapse creation referencing an
	// unregistered neuron. The graph is left unchanged.
	ErrInvalidEndpoint = errors.New("synapse: endpoint neuron not registered")

	// ErrUnknownSynapse reports an operation addressing a synapse id that
	// is not present.
	ErrUnknownSynapse = errors.New("synapse: unknown synapse id")
)

// Synapse is a directed edge from Source to Target. Weight is signed:
// positive stimuli are excitatory, negative inhibitory. Delay is the
// simulated transmission latency in seconds and is never negative. A
// synapse is immutable after creation; only graph membership changes.
type Synapse struct {
	ID     ID        `json:"id"`
	Source neuron.ID `json:"source"`
	Target neuron.ID `json:"target"`
	Weight float64   `json:"weight"`
	Delay  float64   `json:"delay"`
}

// FractionalWeight returns a weight that moves a target neuron the given
// fraction of the way from its resting potential to its threshold. A
// fraction of 1 makes a single spike exactly reach threshold.
func FractionalWeight(threshold, restingPotential, fraction float64) float64 {
	return fraction * (threshold - restingPotential)
}

// DelayFromDistribution draws a synaptic delay from a gaussian with the
// given mean and standard deviation, clamped at zero.
func DelayFromDistribution(rng *rand.Rand, mean, std float64) float64 {
	return max(0, rng.NormFloat64()*std+mean)
}
