package brain

import (
	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/synapse"
)

// Allocator hands out monotonically increasing neuron and synapse ids. Each
// brain owns its own allocator, so id sequences are deterministic per brain
// and never couple across instances. The zero value is ready to use; the
// first id of each kind is 1.
type Allocator struct {
	lastNeuron  uint32
	lastSynapse uint32
}

// NeuronID allocates the next neuron id.
func (a *Allocator) NeuronID() neuron.ID {
	a.lastNeuron++
	return neuron.ID(a.lastNeuron)
}

// SynapseID allocates the next synapse id.
func (a *Allocator) SynapseID() synapse.ID {
	a.lastSynapse++
	return synapse.ID(a.lastSynapse)
}

// Observe advances the neuron counter past id, so ids of externally
// constructed neurons added via AddNeuron are never re-issued.
func (a *Allocator) Observe(id neuron.ID) {
	if uint32(id) > a.lastNeuron {
		a.lastNeuron = uint32(id)
	}
}
