// Package assembly builds a runnable brain from a validated scenario:
// neurons first (ids allocated in declaration order), then synapses, then
// the initial stimulus events.
package assembly

import (
	"fmt"

	"github.com/nvandessel/spikesim/internal/brain"
	"github.com/nvandessel/spikesim/internal/config"
	"github.com/nvandessel/spikesim/internal/neuron"
)

// Network is an assembled scenario: the brain plus the mapping from
// scenario-local neuron names to allocated ids.
type Network struct {
	Brain *brain.Brain
	IDs   map[string]neuron.ID
}

// Build assembles the scenario into a fresh brain. Brain options (spike
// hooks, delivery limits) pass through to the constructor.
func Build(s *config.Scenario, opts ...brain.Option) (*Network, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("assemble network: %w", err)
	}

	b := brain.New(opts...)
	ids := make(map[string]neuron.ID, len(s.Neurons))

	for _, spec := range s.Neurons {
		anchor, err := spec.AnchorPolicy()
		if err != nil {
			return nil, fmt.Errorf("assemble neuron %q: %w", spec.Name, err)
		}
		n := b.NewNeuron(spec.NeuronParams(), neuron.WithAnchor(anchor))
		ids[spec.Name] = n.ID()
	}

	for _, spec := range s.Synapses {
		if _, err := b.Connect(ids[spec.Source], ids[spec.Target], spec.Weight, spec.Delay); err != nil {
			return nil, fmt.Errorf("assemble synapse %s->%s: %w", spec.Source, spec.Target, err)
		}
	}

	for _, spec := range s.Stimuli {
		b.AddEvent(spec.At, brain.Event{Target: ids[spec.Target], Strength: spec.Strength})
	}

	return &Network{Brain: b, IDs: ids}, nil
}
