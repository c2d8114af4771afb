package synapse

import "github.com/nvandessel/spikesim/internal/neuron"

// Graph owns all synapse records and, per registered neuron, an
// insertion-ordered list of outgoing and incoming synapse ids. A registered
// neuron with no synapses has empty lists, not absent ones.
//
// Graph is not safe for concurrent use; the owning brain is single-writer.
type Graph struct {
	synapses map[ID]Synapse
	outgoing map[neuron.ID][]ID
	incoming map[neuron.ID][]ID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		synapses: make(map[ID]Synapse),
		outgoing: make(map[neuron.ID][]ID),
		incoming: make(map[neuron.ID][]ID),
	}
}

// RegisterNeuron creates empty outgoing and incoming lists for id.
// Registering an already-registered neuron is a no-op.
func (g *Graph) RegisterNeuron(id neuron.ID) {
	if _, ok := g.outgoing[id]; !ok {
		g.outgoing[id] = []ID{}
	}
	if _, ok := g.incoming[id]; !ok {
		g.incoming[id] = []ID{}
	}
}

// Registered reports whether id has been registered.
func (g *Graph) Registered(id neuron.ID) bool {
	_, ok := g.outgoing[id]
	return ok
}

// CreateSynapse stores a synapse with the given id from source to target and
// appends it to both endpoints' lists. It returns ErrInvalidEndpoint, leaving
// the graph unchanged, if either endpoint is unregistered. Self-loops are
// permitted.
func (g *Graph) CreateSynapse(id ID, source, target neuron.ID, weight, delay float64) error {
	if !g.Registered(source) || !g.Registered(target) {
		return ErrInvalidEndpoint
	}
	g.synapses[id] = Synapse{ID: id, Source: source, Target: target, Weight: weight, Delay: delay}
	g.outgoing[source] = append(g.outgoing[source], id)
	g.incoming[target] = append(g.incoming[target], id)
	return nil
}

// RemoveSynapse deletes the record and removes its id from the source's
// outgoing list and the target's incoming list. It returns ErrUnknownSynapse
// if the id is not present.
func (g *Graph) RemoveSynapse(id ID) error {
	syn, ok := g.synapses[id]
	if !ok {
		return ErrUnknownSynapse
	}
	delete(g.synapses, id)
	g.outgoing[syn.Source] = removeID(g.outgoing[syn.Source], id)
	g.incoming[syn.Target] = removeID(g.incoming[syn.Target], id)
	return nil
}

// DisconnectNeuron removes every synapse for which id is source or target:
// the record, and the synapse id from both endpoints' lists. The neuron's own
// lists become empty but stay registered. Self-loops are handled once.
// An unregistered id is a no-op.
func (g *Graph) DisconnectNeuron(id neuron.ID) {
	if !g.Registered(id) {
		return
	}
	// Collect first: removal mutates the lists being walked.
	touching := make(map[ID]struct{}, len(g.outgoing[id])+len(g.incoming[id]))
	for _, sid := range g.outgoing[id] {
		touching[sid] = struct{}{}
	}
	for _, sid := range g.incoming[id] {
		touching[sid] = struct{}{}
	}
	for sid := range touching {
		syn := g.synapses[sid]
		delete(g.synapses, sid)
		g.outgoing[syn.Source] = removeID(g.outgoing[syn.Source], sid)
		g.incoming[syn.Target] = removeID(g.incoming[syn.Target], sid)
	}
}

// DropNeuron disconnects the neuron and removes its lists entirely, leaving
// no trace of the id in the graph. An unregistered id is a no-op.
func (g *Graph) DropNeuron(id neuron.ID) {
	g.DisconnectNeuron(id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
}

// Outgoing returns the synapses whose source is id, in insertion order.
// Unknown or synapse-less neurons yield an empty slice.
func (g *Graph) Outgoing(id neuron.ID) []Synapse {
	return g.resolve(g.outgoing[id])
}

// Incoming returns the synapses whose target is id, in insertion order.
// Unknown or synapse-less neurons yield an empty slice.
func (g *Graph) Incoming(id neuron.ID) []Synapse {
	return g.resolve(g.incoming[id])
}

// Synapse returns the record for id, and whether it exists.
func (g *Graph) Synapse(id ID) (Synapse, bool) {
	syn, ok := g.synapses[id]
	return syn, ok
}

// Count returns the number of synapses in the graph.
func (g *Graph) Count() int {
	return len(g.synapses)
}

func (g *Graph) resolve(ids []ID) []Synapse {
	out := make([]Synapse, 0, len(ids))
	for _, sid := range ids {
		if syn, ok := g.synapses[sid]; ok {
			out = append(out, syn)
		}
	}
	return out
}

func removeID(ids []ID, id ID) []ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
