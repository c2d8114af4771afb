// Package brain implements the event-driven scheduler that owns the neuron
// collection, the synapse graph, and the time-ordered buffer of pending
// stimuli. Simulated time advances only when a batch of events is consumed;
// there is no global clock tick and no wall-clock relationship.
package brain

import (
	"context"
	"fmt"

	"github.com/baxromumarov/scoped"

	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/synapse"
)

// SpikeHook observes every fire as it is committed by a step, with the
// simulated time of the spike and the firing neuron.
type SpikeHook func(t float64, id neuron.ID)

// Brain aggregates neurons, synapses and pending events, and drives the
// simulation step by step.
//
// A brain is single-writer: mutating the neuron or synapse population, adding
// events, and stepping must not overlap. Within one Step the popped batch is
// delivered concurrently across neurons; that concurrency is internal and
// joined before Step returns.
type Brain struct {
	now     float64
	neurons map[neuron.ID]*neuron.Neuron
	graph   *synapse.Graph
	pending *eventBuffer
	alloc   Allocator

	onSpike       SpikeHook
	deliveryLimit int
}

// Option configures a brain at construction.
type Option func(*Brain)

// WithSpikeHook registers an observer invoked for every committed fire.
// The hook runs on the stepping goroutine, after the batch has completed.
func WithSpikeHook(hook SpikeHook) Option {
	return func(b *Brain) { b.onSpike = hook }
}

// WithDeliveryLimit bounds how many deliveries of one batch run concurrently.
// Zero, the default, means one goroutine per target neuron.
func WithDeliveryLimit(n int) Option {
	return func(b *Brain) { b.deliveryLimit = n }
}

// New creates an empty brain at simulated time zero.
func New(opts ...Option) *Brain {
	b := &Brain{
		neurons: make(map[neuron.ID]*neuron.Neuron),
		graph:   synapse.NewGraph(),
		pending: newEventBuffer(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Now returns the current simulated time. It is monotonically non-decreasing
// and advances only when Step consumes a batch.
func (b *Brain) Now() float64 { return b.now }

// NewNeuron allocates an id, constructs a neuron with the given parameters
// and registers it.
func (b *Brain) NewNeuron(p neuron.Params, opts ...neuron.Option) *neuron.Neuron {
	n := neuron.New(b.alloc.NeuronID(), p, opts...)
	b.AddNeuron(n)
	return n
}

// AddNeuron registers an externally constructed neuron in the aggregate and
// in the synapse graph. Adding an id that already exists is a no-op.
func (b *Brain) AddNeuron(n *neuron.Neuron) {
	if _, ok := b.neurons[n.ID()]; ok {
		return
	}
	b.alloc.Observe(n.ID())
	b.neurons[n.ID()] = n
	b.graph.RegisterNeuron(n.ID())
}

// NeuronExists reports whether id is registered.
func (b *Brain) NeuronExists(id neuron.ID) bool {
	_, ok := b.neurons[id]
	return ok
}

// Neuron returns the neuron for id, and whether it exists.
func (b *Brain) Neuron(id neuron.ID) (*neuron.Neuron, bool) {
	n, ok := b.neurons[id]
	return n, ok
}

// NeuronCount returns the number of registered neurons.
func (b *Brain) NeuronCount() int { return len(b.neurons) }

// PotentialAt returns the membrane potential of id at time t without
// mutating it. The second return is false for an unknown neuron.
func (b *Brain) PotentialAt(id neuron.ID, t float64) (float64, bool) {
	n, ok := b.neurons[id]
	if !ok {
		return 0, false
	}
	return n.PotentialAt(t), true
}

// DeleteNeuron removes the neuron, every synapse touching it, and every
// pending event addressed to it, leaving no dangling references in the graph
// or the buffer. An unknown id is a no-op.
func (b *Brain) DeleteNeuron(id neuron.ID) {
	if _, ok := b.neurons[id]; !ok {
		return
	}
	delete(b.neurons, id)
	b.graph.DropNeuron(id)
	b.pending.purgeTarget(id)
}

// Connect allocates a synapse id and creates a directed synapse from source
// to target. It fails with synapse.ErrInvalidEndpoint if either neuron is
// unknown.
func (b *Brain) Connect(source, target neuron.ID, weight, delay float64) (synapse.ID, error) {
	if !b.NeuronExists(source) || !b.NeuronExists(target) {
		return 0, fmt.Errorf("connect %d->%d: %w", source, target, synapse.ErrInvalidEndpoint)
	}
	id := b.alloc.SynapseID()
	if err := b.graph.CreateSynapse(id, source, target, weight, delay); err != nil {
		return 0, err
	}
	return id, nil
}

// Disconnect removes a single synapse. It returns synapse.ErrUnknownSynapse
// for an unknown id.
func (b *Brain) Disconnect(id synapse.ID) error {
	return b.graph.RemoveSynapse(id)
}

// Outgoing returns the synapses leaving id, in insertion order.
func (b *Brain) Outgoing(id neuron.ID) []synapse.Synapse {
	return b.graph.Outgoing(id)
}

// Incoming returns the synapses arriving at id, in insertion order.
func (b *Brain) Incoming(id neuron.ID) []synapse.Synapse {
	return b.graph.Incoming(id)
}

// SynapseCount returns the number of synapses in the graph.
func (b *Brain) SynapseCount() int { return b.graph.Count() }

// AddEvent buffers ev for delivery at the given timestamp. Any timestamp is
// legal, including one in the simulated past (it will simply be the next
// minimum) and including after the buffer has drained, which re-arms the
// scheduler.
func (b *Brain) AddEvent(timestamp float64, ev Event) {
	b.pending.add(timestamp, ev)
}

// Pending returns the number of buffered events.
func (b *Brain) Pending() int { return b.pending.len() }

// Drained reports whether the buffer is empty.
func (b *Brain) Drained() bool { return b.pending.len() == 0 }

// Step consumes the earliest event batch and returns the number of spikes it
// produced. With an empty buffer it is a no-op and time does not advance.
//
// All events sharing the popped timestamp are delivered concurrently, one
// goroutine per target neuron, so one neuron's post-synaptic latency never
// serializes another's delivery. Events targeting the same neuron are applied
// strictly in buffer order within that neuron's goroutine. Events produced by
// fires are staged and merged into the buffer only after the whole batch has
// completed; even a zero-delay descendant waits for the next Step.
func (b *Brain) Step() int {
	t, events, ok := b.pending.popMin()
	if !ok {
		return 0
	}
	b.now = t

	// Group strengths by target, preserving both first-appearance order of
	// targets and per-target event order. Targets deleted while the event
	// was buffered have no entry in the neuron map and are skipped.
	var order []neuron.ID
	groups := make(map[neuron.ID][]float64)
	for _, ev := range events {
		if _, exists := b.neurons[ev.Target]; !exists {
			continue
		}
		if _, seen := groups[ev.Target]; !seen {
			order = append(order, ev.Target)
		}
		groups[ev.Target] = append(groups[ev.Target], ev.Strength)
	}

	var scopeOpts []scoped.Option
	if b.deliveryLimit > 0 {
		scopeOpts = append(scopeOpts, scoped.WithLimit(b.deliveryLimit))
	}

	// fires[i] counts how often order[i] fired; each slot is written by
	// exactly one task, so the batch needs no shared lock.
	fires := make([]int, len(order))
	_ = scoped.Run(context.Background(), func(sp scoped.Spawner) {
		for i, id := range order {
			n := b.neurons[id]
			strengths := groups[id]
			sp.Spawn(fmt.Sprintf("deliver-%d", id), func(ctx context.Context, _ scoped.Spawner) error {
				for _, strength := range strengths {
					if n.Deliver(t, strength) {
						fires[i]++
					}
				}
				return nil
			})
		}
	}, scopeOpts...)

	// Commit: every fire schedules one event per outgoing synapse at
	// t + synapse delay. This runs after the batch joined, so nothing
	// scheduled here is visible to the batch that produced it.
	spikes := 0
	for i, id := range order {
		for f := 0; f < fires[i]; f++ {
			spikes++
			if b.onSpike != nil {
				b.onSpike(t, id)
			}
			for _, syn := range b.graph.Outgoing(id) {
				b.pending.add(t+syn.Delay, Event{Target: syn.Target, Strength: syn.Weight})
			}
		}
	}
	return spikes
}
