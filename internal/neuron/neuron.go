// Package neuron implements a leaky integrate-and-fire neuron with an
// exponentially decaying membrane potential and a refractory-period-aware
// dynamic firing threshold.
//
// The stored potential is only meaningful relative to the time of the last
// stimulus; reading the potential at any other instant goes through
// PotentialAt, which re-derives the decayed value without mutating state.
package neuron

import (
	"fmt"
	"math"
)

// ID identifies a neuron. IDs are allocated by the owning brain and are
// unique within it.
type ID uint32

// Anchor selects which stimulus time the refractory clock is measured from
// when a delivery evaluates the dynamic threshold.
type Anchor int

const (
	// AnchorPrevious measures elapsed refractory time from the stimulus
	// preceding the one being delivered, before the anchor advances. This
	// makes the absolute and relative refractory windows observable.
	AnchorPrevious Anchor = iota

	// AnchorCurrent advances the anchor to the incoming stimulus first, so
	// the elapsed time at evaluation is always zero. A neuron with a nonzero
	// absolute refractory period can then never fire, and one with only a
	// relative period sees a threshold pinned at twice baseline. This
	// reproduces the historical behavior.
	AnchorCurrent
)

// String returns the anchor policy name.
func (a Anchor) String() string {
	switch a {
	case AnchorPrevious:
		return "previous"
	case AnchorCurrent:
		return "current"
	default:
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
}

// Params holds the six construction parameters of a neuron. Durations are in
// simulated seconds; potentials share whatever unit the caller picks (the
// presets use millivolts).
type Params struct {
	// RestingPotential is the value the membrane decays toward and resets
	// to after a spike.
	RestingPotential float64 `json:"resting_potential" yaml:"resting_potential"`

	// Threshold is the baseline firing threshold.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// DecayRate is the exponential decay constant per simulated second.
	DecayRate float64 `json:"decay_rate" yaml:"decay_rate"`

	// PostSynapticDelay is the transmission latency between a stimulus
	// arriving and it affecting the membrane. It shapes how deliveries
	// overlap within a batch; it does not shift simulated arrival time.
	PostSynapticDelay float64 `json:"post_synaptic_delay" yaml:"post_synaptic_delay"`

	// AbsoluteRefractory is the window after the refractory anchor during
	// which the neuron cannot fire at all.
	AbsoluteRefractory float64 `json:"absolute_refractory" yaml:"absolute_refractory"`

	// RelativeRefractory is the window following the absolute one during
	// which the threshold ramps linearly back down to baseline.
	RelativeRefractory float64 `json:"relative_refractory" yaml:"relative_refractory"`
}

// Neuron is a single leaky integrate-and-fire unit. It is not safe for
// concurrent use; the owning brain serializes deliveries per neuron.
type Neuron struct {
	id     ID
	params Params
	anchor Anchor

	potential     float64
	lastInputTime float64
}

// Option configures a neuron at construction.
type Option func(*Neuron)

// WithAnchor sets the refractory anchor policy. The default is
// AnchorPrevious.
func WithAnchor(a Anchor) Option {
	return func(n *Neuron) { n.anchor = a }
}

// New constructs a neuron with the given id and parameters. The potential
// starts at the resting potential and the last input time at zero.
func New(id ID, p Params, opts ...Option) *Neuron {
	n := &Neuron{
		id:        id,
		params:    p,
		anchor:    AnchorPrevious,
		potential: p.RestingPotential,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID returns the neuron's identifier.
func (n *Neuron) ID() ID { return n.id }

// Params returns the construction parameters.
func (n *Neuron) Params() Params { return n.params }

// AnchorPolicy returns the refractory anchor policy.
func (n *Neuron) AnchorPolicy() Anchor { return n.anchor }

// LastInputTime returns the simulated time of the most recent stimulus.
func (n *Neuron) LastInputTime() float64 { return n.lastInputTime }

// PotentialAt returns the membrane potential at time t, applying exponential
// decay toward the resting potential since the last stimulus. It does not
// mutate the neuron and is idempotent for a fixed state and t.
func (n *Neuron) PotentialAt(t float64) float64 {
	dt := t - n.lastInputTime
	return n.params.RestingPotential + (n.potential-n.params.RestingPotential)*math.Exp(-n.params.DecayRate*dt)
}

// Deliver applies a stimulus of the given strength at simulated time t and
// reports whether the neuron fires. The potential first decays to t, the
// refractory anchor advances per the anchor policy, the strength is
// integrated, and the result is compared against the dynamic threshold. On a
// fire the potential resets to the resting potential; otherwise the
// integrated value is retained.
func (n *Neuron) Deliver(t, strength float64) bool {
	prev := n.lastInputTime
	n.potential = n.PotentialAt(t)
	n.lastInputTime = t
	n.potential += strength

	since := prev
	if n.anchor == AnchorCurrent {
		since = t
	}
	fired := n.potential >= n.thresholdAfter(t-since)
	if fired {
		n.potential = n.params.RestingPotential
	}
	return fired
}

// DynamicThreshold returns the effective firing threshold at time t, measured
// against the neuron's current refractory anchor.
func (n *Neuron) DynamicThreshold(t float64) float64 {
	return n.thresholdAfter(t - n.lastInputTime)
}

// thresholdAfter computes the dynamic threshold given the elapsed time since
// the refractory anchor. Inside the absolute window the threshold is
// unreachable. Inside the relative window it ramps linearly from twice the
// baseline down to baseline. A zero-length relative window falls straight
// through to baseline so the ramp never divides by zero.
func (n *Neuron) thresholdAfter(elapsed float64) float64 {
	p := n.params
	if elapsed < p.AbsoluteRefractory {
		return math.Inf(1)
	}
	if p.RelativeRefractory > 0 && elapsed < p.AbsoluteRefractory+p.RelativeRefractory {
		ramp := elapsed - p.AbsoluteRefractory
		return p.Threshold + p.Threshold*(1-ramp/p.RelativeRefractory)
	}
	return p.Threshold
}

// Reset returns the potential to the resting potential and sets the last
// input time to t. It re-initializes a neuron outside the event flow.
func (n *Neuron) Reset(t float64) {
	n.potential = n.params.RestingPotential
	n.lastInputTime = t
}

// String describes the neuron's fixed properties.
func (n *Neuron) String() string {
	return fmt.Sprintf("Neuron(id=%d, threshold=%g, decay=%g)", n.id, n.params.Threshold, n.params.DecayRate)
}
