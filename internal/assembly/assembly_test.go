package assembly

import (
	"strings"
	"testing"

	"github.com/nvandessel/spikesim/internal/config"
	"github.com/nvandessel/spikesim/internal/neuron"
)

func unitParams() *neuron.Params {
	return &neuron.Params{RestingPotential: 0, Threshold: 1, DecayRate: 0.9}
}

func TestBuild_WiresNetwork(t *testing.T) {
	cfg := config.Default()
	cfg.Neurons = []config.NeuronSpec{
		{Name: "a", Params: unitParams()},
		{Name: "b", Preset: "fast-spiking"},
	}
	cfg.Synapses = []config.SynapseSpec{
		{Source: "a", Target: "b", Weight: 0.5, Delay: 0.001},
	}
	cfg.Stimuli = []config.StimulusSpec{
		{At: 0.2, Target: "a", Strength: 1},
	}

	net, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if net.Brain.NeuronCount() != 2 {
		t.Fatalf("neuron count: got %d, want 2", net.Brain.NeuronCount())
	}
	if net.Brain.SynapseCount() != 1 {
		t.Fatalf("synapse count: got %d, want 1", net.Brain.SynapseCount())
	}
	if net.Brain.Pending() != 1 {
		t.Fatalf("pending stimuli: got %d, want 1", net.Brain.Pending())
	}

	out := net.Brain.Outgoing(net.IDs["a"])
	if len(out) != 1 || out[0].Target != net.IDs["b"] {
		t.Fatalf("outgoing of a: %v", out)
	}

	// Preset resolution reaches the constructed neuron.
	b, ok := net.Brain.Neuron(net.IDs["b"])
	if !ok {
		t.Fatal("neuron b missing")
	}
	if b.Params().RestingPotential != -65 {
		t.Fatalf("fast-spiking rest: got %g, want -65", b.Params().RestingPotential)
	}
}

func TestBuild_AnchorPolicyApplied(t *testing.T) {
	cfg := config.Default()
	cfg.Neurons = []config.NeuronSpec{
		{Name: "a", Params: unitParams(), Anchor: "current"},
	}

	net, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, _ := net.Brain.Neuron(net.IDs["a"])
	if n.AnchorPolicy() != neuron.AnchorCurrent {
		t.Fatalf("anchor: got %v, want current", n.AnchorPolicy())
	}
}

func TestBuild_RejectsInvalidScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Neurons = []config.NeuronSpec{{Name: "a"}} // neither preset nor params

	if _, err := Build(cfg); err == nil || !strings.Contains(err.Error(), "exactly one of preset or params") {
		t.Fatalf("Build accepted invalid scenario: %v", err)
	}
}
