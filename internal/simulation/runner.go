package simulation

import (
	"testing"

	"github.com/nvandessel/spikesim/internal/assembly"
	"github.com/nvandessel/spikesim/internal/brain"
	"github.com/nvandessel/spikesim/internal/config"
	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/trace"
)

// Runner executes scenarios against a real Brain with an isolated SQLite
// spike recorder.
type Runner struct {
	t        *testing.T
	recorder *trace.Recorder
}

// NewRunner creates a runner whose spike recorder lives under t.TempDir().
func NewRunner(t *testing.T) *Runner {
	t.Helper()

	rec, err := trace.NewRecorder(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunner: create spike recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	return &Runner{t: t, recorder: rec}
}

// Recorder exposes the SQLite spike recorder for query assertions.
func (r *Runner) Recorder() *trace.Recorder {
	return r.recorder
}

// Run assembles the scenario, steps until the buffer drains or the step cap
// is reached, and returns the collected results.
func (r *Runner) Run(scenario Scenario) Result {
	r.t.Helper()

	cfg := config.Default()
	cfg.Neurons = scenario.Neurons
	cfg.Synapses = scenario.Synapses
	cfg.Stimuli = scenario.Stimuli
	if scenario.MaxSteps > 0 {
		cfg.Run.MaxSteps = scenario.MaxSteps
	}

	var result Result
	var names map[neuron.ID]string

	hook := func(t float64, id neuron.ID) {
		result.Spikes = append(result.Spikes, SpikeRecord{Time: t, Neuron: names[id]})
		r.recorder.Hook()(t, id)
	}

	opts := []brain.Option{brain.WithSpikeHook(hook)}
	if scenario.DeliveryLimit > 0 {
		opts = append(opts, brain.WithDeliveryLimit(scenario.DeliveryLimit))
	}

	net, err := assembly.Build(cfg, opts...)
	if err != nil {
		r.t.Fatalf("Run(%s): %v", scenario.Name, err)
	}
	names = make(map[neuron.ID]string, len(net.IDs))
	for name, id := range net.IDs {
		names[id] = name
	}

	for step := 0; step < cfg.Run.MaxSteps && !net.Brain.Drained(); step++ {
		if scenario.BeforeStep != nil {
			scenario.BeforeStep(step, net)
		}
		net.Brain.Step()
		result.Steps++
	}

	result.FinalTime = net.Brain.Now()
	result.Drained = net.Brain.Drained()
	result.Network = net
	return result
}
