// Package simulation provides a scenario test harness for validating the
// event-driven propagation engine end to end.
//
// Scenarios are Go builders that describe a network by neuron name, inject
// stimuli, and step the real Brain until the event buffer drains — no mocks.
// Every committed spike is captured both in memory (for assertions) and in an
// isolated SQLite spike recorder under t.TempDir(), so the recording path is
// exercised by every scenario.
//
// Usage:
//
//	func TestChainPropagation(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:     "chain",
//	        Neurons:  []config.NeuronSpec{...},
//	        Synapses: []config.SynapseSpec{...},
//	        Stimuli:  []config.StimulusSpec{...},
//	    })
//	    simulation.AssertFired(t, result, "b", 0.002)
//	}
package simulation
