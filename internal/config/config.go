// Package config provides YAML scenario loading for spikesim. A scenario
// describes a network (neurons by preset or explicit parameters, synapses by
// name) together with the initial stimuli to inject and run limits.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/preset"
)

// Scenario is the root of a scenario file.
type Scenario struct {
	// Logging configures operational output.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Neurons lists the network's neurons. Names are scenario-local handles;
	// ids are allocated by the brain at build time.
	Neurons []NeuronSpec `json:"neurons" yaml:"neurons"`

	// Synapses lists directed connections between named neurons.
	Synapses []SynapseSpec `json:"synapses" yaml:"synapses"`

	// Stimuli lists the externally injected events.
	Stimuli []StimulusSpec `json:"stimuli" yaml:"stimuli"`

	// Run bounds the simulation.
	Run RunConfig `json:"run" yaml:"run"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level sets log verbosity: "info" (default), "debug", or "trace".
	// "debug" additionally enables the JSONL spike log.
	Level string `json:"level" yaml:"level"`
}

// NeuronSpec describes one neuron. Exactly one of Preset or Params must be
// set.
type NeuronSpec struct {
	// Name is the scenario-local handle, referenced by synapses and stimuli.
	Name string `json:"name" yaml:"name"`

	// Preset names a parameter table entry.
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	// Params gives explicit construction parameters.
	Params *neuron.Params `json:"params,omitempty" yaml:"params,omitempty"`

	// Anchor selects the refractory anchor policy: "previous" (default) or
	// "current".
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// SynapseSpec describes a directed synapse between named neurons.
type SynapseSpec struct {
	Source string  `json:"source" yaml:"source"`
	Target string  `json:"target" yaml:"target"`
	Weight float64 `json:"weight" yaml:"weight"`
	Delay  float64 `json:"delay" yaml:"delay"`
}

// StimulusSpec describes one externally injected event.
type StimulusSpec struct {
	At       float64 `json:"at" yaml:"at"`
	Target   string  `json:"target" yaml:"target"`
	Strength float64 `json:"strength" yaml:"strength"`
}

// RunConfig bounds a simulation run.
type RunConfig struct {
	// MaxSteps caps the number of scheduler steps; the run also stops when
	// the event buffer drains.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`
}

// Default returns an empty scenario with sensible run defaults.
func Default() *Scenario {
	return &Scenario{
		Logging: LoggingConfig{Level: "info"},
		Run:     RunConfig{MaxSteps: 1000},
	}
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks cross-references and value ranges.
func (s *Scenario) Validate() error {
	if s.Run.MaxSteps <= 0 {
		return fmt.Errorf("run.max_steps must be positive, got %d", s.Run.MaxSteps)
	}

	names := make(map[string]bool, len(s.Neurons))
	for i, n := range s.Neurons {
		if n.Name == "" {
			return fmt.Errorf("neurons[%d]: name is required", i)
		}
		if names[n.Name] {
			return fmt.Errorf("neurons[%d]: duplicate name %q", i, n.Name)
		}
		names[n.Name] = true

		if (n.Preset == "") == (n.Params == nil) {
			return fmt.Errorf("neuron %q: exactly one of preset or params must be set", n.Name)
		}
		if n.Preset != "" {
			if _, ok := preset.Get(preset.Name(n.Preset)); !ok {
				return fmt.Errorf("neuron %q: unknown preset %q", n.Name, n.Preset)
			}
		}
		if _, err := n.AnchorPolicy(); err != nil {
			return fmt.Errorf("neuron %q: %w", n.Name, err)
		}
	}

	for i, syn := range s.Synapses {
		if !names[syn.Source] {
			return fmt.Errorf("synapses[%d]: unknown source %q", i, syn.Source)
		}
		if !names[syn.Target] {
			return fmt.Errorf("synapses[%d]: unknown target %q", i, syn.Target)
		}
		if syn.Delay < 0 {
			return fmt.Errorf("synapses[%d]: negative delay %g", i, syn.Delay)
		}
	}

	for i, st := range s.Stimuli {
		if !names[st.Target] {
			return fmt.Errorf("stimuli[%d]: unknown target %q", i, st.Target)
		}
	}
	return nil
}

// NeuronParams resolves the spec's parameters, from the preset table or the
// explicit block. Validate must have passed.
func (n NeuronSpec) NeuronParams() neuron.Params {
	if n.Preset != "" {
		p, _ := preset.Get(preset.Name(n.Preset))
		return p
	}
	return *n.Params
}

// AnchorPolicy resolves the spec's anchor string.
func (n NeuronSpec) AnchorPolicy() (neuron.Anchor, error) {
	switch n.Anchor {
	case "", "previous":
		return neuron.AnchorPrevious, nil
	case "current":
		return neuron.AnchorCurrent, nil
	default:
		return 0, fmt.Errorf("unknown anchor policy %q", n.Anchor)
	}
}
