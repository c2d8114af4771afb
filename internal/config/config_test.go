package config

import (
	"strings"
	"testing"
)

const validScenario = `
logging:
  level: debug
neurons:
  - name: a
    preset: biological
  - name: b
    params:
      resting_potential: 0
      threshold: 1
      decay_rate: 0.9
synapses:
  - {source: a, target: b, weight: 7.5, delay: 0.002}
stimuli:
  - {at: 0, target: a, strength: 15}
run:
  max_steps: 50
`

func TestParse_ValidScenario(t *testing.T) {
	s, err := Parse([]byte(validScenario))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(s.Neurons) != 2 || len(s.Synapses) != 1 || len(s.Stimuli) != 1 {
		t.Fatalf("counts: %d neurons, %d synapses, %d stimuli", len(s.Neurons), len(s.Synapses), len(s.Stimuli))
	}
	if s.Run.MaxSteps != 50 {
		t.Fatalf("max_steps: got %d, want 50", s.Run.MaxSteps)
	}
	if s.Logging.Level != "debug" {
		t.Fatalf("logging level: got %q, want debug", s.Logging.Level)
	}

	a := s.Neurons[0].NeuronParams()
	if a.RestingPotential != -70 {
		t.Fatalf("preset resolution: got rest %g, want -70", a.RestingPotential)
	}
	b := s.Neurons[1].NeuronParams()
	if b.Threshold != 1 || b.DecayRate != 0.9 {
		t.Fatalf("explicit params: got %+v", b)
	}
}

func TestParse_Defaults(t *testing.T) {
	s, err := Parse([]byte("neurons: []"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Run.MaxSteps != 1000 {
		t.Fatalf("default max_steps: got %d, want 1000", s.Run.MaxSteps)
	}
	if s.Logging.Level != "info" {
		t.Fatalf("default level: got %q, want info", s.Logging.Level)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"duplicate name",
			"neurons: [{name: a, preset: biological}, {name: a, preset: biological}]",
			"duplicate name",
		},
		{
			"unknown preset",
			"neurons: [{name: a, preset: psychic}]",
			"unknown preset",
		},
		{
			"preset and params together",
			"neurons: [{name: a, preset: biological, params: {threshold: 1}}]",
			"exactly one of preset or params",
		},
		{
			"neither preset nor params",
			"neurons: [{name: a}]",
			"exactly one of preset or params",
		},
		{
			"unknown synapse source",
			"neurons: [{name: a, preset: biological}]\nsynapses: [{source: x, target: a, weight: 1, delay: 0}]",
			"unknown source",
		},
		{
			"negative delay",
			"neurons: [{name: a, preset: biological}]\nsynapses: [{source: a, target: a, weight: 1, delay: -0.1}]",
			"negative delay",
		},
		{
			"unknown stimulus target",
			"stimuli: [{at: 0, target: ghost, strength: 1}]",
			"unknown target",
		},
		{
			"bad anchor",
			"neurons: [{name: a, preset: biological, anchor: sideways}]",
			"unknown anchor",
		},
		{
			"non-positive max_steps",
			"run: {max_steps: -1}",
			"max_steps must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse accepted an invalid scenario")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestAnchorPolicy(t *testing.T) {
	for _, anchor := range []string{"", "previous", "current"} {
		spec := NeuronSpec{Anchor: anchor}
		if _, err := spec.AnchorPolicy(); err != nil {
			t.Fatalf("AnchorPolicy(%q): %v", anchor, err)
		}
	}
}
