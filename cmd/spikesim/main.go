package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvandessel/spikesim/internal/assembly"
	"github.com/nvandessel/spikesim/internal/brain"
	"github.com/nvandessel/spikesim/internal/config"
	"github.com/nvandessel/spikesim/internal/logging"
	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/preset"
	"github.com/nvandessel/spikesim/internal/trace"
	"github.com/nvandessel/spikesim/internal/viz"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "spikesim",
		Short: "Discrete-event simulator for spiking neural networks",
		Long: `spikesim runs networks of leaky integrate-and-fire neurons connected
by weighted, delayed synapses.

A scenario file declares the neurons (by preset or explicit parameters),
the synapses between them, and the stimuli to inject. The simulator steps
through buffered events in timestamp order until the buffer drains or the
step limit is reached.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPresetsCmd(),
		newRunCmd(),
		newGraphCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("spikesim version %s\n", version)
			}
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in neuron parameter presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			if jsonOut {
				table := make(map[string]neuron.Params, len(preset.Names()))
				for _, name := range preset.Names() {
					p, _ := preset.Get(name)
					table[string(name)] = p
				}
				return json.NewEncoder(os.Stdout).Encode(table)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tREST\tTHRESHOLD\tDECAY\tPS-DELAY\tABS-REFR\tREL-REFR")
			for _, name := range preset.Names() {
				p, _ := preset.Get(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\n",
					name, p.RestingPotential, p.Threshold, p.DecayRate,
					p.PostSynapticDelay, p.AbsoluteRefractory, p.RelativeRefractory)
			}
			return w.Flush()
		},
	}
}

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <scenario.yaml>",
		Short: "Export a scenario's network as DOT or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				format = string(viz.FormatJSON)
			}

			scenario, err := config.Load(args[0])
			if err != nil {
				return err
			}
			net, err := assembly.Build(scenario)
			if err != nil {
				return err
			}

			switch viz.Format(format) {
			case viz.FormatJSON:
				return json.NewEncoder(os.Stdout).Encode(viz.RenderJSON(net))
			case viz.FormatDOT:
				fmt.Print(viz.RenderDOT(net))
				return nil
			default:
				return fmt.Errorf("unknown format: %s (want dot or json)", format)
			}
		},
	}

	cmd.Flags().String("format", "dot", "Output format (dot, json)")

	return cmd
}

// runSummary is the machine-readable result of a run.
type runSummary struct {
	Scenario  string         `json:"scenario"`
	Steps     int            `json:"steps"`
	FinalTime float64        `json:"final_time"`
	Spikes    int            `json:"spikes"`
	PerNeuron map[string]int `json:"per_neuron"`
	Drained   bool           `json:"drained"`
	TraceDB   string         `json:"trace_db,omitempty"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario to completion",
		Long: `Load a scenario file, assemble the network, and step the scheduler
until the event buffer drains or run.max_steps is reached.

Examples:
  spikesim run cascade.yaml
  spikesim run cascade.yaml --trace ./out --log-level debug
  spikesim run cascade.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			traceDir, _ := cmd.Flags().GetString("trace")
			logLevel, _ := cmd.Flags().GetString("log-level")
			outDir, _ := cmd.Flags().GetString("out")

			scenario, err := config.Load(args[0])
			if err != nil {
				return err
			}

			level := scenario.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			logger := logging.NewLogger(level, os.Stderr)

			spikeLog := logging.NewSpikeLogger(outDir, level)
			defer spikeLog.Close()

			var recorder *trace.Recorder
			if traceDir != "" {
				recorder, err = trace.NewRecorder(traceDir)
				if err != nil {
					return fmt.Errorf("open trace recorder: %w", err)
				}
				defer recorder.Close()
			}

			perNeuron := map[neuron.ID]int{}
			total := 0
			hook := func(t float64, id neuron.ID) {
				total++
				perNeuron[id]++
				spikeLog.Log(t, id)
				if recorder != nil {
					recorder.Hook()(t, id)
				}
				logger.Debug("spike", "sim_time", t, "neuron", id)
			}

			net, err := assembly.Build(scenario, brain.WithSpikeHook(hook))
			if err != nil {
				return err
			}

			names := make(map[neuron.ID]string, len(net.IDs))
			for name, id := range net.IDs {
				names[id] = name
			}

			logger.Info("scenario loaded",
				"file", args[0],
				"neurons", net.Brain.NeuronCount(),
				"synapses", net.Brain.SynapseCount(),
				"stimuli", net.Brain.Pending())

			steps := 0
			for steps < scenario.Run.MaxSteps && !net.Brain.Drained() {
				spikes := net.Brain.Step()
				steps++
				logger.Debug("step",
					"step", steps,
					"sim_time", net.Brain.Now(),
					"spikes", spikes,
					"pending", net.Brain.Pending())
			}

			summary := runSummary{
				Scenario:  args[0],
				Steps:     steps,
				FinalTime: net.Brain.Now(),
				Spikes:    total,
				PerNeuron: make(map[string]int, len(perNeuron)),
				Drained:   net.Brain.Drained(),
			}
			for id, count := range perNeuron {
				summary.PerNeuron[names[id]] = count
			}
			if recorder != nil {
				summary.TraceDB = traceDir
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(summary)
			}

			fmt.Printf("Scenario: %s\n", summary.Scenario)
			fmt.Printf("Steps: %d\n", summary.Steps)
			fmt.Printf("Final time: %g\n", summary.FinalTime)
			fmt.Printf("Spikes: %d\n", summary.Spikes)
			if len(summary.PerNeuron) > 0 {
				keys := make([]string, 0, len(summary.PerNeuron))
				for name := range summary.PerNeuron {
					keys = append(keys, name)
				}
				sort.Strings(keys)
				for _, name := range keys {
					fmt.Printf("  %s: %d\n", name, summary.PerNeuron[name])
				}
			}
			if !summary.Drained {
				fmt.Printf("Stopped at step limit with %d events pending.\n", net.Brain.Pending())
			}
			if summary.TraceDB != "" {
				fmt.Printf("Spike trace written to %s\n", summary.TraceDB)
			}
			return nil
		},
	}

	cmd.Flags().String("trace", "", "Directory to write the SQLite spike trace (disabled when empty)")
	cmd.Flags().String("log-level", "", "Override the scenario's logging level (info, debug, trace)")
	cmd.Flags().String("out", ".", "Directory for the JSONL spike log (written at debug level and below)")

	return cmd
}
