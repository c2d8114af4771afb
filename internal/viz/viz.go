// Package viz renders assembled networks in exportable formats.
package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nvandessel/spikesim/internal/assembly"
	"github.com/nvandessel/spikesim/internal/neuron"
)

// Format specifies the output format for network rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// sortedNames returns the scenario-local neuron names in stable order.
func sortedNames(net *assembly.Network) []string {
	names := make([]string, 0, len(net.IDs))
	for name := range net.IDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nameOf builds the reverse id-to-name mapping.
func nameOf(net *assembly.Network) map[neuron.ID]string {
	byID := make(map[neuron.ID]string, len(net.IDs))
	for name, id := range net.IDs {
		byID[id] = name
	}
	return byID
}

// RenderDOT produces a Graphviz DOT representation of the network.
// Inhibitory synapses (negative weight) are drawn dashed.
func RenderDOT(net *assembly.Network) string {
	byID := nameOf(net)

	var b strings.Builder
	b.WriteString("digraph spikesim {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle, style=filled, fillcolor=lightsteelblue, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, name := range sortedNames(net) {
		n, ok := net.Brain.Neuron(net.IDs[name])
		if !ok {
			continue
		}
		p := n.Params()
		b.WriteString(fmt.Sprintf("  %q [tooltip=\"rest=%g threshold=%g decay=%g\"];\n",
			name, p.RestingPotential, p.Threshold, p.DecayRate))
	}
	b.WriteString("\n")

	for _, name := range sortedNames(net) {
		for _, syn := range net.Brain.Outgoing(net.IDs[name]) {
			style := "solid"
			if syn.Weight < 0 {
				style = "dashed"
			}
			b.WriteString(fmt.Sprintf("  %q -> %q [label=\"w=%g d=%g\", style=%s];\n",
				name, byID[syn.Target], syn.Weight, syn.Delay, style))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// RenderJSON produces a JSON-ready graph representation with nodes and
// edges arrays.
func RenderJSON(net *assembly.Network) map[string]interface{} {
	byID := nameOf(net)

	nodes := make([]map[string]interface{}, 0, len(net.IDs))
	for _, name := range sortedNames(net) {
		n, ok := net.Brain.Neuron(net.IDs[name])
		if !ok {
			continue
		}
		p := n.Params()
		nodes = append(nodes, map[string]interface{}{
			"name":      name,
			"id":        n.ID(),
			"rest":      p.RestingPotential,
			"threshold": p.Threshold,
			"decay":     p.DecayRate,
			"anchor":    n.AnchorPolicy().String(),
		})
	}

	var edges []map[string]interface{}
	for _, name := range sortedNames(net) {
		for _, syn := range net.Brain.Outgoing(net.IDs[name]) {
			edges = append(edges, map[string]interface{}{
				"source": name,
				"target": byID[syn.Target],
				"weight": syn.Weight,
				"delay":  syn.Delay,
			})
		}
	}

	return map[string]interface{}{
		"nodes":      nodes,
		"edges":      edges,
		"node_count": len(nodes),
		"edge_count": len(edges),
	}
}
