package network

import (
	"github.com/montanaflynn/stats"
	"neurostring/neurostring"
)

// TotalSynapses counts every bidirectional pair once.
func (n *Network) TotalSynapses() int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.totalSynapses()
}

func (n *Network) totalSynapses() int {
	total := 0
	for _, nd := range n.nodes {
		total += nd.SynapseCount()
	}
	return total / 2
}

func (n *Network) State() State {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	transactions := n.history.len()
	s := State{
		Nodes:          len(n.nodes),
		Synapses:       n.totalSynapses(),
		Transactions:   transactions,
		Entanglement:   n.entanglement,
		MemoryPatterns: transactions,
	}
	var potentials []float64
	for _, nd := range n.nodes {
		potentials = append(potentials, nd.Potential())
	}
	if mean, err := stats.Mean(potentials); err == nil {
		s.MeanPotential = mean
	}
	return s
}

// Digest hashes the graph: sorted node ids, each followed by its sorted synapses and their
// strengths. Two networks with the same topology and weights have the same digest.
func (n *Network) Digest() neurostring.HashSeq {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	hs := neurostring.HashSeq{Mind: "network"}
	var toHash []interface{}
	for _, id := range n.sortedIDs() {
		nd := n.nodes[id]
		toHash = append(toHash, id)
		synapses := nd.Synapses()
		for _, target := range nd.Neighbors() {
			if s, ok := synapses[target]; ok {
				toHash = append(toHash, target, s)
				hs.Sequence++
			}
		}
	}
	for _, d := range toHash {
		if err := hs.AppendData(d); err != nil {
			neurostring.LogCLI(err, 1)
		}
	}
	hs.S256()
	return hs
}
