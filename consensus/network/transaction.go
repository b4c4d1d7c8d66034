package network

import (
	"fmt"

	"neurostring/consensus/fingerprint"
	"neurostring/consensus/node"
	"neurostring/neurostring"
)

// ProcessTransaction offers the payload to a random node. If that node spikes the impulse is
// propagated and the transaction recorded. An empty network or a quiescent node is reported in
// the Result, never as an error.
func (n *Network) ProcessTransaction(p fingerprint.Payload) Result {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	if len(n.nodes) == 0 {
		return Result{Status: NoNodes, Message: "No nodes in the network"}
	}
	ids := n.sortedIDs()
	start := n.nodes[ids[n.intn(len(ids))]]
	imp, ok := start.Process(p)
	if !ok {
		return Result{
			Status:  BelowThreshold,
			Message: "Activation potential too low, transaction is waiting",
		}
	}
	reached := n.propagate(start.ID())
	r := n.history.append(p, start.ID(), imp)
	if r.Replay {
		neurostring.LogCLI(fmt.Sprintf("fingerprint %s was processed recently", r.Vibration), 3)
	}
	return Result{
		OK:                true,
		Status:            Processed,
		Message:           "Transaction processed | fingerprint: " + r.Vibration,
		FingerprintPrefix: r.Vibration,
		Fingerprint:       r.Fingerprint,
		Reached:           reached,
		Replay:            r.Replay,
	}
}

// propagate runs a breadth first walk from origin. Each synapse to an unvisited node is
// crossed with probability equal to its strength, and crossing it reinforces both ends.
// It returns the number of nodes reached, origin included. Must be called with the read lock.
func (n *Network) propagate(origin string) int {
	visited := map[string]struct{}{origin: {}}
	queue := []string{origin}
	for len(queue) > 0 && len(visited) < len(n.nodes) {
		current, ok := n.nodes[queue[0]]
		queue = queue[1:]
		if !ok {
			continue
		}
		for _, target := range current.Neighbors() {
			if _, seen := visited[target]; seen {
				continue
			}
			next, exists := n.nodes[target]
			if !exists {
				continue
			}
			strength, _ := current.Strength(target)
			if n.float64() < strength {
				visited[target] = struct{}{}
				queue = append(queue, target)
				hebbian(current, next)
			}
		}
	}
	return len(visited)
}

func hebbian(a, b *node.Node) {
	b.Learn(a.ID(), true)
	a.Learn(b.ID(), true)
}
