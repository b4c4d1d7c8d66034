package conductor

import (
	"fmt"

	"neurostring/consensus/fingerprint"
	"neurostring/consensus/network"
	"neurostring/consensus/node"
	"neurostring/memory/resonance"
	"neurostring/neurostring"
)

// State is the combined report of the network and the memory.
type State struct {
	network.State
	ResonanceGroups  int                  `json:"resonance_groups"`
	Memory           resonance.Stats      `json:"memory"`
	QuantumConsensus float64              `json:"quantum_consensus"`
	Digest           neurostring.S256Hash `json:"digest"`
	Uptime           float64              `json:"uptime"`
}

// HandleTransaction is the entry point for all transactions. A processed payload is also
// stored in the resonance memory.
func (c *Conductor) HandleTransaction(p fingerprint.Payload) network.Result {
	<-c.ready
	c.mutex.Lock()
	defer c.mutex.Unlock()
	r := c.network.ProcessTransaction(p)
	switch r.Status {
	case network.Processed:
		fp := c.memory.Store(p)
		neurostring.LogCLI(fmt.Sprintf("transaction %s reached %d nodes", fingerprint.Prefix(fp, 10), r.Reached), 4)
	case network.NoNodes:
		neurostring.LogCLI(r.Message, 2)
	default:
		neurostring.LogCLI(r.Message, 3)
	}
	return r
}

// AddNode adds a freshly generated node and returns its id.
func (c *Conductor) AddNode() string {
	<-c.ready
	id := c.addNode()
	neurostring.LogCLI("added node "+id, 4)
	return id
}

func (c *Conductor) RemoveNode(id string) {
	<-c.ready
	c.network.RemoveNode(id)
	c.quantum.Remove(id)
}

func (c *Conductor) Consensus(p fingerprint.Payload) (reached bool, ok bool) {
	<-c.ready
	return c.network.Consensus(p)
}

func (c *Conductor) ActivateEntanglement() float64 {
	<-c.ready
	return c.network.ActivateEntanglement()
}

func (c *Conductor) Retrieve(fp string) (fingerprint.Payload, resonance.Match) {
	return c.memory.Retrieve(fp)
}

// Nodes reports every node, sorted by id.
func (c *Conductor) Nodes() []node.State {
	var out []node.State
	for _, id := range c.network.NodeIDs() {
		if nd, ok := c.network.Node(id); ok {
			out = append(out, nd.State())
		}
	}
	return out
}

func (c *Conductor) History() []network.TransactionRecord {
	return c.network.History()
}

func (c *Conductor) State() State {
	ms := c.memory.Stats()
	var potentials []float64
	for _, n := range c.Nodes() {
		potentials = append(potentials, n.Activation)
	}
	return State{
		State:            c.network.State(),
		ResonanceGroups:  ms.ResonanceGroups,
		Memory:           ms,
		QuantumConsensus: c.quantum.WeightedConsensus(potentials),
		Digest:           c.network.Digest().Hash,
		Uptime:           neurostring.Uptime().Seconds(),
	}
}

// FindByResonance lists stored fingerprints whose frequency is within tolerance.
func (c *Conductor) FindByResonance(frequency, tolerance float64) []fingerprint.Fingerprint {
	return c.memory.FindByResonance(frequency, tolerance)
}
