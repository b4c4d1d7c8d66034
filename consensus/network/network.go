package network

import (
	"sort"

	"github.com/sasha-s/go-deadlock"
	"neurostring/consensus/node"
	"neurostring/neurostring"
)

// Network owns a set of nodes and the synapses between them.
type Network struct {
	nodes        map[string]*node.Node
	entanglement float64
	history      *history
	rnd          neurostring.Random
	rndMutex     *deadlock.Mutex
	mutex        *deadlock.RWMutex
}

// New creates an empty network. A nil rnd is replaced by a clock seeded source.
func New(rnd neurostring.Random) *Network {
	if rnd == nil {
		rnd = neurostring.NewRandom(0)
	}
	return &Network{
		nodes:    make(map[string]*node.Node),
		history:  newHistory(replayCapacity),
		rnd:      rnd,
		rndMutex: &deadlock.Mutex{},
		mutex:    &deadlock.RWMutex{},
	}
}

func (n *Network) float64() float64 {
	n.rndMutex.Lock()
	defer n.rndMutex.Unlock()
	return n.rnd.Float64()
}

func (n *Network) intn(i int) int {
	n.rndMutex.Lock()
	defer n.rndMutex.Unlock()
	return n.rnd.Intn(i)
}

// AddNode inserts nd and connects it to each existing node with probability 0.5, in both
// directions. A node with the same id is replaced, and its edges removed first. Any
// synapses nd already carries are dropped so every edge it ends up with is mutual.
func (n *Network) AddNode(nd *node.Node) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if _, exists := n.nodes[nd.ID()]; exists {
		n.remove(nd.ID())
	}
	for target := range nd.Synapses() {
		nd.RemoveSynapse(target)
	}
	for _, id := range n.sortedIDs() {
		if n.float64() < connectProbability {
			existing := n.nodes[id]
			nd.AddSynapse(id)
			existing.AddSynapse(nd.ID())
		}
	}
	n.nodes[nd.ID()] = nd
	neurostring.LogCLI("added "+nd.String(), 5)
}

// RemoveNode deletes the node and every synapse pointing at it. Unknown ids are ignored.
func (n *Network) RemoveNode(id string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.remove(id)
}

func (n *Network) remove(id string) {
	if _, ok := n.nodes[id]; !ok {
		return
	}
	delete(n.nodes, id)
	for _, nd := range n.nodes {
		nd.RemoveSynapse(id)
	}
}

func (n *Network) Node(id string) (*node.Node, bool) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	nd, ok := n.nodes[id]
	return nd, ok
}

// NodeIDs returns every node id, sorted.
func (n *Network) NodeIDs() []string {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.sortedIDs()
}

func (n *Network) Len() int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return len(n.nodes)
}

func (n *Network) sortedIDs() []string {
	ids := make([]string, 0, len(n.nodes))
	for id := range n.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// History returns a copy of every processed transaction, oldest first.
func (n *Network) History() []TransactionRecord {
	return n.history.all()
}
