package node

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"neurostring/consensus/fingerprint"
	"neurostring/neurostring"
)

type Node struct {
	id        string
	createdAt time.Time
	synapses  map[string]float64
	potential float64
	spikes    int64
	quantum   QuantumState
	rnd       neurostring.Random
	mutex     *deadlock.Mutex
}

// NewID generates a node id of the form node_1a2b3c4d.
func NewID() string {
	return "node_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// New creates a node with a random initial potential. An empty id is replaced by NewID and a
// nil rnd by a clock seeded source.
func New(id string, rnd neurostring.Random) *Node {
	if id == "" {
		id = NewID()
	}
	if rnd == nil {
		rnd = neurostring.NewRandom(0)
	}
	n := &Node{
		id:        id,
		createdAt: time.Now(),
		synapses:  make(map[string]float64),
		rnd:       rnd,
		mutex:     &deadlock.Mutex{},
	}
	n.potential = neurostring.Uniform(rnd, minPotential, maxPotential)
	n.quantum = QuantumState{
		Superposition: rnd.Intn(2),
		Entanglement:  map[string]float64{},
		VibrationFreq: neurostring.Uniform(rnd, 0.1, 10.0),
	}
	return n
}

func (n *Node) ID() string {
	return n.id
}

// Process turns a payload into a candidate impulse. The impulse is only returned if the
// raised potential reaches Threshold, in which case the potential resets to Baseline.
func (n *Node) Process(p fingerprint.Payload) (Impulse, bool) {
	vibration := fingerprint.Of(p)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.potential *= Gain
	n.spikes++
	if n.potential >= Threshold {
		return n.spike(vibration), true
	}
	return Impulse{}, false
}

func (n *Node) spike(v fingerprint.Vibration) Impulse {
	n.potential = Baseline
	return Impulse{
		From:      n.id,
		Vibration: v,
		Timestamp: time.Now(),
		Strength:  float64(len(n.synapses)) * strengthPerSynapse,
	}
}

// AddSynapse connects this node to other with a random strength, replacing any existing one.
func (n *Node) AddSynapse(other string) {
	if other == n.id {
		return
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.synapses[other] = neurostring.Uniform(n.rnd, minStrength, maxStrength)
}

func (n *Node) RemoveSynapse(other string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	delete(n.synapses, other)
}

// Learn strengthens (success) or weakens the synapse to neighbor. Strength stays within [0, 1].
func (n *Node) Learn(neighbor string, success bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	s, ok := n.synapses[neighbor]
	if !ok {
		return
	}
	if success {
		s += LearningRate
	} else {
		s -= LearningRate / 2
	}
	if s > 1 {
		s = 1
	}
	if s < 0 {
		s = 0
	}
	n.synapses[neighbor] = s
}

func (n *Node) Strength(neighbor string) (float64, bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	s, ok := n.synapses[neighbor]
	return s, ok
}

// Synapses returns a copy of the outgoing synapses.
func (n *Node) Synapses() map[string]float64 {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	m := make(map[string]float64, len(n.synapses))
	for id, s := range n.synapses {
		m[id] = s
	}
	return m
}

// Neighbors returns the ids this node has synapses to, sorted.
func (n *Node) Neighbors() []string {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	ids := make([]string, 0, len(n.synapses))
	for id := range n.synapses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (n *Node) SynapseCount() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.synapses)
}

func (n *Node) Potential() float64 {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.potential
}

// SetPotential overrides the activation potential. Negative values are raised to zero.
func (n *Node) SetPotential(p float64) {
	if p < 0 {
		p = 0
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.potential = p
}

func (n *Node) SpikeCount() int64 {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.spikes
}

func (n *Node) State() State {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return State{
		ID:         n.id,
		Age:        time.Since(n.createdAt).Seconds(),
		Synapses:   len(n.synapses),
		SpikeCount: n.spikes,
		Activation: n.potential,
		Quantum:    n.quantumState(),
	}
}

func (n *Node) quantumState() QuantumState {
	q := n.quantum
	q.Entanglement = make(map[string]float64, len(n.quantum.Entanglement))
	for id, e := range n.quantum.Entanglement {
		q.Entanglement[id] = e
	}
	return q
}

func (n *Node) String() string {
	s := n.State()
	return fmt.Sprintf("<Node %s | syn: %d | spikes: %d>", s.ID, s.Synapses, s.SpikeCount)
}
