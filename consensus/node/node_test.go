package node

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"neurostring/consensus/fingerprint"
	"neurostring/neurostring"
)

func newTestNode(id string) *Node {
	return New(id, neurostring.NewRandom(42))
}

func TestNewNode(t *testing.T) {
	n := New("", nil)
	assert.True(t, strings.HasPrefix(n.ID(), "node_"))
	assert.Len(t, n.ID(), len("node_")+8)

	n = newTestNode("n1")
	assert.Equal(t, "n1", n.ID())
	assert.GreaterOrEqual(t, n.Potential(), 0.1)
	assert.LessOrEqual(t, n.Potential(), 1.0)
	assert.Zero(t, n.SpikeCount())
	assert.Zero(t, n.SynapseCount())
	assert.Contains(t, n.String(), "n1")
}

func TestSeededNodesMatch(t *testing.T) {
	a := newTestNode("a")
	b := newTestNode("b")
	assert.Equal(t, a.Potential(), b.Potential())
	a.AddSynapse("x")
	b.AddSynapse("x")
	sa, _ := a.Strength("x")
	sb, _ := b.Strength("x")
	assert.Equal(t, sa, sb)
}

func TestAddRemoveSynapse(t *testing.T) {
	n := newTestNode("n1")
	n.AddSynapse("n2")
	s, ok := n.Strength("n2")
	require.True(t, ok)
	assert.GreaterOrEqual(t, s, 0.3)
	assert.LessOrEqual(t, s, 0.7)

	n.RemoveSynapse("n2")
	_, ok = n.Strength("n2")
	assert.False(t, ok)
	assert.Empty(t, n.Synapses())

	// absent edges and self loops are no-ops
	n.RemoveSynapse("ghost")
	n.AddSynapse("n1")
	assert.Zero(t, n.SynapseCount())
}

func TestLearn(t *testing.T) {
	n := newTestNode("n1")
	n.AddSynapse("n2")
	initial, _ := n.Strength("n2")

	n.Learn("n2", true)
	s, _ := n.Strength("n2")
	assert.InDelta(t, initial+LearningRate, s, 1e-12)

	n.Learn("n2", false)
	s, _ = n.Strength("n2")
	assert.InDelta(t, initial+LearningRate/2, s, 1e-12)

	for i := 0; i < 50; i++ {
		n.Learn("n2", true)
		s, _ = n.Strength("n2")
		assert.LessOrEqual(t, s, 1.0)
	}
	assert.Equal(t, 1.0, s)

	for i := 0; i < 50; i++ {
		n.Learn("n2", false)
		s, _ = n.Strength("n2")
		assert.GreaterOrEqual(t, s, 0.0)
	}
	assert.Equal(t, 0.0, s)
}

func TestLearnAbsentEdge(t *testing.T) {
	n := newTestNode("n1")
	n.AddSynapse("n2")
	before := n.Synapses()
	n.Learn("ghost", true)
	n.Learn("ghost", false)
	assert.Equal(t, before, n.Synapses())
}

func TestProcessSpikes(t *testing.T) {
	n := newTestNode("n1")
	n.AddSynapse("n2")
	n.AddSynapse("n3")
	n.SetPotential(1.0)

	imp, ok := n.Process(fingerprint.Text("hello"))
	require.True(t, ok)
	assert.Equal(t, "n1", imp.From)
	assert.Equal(t, fingerprint.Of(fingerprint.Text("hello")), imp.Vibration)
	assert.InDelta(t, 0.2, imp.Strength, 1e-12)
	assert.False(t, imp.Timestamp.IsZero())
	assert.Equal(t, Baseline, n.Potential())
	assert.Equal(t, int64(1), n.SpikeCount())
}

func TestProcessQuiescent(t *testing.T) {
	n := newTestNode("n1")
	n.SetPotential(0.5)
	_, ok := n.Process(fingerprint.Text("hello"))
	assert.False(t, ok)
	assert.InDelta(t, 0.55, n.Potential(), 1e-12)
	assert.Equal(t, int64(1), n.SpikeCount())
}

func TestProcessCrossesThreshold(t *testing.T) {
	n := newTestNode("n1")
	n.SetPotential(0.1)
	spikes := 0
	for i := 0; i < 100; i++ {
		if _, ok := n.Process(fingerprint.Text("x")); ok {
			spikes++
			assert.Equal(t, Baseline, n.Potential())
		} else {
			assert.Less(t, n.Potential(), Threshold)
		}
	}
	assert.Greater(t, spikes, 0)
	assert.Equal(t, int64(100), n.SpikeCount())
}

func TestState(t *testing.T) {
	n := newTestNode("n1")
	n.AddSynapse("n2")
	s := n.State()
	assert.Equal(t, "n1", s.ID)
	assert.Equal(t, 1, s.Synapses)
	assert.Contains(t, []int{0, 1}, s.Quantum.Superposition)
	assert.GreaterOrEqual(t, s.Quantum.VibrationFreq, 0.1)
	assert.Less(t, s.Quantum.VibrationFreq, 10.0)
	assert.NotNil(t, s.Quantum.Entanglement)
	assert.GreaterOrEqual(t, s.Age, 0.0)
}

func TestSetPotentialClamps(t *testing.T) {
	n := newTestNode("n1")
	n.SetPotential(-3)
	assert.Equal(t, 0.0, n.Potential())
}
