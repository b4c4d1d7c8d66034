package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"neurostring/consensus/fingerprint"
	"neurostring/neurostring"
)

func newSimulator() *Simulator {
	return New(neurostring.NewRandom(7))
}

func TestCreateQubit(t *testing.T) {
	s := newSimulator()
	q := s.CreateQubit("q1", nil)
	assert.Contains(t, []int{0, 1}, q.State)
	assert.GreaterOrEqual(t, q.Phase, 0.0)
	assert.Less(t, q.Phase, 6.2832)

	zero := 0
	q = s.CreateQubit("q2", &zero)
	assert.Equal(t, 0, q.State)
	got, ok := s.Qubit("q2")
	require.True(t, ok)
	assert.Equal(t, q, got)

	_, ok = s.Qubit("ghost")
	assert.False(t, ok)
}

func TestEntangle(t *testing.T) {
	s := newSimulator()
	s.CreateQubit("q1", nil)
	s.CreateQubit("q2", nil)
	require.True(t, s.Entangle("q1", "q2"))
	a, _ := s.Qubit("q1")
	b, _ := s.Qubit("q2")
	assert.Equal(t, a.State, b.State)

	assert.False(t, s.Entangle("ghost1", "ghost2"))
	assert.False(t, s.Entangle("q1", "ghost"))
}

func TestRemove(t *testing.T) {
	s := newSimulator()
	s.CreateQubit("q1", nil)
	s.CreateQubit("q2", nil)
	s.CreateQubit("q3", nil)
	require.True(t, s.Entangle("q1", "q2"))
	require.True(t, s.Entangle("q2", "q3"))
	require.True(t, s.Entangle("q1", "q3"))

	assert.True(t, s.Remove("q2"))
	assert.False(t, s.Remove("q2"))
	assert.False(t, s.Remove("ghost"))
	_, ok := s.Qubit("q2")
	assert.False(t, ok)
	assert.Equal(t, [][2]string{{"q1", "q3"}}, s.pairs)

	// a qubit created again under the old id starts unpaired
	s.CreateQubit("q2", nil)
	assert.Equal(t, [][2]string{{"q1", "q3"}}, s.pairs)
}

func TestMeasure(t *testing.T) {
	s := newSimulator()
	one := 1
	s.CreateQubit("q1", &one)
	s.SetSuperposition("q1", false)
	state, ok := s.Measure("q1")
	require.True(t, ok)
	assert.Equal(t, 1, state)

	_, ok = s.Measure("ghost")
	assert.False(t, ok)
	assert.False(t, s.SetSuperposition("ghost", true))
}

func TestMeasureCollapses(t *testing.T) {
	s := newSimulator()
	s.CreateQubit("q1", nil)
	s.SetSuperposition("q1", true)
	state, ok := s.Measure("q1")
	require.True(t, ok)
	assert.Contains(t, []int{0, 1}, state)
	q, _ := s.Qubit("q1")
	assert.False(t, q.Superposition)
}

func TestMeasurePropagatesToPartner(t *testing.T) {
	s := newSimulator()
	for i := 0; i < 20; i++ {
		s.CreateQubit("q1", nil)
		s.CreateQubit("q2", nil)
		s.Entangle("q1", "q2")
		s.SetSuperposition("q1", true)
		measured, _ := s.Measure("q2")
		partner, _ := s.Qubit("q1")
		assert.Equal(t, measured, partner.State)
	}
}

func TestFourierTransform(t *testing.T) {
	s := newSimulator()
	out, err := s.FourierTransform(fingerprint.Text("ABC"))
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.InDelta(t, 65, out[0], 1e-9)
	assert.InDelta(t, 66, out[1], 1e-9)
	assert.InDelta(t, 67, out[2], 1e-9)

	n, err := fingerprint.Number(42)
	require.NoError(t, err)
	out, err = s.FourierTransform(n)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.InDelta(t, 42, out[0], 1e-9)

	out, err = s.FourierTransform(fingerprint.Bytes([]byte{1, 2}))
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = s.FourierTransform(fingerprint.None())
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestRandom(t *testing.T) {
	s := newSimulator()
	for i := 0; i < 100; i++ {
		r := s.Random()
		assert.GreaterOrEqual(t, r, 0.0)
		assert.Less(t, r, 1.0)
	}
}

func TestWeightedConsensus(t *testing.T) {
	s := newSimulator()
	assert.Equal(t, 0.0, s.WeightedConsensus(nil))
	assert.InDelta(t, 1.0, s.WeightedConsensus([]float64{1, 1, 1}), 1e-12)
	w := s.WeightedConsensus([]float64{0, 1, 0, 1})
	assert.GreaterOrEqual(t, w, 0.0)
	assert.LessOrEqual(t, w, 1.0)
}
