package resonance

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"neurostring/consensus/fingerprint"
)

func mustNumber(t *testing.T, n interface{}) fingerprint.Payload {
	t.Helper()
	p, err := fingerprint.Number(n)
	require.NoError(t, err)
	return p
}

func mustStructured(t *testing.T, v interface{}) fingerprint.Payload {
	t.Helper()
	p, err := fingerprint.Structured(v)
	require.NoError(t, err)
	return p
}

func TestStoreRetrieveRoundTrip(t *testing.T) {
	m := New()
	payloads := []fingerprint.Payload{
		fingerprint.Text("test data"),
		mustStructured(t, map[string]interface{}{"key": "value", "num": 42}),
		mustNumber(t, 42),
	}
	for _, p := range payloads {
		fp := m.Store(p)
		assert.Equal(t, fingerprint.Of(p).Fingerprint, fp)
		got, match := m.Retrieve(fp)
		assert.Equal(t, Exact, match)
		assert.Equal(t, p, got)
	}
	assert.Equal(t, 3, m.Len())
}

func TestRetrieveMiss(t *testing.T) {
	m := New()
	_, match := m.Retrieve("not a fingerprint")
	assert.Equal(t, None, match)

	m.Store(fingerprint.Text("a"))
	_, match = m.Retrieve("zzzz")
	assert.Equal(t, None, match)
	_, match = m.Retrieve("")
	assert.Equal(t, None, match)
}

func TestRetrieveResonant(t *testing.T) {
	m := New()
	p := fingerprint.Text("resonant")
	fp := m.Store(p)

	got, match := m.Retrieve(" " + strings.ToUpper(fp) + " ")
	assert.Equal(t, Resonant, match)
	assert.Equal(t, p, got)

	// same signature prefix, but not a stored fingerprint
	last := fp[len(fp)-1]
	swap := byte('0')
	if last == '0' {
		swap = '1'
	}
	_, match = m.Retrieve(fp[:len(fp)-1] + string(swap))
	assert.Equal(t, None, match)
	_, match = m.Retrieve(strings.Repeat("0", 24))
	assert.Equal(t, None, match)
}

func TestRetrieveUnknownFingerprint(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.Store(fingerprint.Text(fmt.Sprintf("stored %d", i)))
	}
	for i := 0; i < 100; i++ {
		fp := fingerprint.Of(fingerprint.Text(fmt.Sprintf("never stored %d", i))).Fingerprint
		got, match := m.Retrieve(fp)
		assert.Equal(t, None, match, fp)
		assert.Equal(t, fingerprint.Payload{}, got)
	}
}

func TestRetrieveResonantFirstInOrder(t *testing.T) {
	m := New()
	var first fingerprint.Fingerprint
	for i := 0; i < 50; i++ {
		fp := m.Store(fingerprint.Text(fmt.Sprintf("p%d", i)))
		if i == 0 {
			first = fp
		}
	}
	r, _ := m.Record(first)
	// a query shaped like the first record matches it before any later record
	got, match := m.Retrieve(strings.ToUpper(first))
	require.Equal(t, Resonant, match)
	assert.Equal(t, r.Payload, got)
}

func TestStoreDuplicates(t *testing.T) {
	m := New()
	p := fingerprint.Text("twice")
	fp := m.Store(p)
	m.Store(p)
	assert.Equal(t, 1, m.Len())
	r, ok := m.Record(fp)
	require.True(t, ok)
	assert.Equal(t, []fingerprint.Fingerprint{fp, fp}, m.Bucket(r.Frequency))
	assert.Equal(t, 1, m.Stats().ResonanceGroups)
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		frequency float64
		bucket    int
	}{
		{0.0, 0},
		{0.44, 4},
		{0.46, 5},
		{0.25, 2},
		{0.35, 4},
		{1.0, 10},
	}
	for _, test := range tests {
		assert.Equal(t, test.bucket, BucketOf(test.frequency), "%f", test.frequency)
	}
}

func TestFindByResonance(t *testing.T) {
	m := New()
	var fps []fingerprint.Fingerprint
	for i := 0; i < 20; i++ {
		fps = append(fps, m.Store(mustNumber(t, i)))
	}
	for _, fp := range m.FindByResonance(0.5, DefaultTolerance) {
		r, _ := m.Record(fp)
		assert.Less(t, r.Frequency-0.5, DefaultTolerance)
		assert.Greater(t, r.Frequency-0.5, -DefaultTolerance)
	}
	all := m.FindByResonance(0.5, 1)
	assert.Equal(t, fps, all)
	assert.Empty(t, m.FindByResonance(0.5, 0))
}

func TestResonate(t *testing.T) {
	m := New()
	a := m.Store(fingerprint.Text("a"))
	b := m.Store(fingerprint.Text("b"))
	assert.Equal(t, []fingerprint.Fingerprint{b}, m.Resonate(a, -1))
	assert.Empty(t, m.Resonate(a, 1))
	assert.Nil(t, m.Resonate("unknown", 0))
}

func TestDimension(t *testing.T) {
	m := New()
	assert.Empty(t, m.Dimension(-1))
	assert.Empty(t, m.Dimension(fingerprint.Dimensions))
	assert.Empty(t, m.Dimension(0))

	for i := 0; i < 10; i++ {
		m.Store(mustNumber(t, i))
	}
	d := m.Dimension(3)
	require.Len(t, d, 10)
	for i := 1; i < len(d); i++ {
		assert.LessOrEqual(t, d[i-1].Value, d[i].Value)
	}
	r, _ := m.Record(d[0].Fingerprint)
	assert.Equal(t, r.Signature[3], d[0].Value)
}

func TestStatsAndClear(t *testing.T) {
	m := New()
	assert.Equal(t, Stats{Dimensions: fingerprint.Dimensions}, m.Stats())

	a := m.Store(fingerprint.Text("a"))
	b := m.Store(fingerprint.Text("b"))
	ra, _ := m.Record(a)
	rb, _ := m.Record(b)
	s := m.Stats()
	assert.Equal(t, 2, s.TotalPatterns)
	assert.Equal(t, 11, s.Dimensions)
	assert.InDelta(t, (ra.Frequency+rb.Frequency)/2, s.AvgFrequency, 1e-12)
	assert.GreaterOrEqual(t, s.ResonanceGroups, 1)

	m.Clear()
	assert.Equal(t, Stats{Dimensions: fingerprint.Dimensions}, m.Stats())
	_, match := m.Retrieve(a)
	assert.NotEqual(t, Exact, match)
}

func TestDigest(t *testing.T) {
	a, b := New(), New()
	a.Store(fingerprint.Text("x"))
	a.Store(fingerprint.Text("y"))
	b.Store(fingerprint.Text("y"))
	b.Store(fingerprint.Text("x"))
	assert.Equal(t, a.Digest().Hash, b.Digest().Hash)
	assert.Equal(t, int64(2), a.Digest().Sequence)
	b.Store(fingerprint.Text("z"))
	assert.NotEqual(t, a.Digest().Hash, b.Digest().Hash)
}

func TestExportImport(t *testing.T) {
	m := New()
	m.Store(fingerprint.Text("hello"))
	m.Store(mustStructured(t, map[string]interface{}{"key": "value", "num": 42}))
	m.Store(mustNumber(t, 42))
	m.Store(fingerprint.Bytes([]byte{1, 2, 3}))
	b, err := m.Export()
	require.NoError(t, err)

	restored := New()
	n, err := restored.Import(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, m.Digest().Hash, restored.Digest().Hash)
	assert.Equal(t, m.Stats(), restored.Stats())

	n, err = New().Import(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Zero(t, n)

	_, err = New().Import(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestImportAllOrNothing(t *testing.T) {
	m := New()
	// "hello" as text, then "nope" as a number
	in := `[{"kind":1,"raw":"aGVsbG8="},{"kind":3,"raw":"bm9wZQ=="}]`
	n, err := m.Import(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, fingerprint.ErrUnrepresentable)
	assert.Zero(t, n)
	assert.Zero(t, m.Len())
	assert.Zero(t, m.Stats().ResonanceGroups)
}

func TestConcurrentStore(t *testing.T) {
	m := New()
	wg := &sync.WaitGroup{}
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m.Store(fingerprint.Text(fmt.Sprintf("%d-%d", g, i)))
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 400, m.Len())
	total := 0
	for b := 0; b <= 10; b++ {
		total += len(m.Bucket(float64(b) / 10))
	}
	assert.Equal(t, 400, total)
}
