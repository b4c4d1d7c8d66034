package resonance

import (
	"math"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/montanaflynn/stats"
	"github.com/sasha-s/go-deadlock"
	"neurostring/consensus/fingerprint"
	"neurostring/neurostring"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Memory is a content addressed store of payloads, indexed by fingerprint and grouped by
// frequency. order keeps the first insertion order of every fingerprint; buckets map a
// frequency in tenths to every fingerprint stored in it, once per Store.
type Memory struct {
	vibrations map[fingerprint.Fingerprint]Record
	order      []fingerprint.Fingerprint
	buckets    map[int][]fingerprint.Fingerprint
	mutex      *deadlock.RWMutex
}

func New() *Memory {
	return &Memory{
		vibrations: make(map[fingerprint.Fingerprint]Record),
		buckets:    make(map[int][]fingerprint.Fingerprint),
		mutex:      &deadlock.RWMutex{},
	}
}

// BucketOf is the resonance group of a frequency, in tenths. Halves round to even.
func BucketOf(frequency float64) int {
	return int(math.RoundToEven(frequency * 10))
}

// Store upserts the payload and returns its fingerprint. Storing the same payload twice keeps
// one record but lists the fingerprint twice in its bucket.
func (m *Memory) Store(p fingerprint.Payload) fingerprint.Fingerprint {
	return m.store(p, time.Now())
}

func (m *Memory) store(p fingerprint.Payload, at time.Time) fingerprint.Fingerprint {
	v := fingerprint.Of(p)
	r := Record{
		Vibration: v,
		Resonance: fingerprint.Resonance(v.Signature),
		Payload:   p,
		StoredAt:  at,
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.vibrations[v.Fingerprint]; !exists {
		m.order = append(m.order, v.Fingerprint)
	}
	m.vibrations[v.Fingerprint] = r
	b := BucketOf(v.Frequency)
	m.buckets[b] = append(m.buckets[b], v.Fingerprint)
	return v.Fingerprint
}

// Retrieve looks fp up exactly. Failing that, fp is normalized to lower case hex and, if that
// names a stored record, the first stored record within 1 - DefaultThreshold of its frequency
// is returned as Resonant. A fingerprint that is not stored in any spelling is None.
func (m *Memory) Retrieve(fp string) (fingerprint.Payload, Match) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if r, ok := m.vibrations[fp]; ok {
		return r.Payload, Exact
	}
	origin, ok := m.vibrations[strings.ToLower(strings.TrimSpace(fp))]
	if !ok {
		return fingerprint.Payload{}, None
	}
	for _, id := range m.order {
		r := m.vibrations[id]
		if resonates(origin.Frequency, r.Frequency, DefaultThreshold) {
			return r.Payload, Resonant
		}
	}
	return origin.Payload, Resonant
}

// Record returns the full stored record for fp.
func (m *Memory) Record(fp fingerprint.Fingerprint) (Record, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, ok := m.vibrations[fp]
	return r, ok
}

// Resonate lists the other stored fingerprints whose frequency is within 1 - threshold of the
// record at fp. It returns nothing if fp is not stored.
func (m *Memory) Resonate(fp fingerprint.Fingerprint, threshold float64) (out []fingerprint.Fingerprint) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	origin, ok := m.vibrations[fp]
	if !ok {
		return nil
	}
	for _, id := range m.order {
		if id == fp {
			continue
		}
		if resonates(origin.Frequency, m.vibrations[id].Frequency, threshold) {
			out = append(out, id)
		}
	}
	return
}

func resonates(a, b, threshold float64) bool {
	return math.Abs(a-b) < 1-threshold
}

// FindByResonance lists the fingerprints whose frequency is strictly within tolerance of
// frequency, in insertion order.
func (m *Memory) FindByResonance(frequency, tolerance float64) (out []fingerprint.Fingerprint) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, id := range m.order {
		if math.Abs(m.vibrations[id].Frequency-frequency) < tolerance {
			out = append(out, id)
		}
	}
	return
}

// Dimension projects every record onto dimension i, sorted by value. Out of range dimensions
// give an empty result.
func (m *Memory) Dimension(i int) []DimensionValue {
	if i < 0 || i >= fingerprint.Dimensions {
		return []DimensionValue{}
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]DimensionValue, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, DimensionValue{Fingerprint: id, Value: m.vibrations[id].Signature[i]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Value < out[b].Value
	})
	return out
}

// Bucket returns the fingerprints stored in the resonance group of frequency.
func (m *Memory) Bucket(frequency float64) []fingerprint.Fingerprint {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	b := m.buckets[BucketOf(frequency)]
	out := make([]fingerprint.Fingerprint, len(b))
	copy(out, b)
	return out
}

func (m *Memory) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.vibrations = make(map[fingerprint.Fingerprint]Record)
	m.buckets = make(map[int][]fingerprint.Fingerprint)
	m.order = nil
}

func (m *Memory) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.vibrations)
}

func (m *Memory) Stats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s := Stats{
		TotalPatterns:   len(m.vibrations),
		Dimensions:      fingerprint.Dimensions,
		ResonanceGroups: len(m.buckets),
	}
	var frequencies []float64
	for _, id := range m.order {
		frequencies = append(frequencies, m.vibrations[id].Frequency)
	}
	if mean, err := stats.Mean(frequencies); err == nil {
		s.AvgFrequency = mean
	}
	return s
}

// Digest hashes the sorted set of stored fingerprints.
func (m *Memory) Digest() neurostring.HashSeq {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	fps := make([]string, len(m.order))
	copy(fps, m.order)
	sort.Strings(fps)
	hs := neurostring.HashSeq{Mind: "resonance", Sequence: int64(len(fps))}
	if err := hs.AppendData(fps); err != nil {
		neurostring.LogCLI(err, 1)
	}
	hs.S256()
	return hs
}
