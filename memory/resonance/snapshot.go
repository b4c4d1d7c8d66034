package resonance

import (
	"fmt"
	"io"

	"neurostring/consensus/fingerprint"
)

// Export writes every record, in insertion order, as JSON.
func (m *Memory) Export() ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]snapshot, 0, len(m.order))
	for _, id := range m.order {
		r := m.vibrations[id]
		out = append(out, snapshot{Kind: r.Payload.Kind(), Raw: r.Payload.Bytes(), StoredAt: r.StoredAt})
	}
	b, err := json.MarshalIndent(out, "", " ")
	if err != nil {
		return nil, fmt.Errorf("could not export resonance memory: %w", err)
	}
	return b, nil
}

// Import stores every record read from r, as written by Export. Records already in memory are
// kept. Nothing is stored unless every record can be restored.
func (m *Memory) Import(r io.Reader) (int, error) {
	var in []snapshot
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("could not decode resonance memory: %w", err)
	}
	payloads := make([]fingerprint.Payload, len(in))
	for i, s := range in {
		p, err := fingerprint.Restore(s.Kind, s.Raw)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		payloads[i] = p
	}
	for i, p := range payloads {
		m.store(p, in[i].StoredAt)
	}
	return len(payloads), nil
}
