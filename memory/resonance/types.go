package resonance

import (
	"time"

	"neurostring/consensus/fingerprint"
)

const (
	// DefaultThreshold is the similarity two frequencies need to resonate: they may differ by
	// less than 1 - DefaultThreshold.
	DefaultThreshold = 0.9
	// DefaultTolerance is the frequency window used by FindByResonance.
	DefaultTolerance = 0.1
)

// Match says how Retrieve found its payload.
type Match int

const (
	None Match = iota
	Exact
	Resonant
)

func (m Match) String() string {
	switch m {
	case Exact:
		return "exact"
	case Resonant:
		return "resonant"
	}
	return "none"
}

func (m Match) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Record is a stored payload together with its vibration.
type Record struct {
	fingerprint.Vibration
	Resonance fingerprint.Harmonics `json:"resonance"`
	Payload   fingerprint.Payload   `json:"data"`
	StoredAt  time.Time             `json:"stored_at"`
}

type DimensionValue struct {
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	Value       float64                 `json:"value"`
}

type Stats struct {
	TotalPatterns   int     `json:"total_patterns"`
	Dimensions      int     `json:"dimensions"`
	ResonanceGroups int     `json:"resonance_groups"`
	AvgFrequency    float64 `json:"avg_frequency"`
}

// snapshot is the on disk form of a record. The payload is kept in its normalized form so that
// restoring it gives back the same fingerprint.
type snapshot struct {
	Kind     fingerprint.Kind `json:"kind"`
	Raw      []byte           `json:"raw"`
	StoredAt time.Time        `json:"stored_at"`
}
