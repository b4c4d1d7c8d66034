package node

import (
	"time"

	"neurostring/consensus/fingerprint"
)

const (
	// Threshold is the activation potential at which a node spikes.
	Threshold = 0.8
	// Baseline is the potential a node resets to after spiking.
	Baseline = 0.1
	// Gain multiplies the potential every time a payload is processed.
	Gain = 1.1

	LearningRate = 0.1
)

const (
	minPotential       = 0.1
	maxPotential       = 1.0
	minStrength        = 0.3
	maxStrength        = 0.7
	strengthPerSynapse = 0.1
)

// Impulse is emitted by a spiking node and propagated through the network.
type Impulse struct {
	From      string                `json:"from"`
	Vibration fingerprint.Vibration `json:"vibration"`
	Timestamp time.Time             `json:"timestamp"`
	Strength  float64               `json:"strength"`
}

type QuantumState struct {
	Superposition int                `json:"superposition"`
	Entanglement  map[string]float64 `json:"entanglement"`
	VibrationFreq float64            `json:"vibration_freq"`
}

// State is a point in time report of a node.
type State struct {
	ID         string       `json:"id"`
	Age        float64      `json:"age"`
	Synapses   int          `json:"synapses"`
	SpikeCount int64        `json:"spike_count"`
	Activation float64      `json:"activation"`
	Quantum    QuantumState `json:"quantum_state"`
}
