package network

import (
	"time"
)

const (
	// ConsensusThreshold is the fraction of yes votes needed for consensus.
	ConsensusThreshold = 0.67

	connectProbability   = 0.5
	entangleProbability  = 0.7
	voteThreshold        = 0.5
	voteJitterLow        = 0.8
	voteJitterHigh       = 1.2
	fingerprintPrefixLen = 10
	replayCapacity       = 10000
	minKeywordScore      = 1.0
	maxKeywordLen        = 50
)

type Status int

const (
	NoNodes Status = iota
	BelowThreshold
	Processed
)

func (s Status) String() string {
	switch s {
	case BelowThreshold:
		return "below_threshold"
	case Processed:
		return "processed"
	}
	return "no_nodes"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a transaction. Only Processed results carry a fingerprint prefix.
type Result struct {
	OK                bool   `json:"success"`
	Status            Status `json:"status"`
	Message           string `json:"message"`
	FingerprintPrefix string `json:"fingerprint,omitempty"`
	Fingerprint       string `json:"-"`
	Reached           int    `json:"reached"`
	Replay            bool   `json:"replay"`
}

// TransactionRecord is appended to the history for every processed transaction. Replay is set
// when the same fingerprint was processed recently.
type TransactionRecord struct {
	Data        string    `json:"data"`
	Kind        string    `json:"kind"`
	Timestamp   time.Time `json:"timestamp"`
	Node        string    `json:"node"`
	Vibration   string    `json:"vibration"`
	Fingerprint string    `json:"fingerprint"`
	Keywords    []string  `json:"keywords,omitempty"`
	Replay      bool      `json:"replay"`
}

type State struct {
	Nodes          int     `json:"nodes"`
	Synapses       int     `json:"synapses"`
	Transactions   int     `json:"transactions"`
	Entanglement   float64 `json:"entanglement"`
	MemoryPatterns int     `json:"memory_patterns"`
	MeanPotential  float64 `json:"mean_potential"`
}

// Ballot is the tally of a consensus vote.
type Ballot struct {
	Yes      int64 `json:"yes"`
	Total    int64 `json:"total"`
	Permille int64 `json:"permille"`
	Reached  bool  `json:"reached"`
}
