package quantum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/cast"
	"neurostring/consensus/fingerprint"
	"neurostring/neurostring"
)

const superpositionProbability = 0.3

var ErrNotNumeric = errors.New("payload has no numeric series")

type Qubit struct {
	State         int     `json:"state"`
	Superposition bool    `json:"superposition"`
	Phase         float64 `json:"phase"`
}

// Simulator keeps a register of named qubits and the pairs entangled between them.
type Simulator struct {
	qubits map[string]*Qubit
	pairs  [][2]string
	rnd    neurostring.Random
	mutex  *deadlock.Mutex
}

// New creates an empty simulator. A nil rnd is replaced by a clock seeded source.
func New(rnd neurostring.Random) *Simulator {
	if rnd == nil {
		rnd = neurostring.NewRandom(0)
	}
	return &Simulator{
		qubits: make(map[string]*Qubit),
		rnd:    rnd,
		mutex:  &deadlock.Mutex{},
	}
}

// CreateQubit creates or replaces the qubit id. A nil state is drawn at random.
func (s *Simulator) CreateQubit(id string, state *int) Qubit {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	q := &Qubit{}
	if state != nil {
		q.State = *state
	} else {
		q.State = s.rnd.Intn(2)
	}
	q.Superposition = s.rnd.Float64() > 1-superpositionProbability
	q.Phase = neurostring.Uniform(s.rnd, 0, 2*math.Pi)
	s.qubits[id] = q
	return *q
}

func (s *Simulator) Qubit(id string) (Qubit, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	q, ok := s.qubits[id]
	if !ok {
		return Qubit{}, false
	}
	return *q, true
}

// Remove drops the qubit and every pair it is part of.
func (s *Simulator) Remove(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.qubits[id]; !ok {
		return false
	}
	delete(s.qubits, id)
	kept := s.pairs[:0]
	for _, pair := range s.pairs {
		if pair[0] != id && pair[1] != id {
			kept = append(kept, pair)
		}
	}
	s.pairs = kept
	return true
}

// SetSuperposition forces the superposition flag of an existing qubit.
func (s *Simulator) SetSuperposition(id string, superposition bool) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	q, ok := s.qubits[id]
	if ok {
		q.Superposition = superposition
	}
	return ok
}

// Entangle pairs two existing qubits and puts both in the same random state.
func (s *Simulator) Entangle(a, b string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	qa, okA := s.qubits[a]
	qb, okB := s.qubits[b]
	if !okA || !okB {
		return false
	}
	s.pairs = append(s.pairs, [2]string{a, b})
	state := s.rnd.Intn(2)
	qa.State = state
	qb.State = state
	return true
}

// Measure collapses a qubit in superposition to a random state and copies the result to every
// entangled partner.
func (s *Simulator) Measure(id string) (int, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	q, ok := s.qubits[id]
	if !ok {
		return 0, false
	}
	if q.Superposition {
		q.State = s.rnd.Intn(2)
		q.Superposition = false
	}
	for _, pair := range s.pairs {
		var partner string
		switch id {
		case pair[0]:
			partner = pair[1]
		case pair[1]:
			partner = pair[0]
		default:
			continue
		}
		if p, exists := s.qubits[partner]; exists {
			p.State = q.State
		}
	}
	return q.State, true
}

// FourierTransform maps the payload to a series and returns the magnitude of each term
// v[k] * e^(2 pi i k / n). Text uses its code points, numbers are a series of one, bytes use
// their values and structured payloads the code points of their JSON.
func (s *Simulator) FourierTransform(p fingerprint.Payload) ([]float64, error) {
	var series []float64
	switch p.Kind() {
	case fingerprint.KindNumber:
		v, err := cast.ToFloat64E(p.Value())
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotNumeric, err.Error())
		}
		series = []float64{v}
	case fingerprint.KindBytes:
		for _, b := range p.Bytes() {
			series = append(series, float64(b))
		}
	case fingerprint.KindText, fingerprint.KindStructured:
		for _, r := range string(p.Bytes()) {
			series = append(series, float64(r))
		}
	default:
		return nil, ErrNotNumeric
	}
	out := make([]float64, len(series))
	n := float64(len(series))
	for k, v := range series {
		out[k] = cmplx.Abs(complex(v, 0) * cmplx.Exp(complex(0, 2*math.Pi*float64(k)/n)))
	}
	return out, nil
}

// Random is the mean of two uniform draws.
func (s *Simulator) Random() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return (s.rnd.Float64() + s.rnd.Float64()) / 2
}

// WeightedConsensus is the mean of votes weighted by Random. No votes give zero.
func (s *Simulator) WeightedConsensus(votes []float64) float64 {
	if len(votes) == 0 {
		return 0
	}
	var sum, total float64
	for _, v := range votes {
		w := s.Random()
		sum += v * w
		total += w
	}
	if total <= 0 {
		return 0
	}
	return sum / total
}
