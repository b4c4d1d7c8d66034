package neurostring

import (
	"math/rand"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// Random is the source of randomness for nodes, networks and the quantum simulator.
// *rand.Rand satisfies it, but is not safe to share; NewRandom returns one that is.
type Random interface {
	Float64() float64
	Intn(n int) int
}

type lockedRandom struct {
	r     *rand.Rand
	mutex *deadlock.Mutex
}

// NewRandom returns a goroutine safe Random. A zero seed seeds from the clock.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRandom{
		r:     rand.New(rand.NewSource(seed)),
		mutex: &deadlock.Mutex{},
	}
}

func (l *lockedRandom) Float64() float64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.r.Float64()
}

func (l *lockedRandom) Intn(n int) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.r.Intn(n)
}

// Uniform draws from [lo, hi).
func Uniform(r Random, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
