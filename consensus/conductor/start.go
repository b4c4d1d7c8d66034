package conductor

import (
	"fmt"
	"math"
	"sync"

	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/viper"
	"neurostring/auxiliarium/quantum"
	"neurostring/consensus/network"
	"neurostring/consensus/node"
	"neurostring/memory/resonance"
	"neurostring/neurostring"
)

// Conductor owns one network and one resonance memory and routes transactions through both.
type Conductor struct {
	conf    *viper.Viper
	network *network.Network
	memory  *resonance.Memory
	quantum *quantum.Simulator
	rnd     neurostring.Random
	ready   chan struct{}
	mutex   *deadlock.Mutex
}

// New builds a conductor. Nothing is seeded until Start. A nil rnd is built from randomSeed.
func New(conf *viper.Viper, rnd neurostring.Random) *Conductor {
	if rnd == nil {
		rnd = neurostring.NewRandom(conf.GetInt64("randomSeed"))
	}
	c := &Conductor{
		conf:   conf,
		rnd:    rnd,
		memory: resonance.New(),
		ready:  make(chan struct{}),
		mutex:  &deadlock.Mutex{},
	}
	c.network = network.New(c.childRandom())
	c.quantum = quantum.New(c.childRandom())
	return c
}

// childRandom derives an independent source so that a seeded conductor stays reproducible.
func (c *Conductor) childRandom() neurostring.Random {
	return neurostring.NewRandom(int64(c.rnd.Intn(math.MaxInt32)) + 1)
}

// Start starts the Conductor. It blocks until the network is seeded and ready for transactions.
func (c *Conductor) Start(terminate chan struct{}, wg *sync.WaitGroup) {
	neurostring.LogCLI("Starting the Conductor", 4)
	// Add a waitgroup delta so the caller knows we are doing something
	wg.Add(1)
	go c.start(terminate, wg)
	<-c.ready
}

func (c *Conductor) start(terminate chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	if c.conf.GetBool("persistMemory") {
		c.restoreFromDisk()
	}
	for i := 0; i < c.conf.GetInt("seedNodes"); i++ {
		c.addNode()
	}
	level := c.network.ActivateEntanglement()
	neurostring.LogCLI(fmt.Sprintf("Conductor: seeded %d nodes, entanglement %.2f", c.network.Len(), level), 4)
	close(c.ready)
	neurostring.LogCLI("Conductor: I'm now accepting transactions", 4)
	<-terminate
	neurostring.LogCLI("Conductor: I received terminate signal, shutting down", 4)
	if c.conf.GetBool("persistMemory") {
		if err := c.persist(); err != nil {
			neurostring.LogCLI(err.Error(), 1)
		}
	}
	neurostring.LogCLI("Conductor: shutdown complete", 4)
}

func (c *Conductor) restoreFromDisk() {
	f, ok := neurostring.Open(c.conf.GetString("rootDir"), "resonance", "current")
	if !ok {
		return
	}
	defer f.Close()
	n, err := c.memory.Import(f)
	if err != nil {
		neurostring.LogCLI(err.Error(), 1)
	}
	neurostring.LogCLI(fmt.Sprintf("Conductor: restored %d patterns from disk", n), 4)
}

// persist writes the memory as the current state and again under its digest.
func (c *Conductor) persist() error {
	b, err := c.memory.Export()
	if err != nil {
		return err
	}
	dir := c.conf.GetString("rootDir")
	if err := neurostring.Write(dir, "resonance", "current", b); err != nil {
		return err
	}
	hs := c.memory.Digest()
	return neurostring.Write(dir, "resonance", hs.Hash, b)
}

func (c *Conductor) addNode() string {
	nd := node.New("", c.childRandom())
	c.network.AddNode(nd)
	c.quantum.CreateQubit(nd.ID(), nil)
	return nd.ID()
}
