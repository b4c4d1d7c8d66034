package network

import (
	"fmt"

	"neurostring/consensus/fingerprint"
	"neurostring/neurostring"
)

// Vote asks every node whether it agrees with the payload. A node votes yes when its potential,
// jittered by U(0.8, 1.2), is above 0.5. The payload itself does not sway the vote.
func (n *Network) Vote(p fingerprint.Payload) Ballot {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	var b Ballot
	for _, id := range n.sortedIDs() {
		b.Total++
		jitter := voteJitterLow + (voteJitterHigh-voteJitterLow)*n.float64()
		if n.nodes[id].Potential()*jitter > voteThreshold {
			b.Yes++
		}
	}
	if b.Total == 0 {
		return b
	}
	b.Permille = neurostring.Permille(b.Yes, b.Total)
	b.Reached = float64(b.Yes)/float64(b.Total) >= ConsensusThreshold
	neurostring.LogCLI(fmt.Sprintf("consensus on %s: %d of %d", p.String(), b.Yes, b.Total), 5)
	return b
}

// Consensus reports whether the network agrees on p. The second value is false when there are
// no nodes to ask.
func (n *Network) Consensus(p fingerprint.Payload) (reached bool, ok bool) {
	b := n.Vote(p)
	if b.Total == 0 {
		return false, false
	}
	return b.Reached, true
}

// ActivateEntanglement entangles each pair of nodes with probability 0.7 and records the
// entangled fraction of all possible pairs.
func (n *Network) ActivateEntanglement() float64 {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	count := len(n.nodes)
	if count < 2 {
		n.entanglement = 0
		return 0
	}
	var pairs int64
	possible := int64(count * (count - 1) / 2)
	for i := int64(0); i < possible; i++ {
		if n.float64() < entangleProbability {
			pairs++
		}
	}
	n.entanglement = float64(pairs) / float64(possible)
	return n.entanglement
}

func (n *Network) EntanglementLevel() float64 {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.entanglement
}
