package network

import (
	"time"

	rake "github.com/afjoseph/RAKE.Go"
	"github.com/sasha-s/go-deadlock"
	"neurostring/consensus/fingerprint"
	"neurostring/consensus/node"
	"neurostring/neurostring"
)

type history struct {
	records []TransactionRecord
	seen    func(message interface{}) bool
	mutex   *deadlock.Mutex
}

func newHistory(capacity uint) *history {
	return &history{
		seen:  neurostring.MakeNewInverseBloomFilter(capacity),
		mutex: &deadlock.Mutex{},
	}
}

func (h *history) append(p fingerprint.Payload, from string, imp node.Impulse) TransactionRecord {
	r := TransactionRecord{
		Data:        p.String(),
		Kind:        p.Kind().String(),
		Timestamp:   imp.Timestamp,
		Node:        from,
		Vibration:   fingerprint.Prefix(imp.Vibration.Fingerprint, fingerprintPrefixLen),
		Fingerprint: imp.Vibration.Fingerprint,
	}
	if p.Kind() == fingerprint.KindText {
		r.Keywords = keywords(string(p.Bytes()))
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	r.Replay = !h.seen(r.Fingerprint)
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	// keep the history ordered even if the clock steps backwards
	if l := len(h.records); l > 0 && r.Timestamp.Before(h.records[l-1].Timestamp) {
		r.Timestamp = h.records[l-1].Timestamp
	}
	h.records = append(h.records, r)
	return r
}

func (h *history) all() []TransactionRecord {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	out := make([]TransactionRecord, len(h.records))
	copy(out, h.records)
	return out
}

func (h *history) len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.records)
}

func keywords(text string) (k []string) {
	for _, candidate := range rake.RunRake(text) {
		if candidate.Value >= minKeywordScore && len(candidate.Key) < maxKeywordLen {
			k = append(k, candidate.Key)
		}
	}
	return
}
