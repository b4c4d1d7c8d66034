package fingerprint

import (
	"strconv"

	"github.com/montanaflynn/stats"
	"neurostring/neurostring"
)

// Dimensions is the length of every Signature.
const Dimensions = 11

const (
	chunkWidth  = 4 // hex chars read per dimension
	chunkStride = 2 // offset between consecutive dimensions
	chunkMax    = 65535.0
	padding     = 0.5
)

// Fingerprint is the lowercase hex SHA-256 of a payload's normalized bytes.
type Fingerprint = string

type Signature [Dimensions]float64

type Vibration struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Signature   Signature   `json:"dimensions"`
	Frequency   float64     `json:"frequency"`
}

type Harmonics struct {
	Fundamental float64             `json:"fundamental"`
	Overtones   [Dimensions]float64 `json:"overtones"`
}

// Of fingerprints a payload. It is deterministic and has no side effects.
func Of(p Payload) Vibration {
	fp := neurostring.Sha256(p.Bytes())
	sig, _ := FromHex(fp)
	return Vibration{
		Fingerprint: fp,
		Signature:   sig,
		Frequency:   Frequency(sig),
	}
}

// FromHex derives a Signature from any hex string shaped like a fingerprint. Dimensions past the
// end of the string are padded. It returns false if s is empty or not hex.
func FromHex(s string) (sig Signature, ok bool) {
	if len(s) == 0 || !isHex(s) {
		return sig, false
	}
	for i := 0; i < Dimensions; i++ {
		start := i * chunkStride
		if start >= len(s) {
			sig[i] = padding
			continue
		}
		end := start + chunkWidth
		if end > len(s) {
			end = len(s)
		}
		v, err := strconv.ParseUint(s[start:end], 16, 32)
		if err != nil {
			sig[i] = padding
			continue
		}
		sig[i] = float64(v) / chunkMax
	}
	return sig, true
}

// Frequency is the mean of a signature.
func Frequency(sig Signature) float64 {
	f, err := stats.Mean(sig[:])
	if err != nil {
		return padding
	}
	return f
}

// Resonance computes the harmonic series of a signature: overtone i is d[i]*(i+1)/D and the
// fundamental is their mean.
func Resonance(sig Signature) (h Harmonics) {
	for i, d := range sig {
		h.Overtones[i] = d * float64(i+1) / Dimensions
	}
	h.Fundamental, _ = stats.Mean(h.Overtones[:])
	return
}

// Prefix returns the first n characters of a fingerprint.
func Prefix(fp Fingerprint, n int) string {
	if len(fp) < n {
		return fp
	}
	return fp[:n]
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
