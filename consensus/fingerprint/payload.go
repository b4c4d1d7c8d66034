package fingerprint

import (
	"errors"
	"fmt"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnrepresentable is returned when a payload cannot be normalized to bytes.
var ErrUnrepresentable = errors.New("payload is not representable as bytes")

type Kind int

const (
	KindNone Kind = iota
	KindText
	KindBytes
	KindNumber
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindNumber:
		return "number"
	case KindStructured:
		return "structured"
	}
	return "none"
}

// Payload is anything that can be sent through the network or stored in memory. The
// normalized byte form is computed once, when the Payload is built.
type Payload struct {
	kind  Kind
	raw   []byte
	value interface{}
}

func None() Payload {
	return Payload{kind: KindNone, raw: []byte{}}
}

func Text(s string) Payload {
	return Payload{kind: KindText, raw: []byte(s), value: s}
}

func Bytes(b []byte) Payload {
	c := make([]byte, len(b))
	copy(c, b)
	return Payload{kind: KindBytes, raw: c, value: c}
}

// Number accepts any integer, float or bool and normalizes it to its decimal string.
func Number(n interface{}) (Payload, error) {
	switch n.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
	default:
		return Payload{}, fmt.Errorf("%w: %T is not a number", ErrUnrepresentable, n)
	}
	s, err := cast.ToStringE(n)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %s", ErrUnrepresentable, err.Error())
	}
	return Payload{kind: KindNumber, raw: []byte(s), value: n}, nil
}

// Structured normalizes maps, slices and structs to JSON with sorted map keys.
func Structured(v interface{}) (Payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %s", ErrUnrepresentable, err.Error())
	}
	return Payload{kind: KindStructured, raw: b, value: v}, nil
}

// From picks the variant for a dynamically typed value, such as a decoded JSON body.
func From(v interface{}) (Payload, error) {
	switch d := v.(type) {
	case nil:
		return None(), nil
	case Payload:
		return d, nil
	case string:
		return Text(d), nil
	case []byte:
		return Bytes(d), nil
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
		return Number(d)
	case fmt.Stringer:
		return Text(d.String()), nil
	}
	return Structured(v)
}

// Restore rebuilds a payload from its kind and normalized bytes, as written by a snapshot.
func Restore(kind Kind, raw []byte) (Payload, error) {
	switch kind {
	case KindNone:
		return None(), nil
	case KindText:
		return Text(string(raw)), nil
	case KindBytes:
		return Bytes(raw), nil
	case KindNumber:
		s := string(raw)
		if s == "true" || s == "false" {
			return Payload{kind: KindNumber, raw: []byte(s), value: s == "true"}, nil
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %s", ErrUnrepresentable, err.Error())
		}
		return Payload{kind: KindNumber, raw: []byte(s), value: f}, nil
	case KindStructured:
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return Payload{}, fmt.Errorf("%w: %s", ErrUnrepresentable, err.Error())
		}
		c := make([]byte, len(raw))
		copy(c, raw)
		return Payload{kind: KindStructured, raw: c, value: v}, nil
	}
	return Payload{}, fmt.Errorf("%w: unknown kind %d", ErrUnrepresentable, kind)
}

func (p Payload) Kind() Kind {
	return p.kind
}

// Bytes is the normalized form that gets hashed.
func (p Payload) Bytes() []byte {
	return p.raw
}

// Value is the value the payload was built from.
func (p Payload) Value() interface{} {
	return p.value
}

// String is a short human readable descriptor used in transaction records.
func (p Payload) String() string {
	const max = 64
	switch p.kind {
	case KindNone:
		return "None"
	case KindBytes:
		return fmt.Sprintf("bytes[%d]", len(p.raw))
	}
	if len(p.raw) <= max {
		return string(p.raw)
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(p.raw[cut]) {
		cut--
	}
	return string(p.raw[:cut]) + "..."
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case KindNone:
		return []byte("null"), nil
	case KindNumber:
		return json.Marshal(p.value)
	case KindStructured:
		return p.raw, nil
	}
	return json.Marshal(p.value)
}
