package neurostring

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"

	boom "github.com/tylertreat/BoomFilters"
)

func Sha256(data []byte) S256Hash {
	h := sha256.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// MakeNewInverseBloomFilter returns a function reporting true the first time it sees a message.
// The inverse bloom filter can forget, never the other way around, so a false result always
// means the message really was seen recently.
func MakeNewInverseBloomFilter(capacity uint) func(message interface{}) bool {
	ibf := boom.NewInverseBloomFilter(capacity)
	return func(message interface{}) bool {
		b := []byte(fmt.Sprint(message))
		return !ibf.TestAndAdd(b)
	}
}

//AppendData adds the provided data to a buffer that lives as long as the HashSeq.
//Call HashSeq.S256 to hash the buffer and write the hash to HashSeq.Hash
func (h *HashSeq) AppendData(data interface{}) error {
	var errors []error
	switch d := data.(type) {
	case string:
		_, err := h.Data.WriteString(d)
		errors = append(errors, err)
	case int64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(d))
		_, err := h.Data.Write(b)
		errors = append(errors, err)
	case int:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(d))
		_, err := h.Data.Write(b)
		errors = append(errors, err)
	case float64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(d))
		_, err := h.Data.Write(b)
		errors = append(errors, err)
	case []byte:
		_, err := h.Data.Write(d)
		errors = append(errors, err)
	case []string:
		for _, s := range d {
			_, err := h.Data.WriteString(s)
			errors = append(errors, err)
		}
	case bool:
		if d {
			err := h.Data.WriteByte(1)
			errors = append(errors, err)
		}
		if !d {
			err := h.Data.WriteByte(0)
			errors = append(errors, err)
		}
	default:
		return fmt.Errorf("cannot hash value of type %T", data)
	}
	for _, err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}

// S256 calculates the sha256 hash of the HashSeq and stores it as the HashSeq.Hash
//It resets the HashSeq.Data buffer.
func (h *HashSeq) S256() {
	h.Hash = fmt.Sprintf("%x", sha256.Sum256(h.Data.Bytes()))
	h.Data.Reset()
}
