package neurostring

import (
	"math/big"
	"os"
)

func Touch(path string) error {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
	}
	return nil
}

// Permille returns signed/total in thousandths, rounded down. A zero total gives zero.
func Permille(signed, total int64) int64 {
	if total == 0 {
		return 0
	}
	if signed > total {
		signed = total
	}
	s := new(big.Rat)
	s.SetFrac64(signed, total)
	m := new(big.Rat)
	m.SetInt64(1000)
	s = s.Mul(s, m)
	i := new(big.Int).Quo(s.Num(), s.Denom())
	return i.Int64()
}

