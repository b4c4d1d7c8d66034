package neurostring

import (
	"bytes"
)

type S256Hash = string

type HashSeq struct {
	Hash     S256Hash
	Sequence int64
	Mind     string
	Data     bytes.Buffer
}
