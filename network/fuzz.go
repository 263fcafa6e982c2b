// +build gofuzz

package network // import "metricd.example.org/network"

import (
	"bytes"
	"fmt"
	"io"
)

// Fuzz is used by the https://github.com/dvyukov/go-fuzz framework
// It's method signature must match the prescribed format and it is expected to panic upon failure
// Usage:
//   $ go-fuzz-build metricd.example.org/network
//   $ mkdir -p /tmp/fuzzwork/corpus
//   $ cp network/testdata/packet1.bin /tmp/fuzzwork/corpus
//   $ go-fuzz -bin=./network-fuzz.zip -workdir=/tmp/fuzzwork
func Fuzz(data []byte) int {

	// deserialize
	d1, errs := Parse(data)
	if len(d1) == 0 {
		return 0
	}
	if len(d1) == 0 && len(errs) == 0 {
		panic("d1 is empty but no errors were returned")
	}

	// serialize
	s1 := NewBuffer(io.Discard)
	if err := s1.WriteValueList(d1[0]); err != nil {
		panic(err)
	}

	// deserialize
	d2, errs := Parse(s1.buffer.Bytes())
	if len(d2) == 0 {
		return 0
	}
	if len(d2) == 0 && len(errs) == 0 {
		panic("d2 is empty but no errors were returned")
	}

	// serialize
	s2 := NewBuffer(io.Discard)
	if err := s2.WriteValueList(d2[0]); err != nil {
		panic(err)
	}

	if bytes.Compare(s1.buffer.Bytes(), s2.buffer.Bytes()) != 0 {
		panic(fmt.Sprintf("Comparison of two serialized versions failed s1 [%v] s2[%v]", s1.buffer.Bytes(), s2.buffer.Bytes()))
	}

	return 1
}
