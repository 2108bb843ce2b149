// Copyright (c) 2022 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package hash

import (
	"golang.org/x/crypto/blake2s"
)

const HashSize = 32

func HashFunc(data []byte) []byte {
	h := blake2s.Sum256(data)
	return h[:]
}

// PersonalizedHash hashes the concatenation of the data slices under
// a domain separation tag. Distinct tags give unrelated outputs for
// the same data.
func PersonalizedHash(personalization string, data ...[]byte) []byte {
	h, _ := blake2s.New256(nil)
	h.Write([]byte(personalization))
	h.Write([]byte{0x00})
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
