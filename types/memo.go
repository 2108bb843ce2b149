// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
)

// Memo is an opaque message attached to a note. Longer messages are
// truncated and shorter ones are zero padded.
type Memo [params.MemoSize]byte

// NewMemo returns a memo holding the first MemoSize bytes of data.
func NewMemo(data []byte) Memo {
	var m Memo
	copy(m[:], data)
	return m
}

// Limbs splits the memo into two 16 byte big-endian field elements so it
// can be absorbed by the note commitment.
func (m Memo) Limbs() (hi fr.Element, lo fr.Element) {
	half := params.MemoSize / 2
	return crypto.FieldFromBytes(m[:half]), crypto.FieldFromBytes(m[half:])
}
