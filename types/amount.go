// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// AmountLen is the size of a serialized Amount.
const AmountLen = 8

// Amount is the value carried by a note, in base units of its asset.
// Circuits range check it to 64 bits.
type Amount uint64

// ToBytes returns the byte representation of the amount
func (a Amount) ToBytes() []byte {
	b := make([]byte, AmountLen)
	binary.BigEndian.PutUint64(b, uint64(a))
	return b
}

// BigInt returns the amount as a big integer scalar.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(a))
}

// Field returns the amount as a field element.
func (a Amount) Field() fr.Element {
	var e fr.Element
	e.SetUint64(uint64(a))
	return e
}
