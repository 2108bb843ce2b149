// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/mimc"
)

// MiMC hashes the field elements with a fresh MiMC instance. The
// circuits use the same construction so native and in-circuit results
// agree.
func MiMC(elems ...fr.Element) fr.Element {
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		// Canonical elements are always accepted.
		h.Write(b[:])
	}
	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out
}

// FieldFromUint64 returns v as a field element.
func FieldFromUint64(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// FieldFromBytes interprets b as a big-endian integer reduced into the
// field. Inputs up to 16 bytes are never reduced.
func FieldFromBytes(b []byte) fr.Element {
	var e fr.Element
	e.SetBytes(b)
	return e
}
