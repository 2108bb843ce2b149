// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/params/hash"
)

const NullifierSize = hash.HashSize

type Nullifier [hash.HashSize]byte

func (n Nullifier) String() string {
	return hex.EncodeToString(n[:])
}

func (n Nullifier) Bytes() []byte {
	return n[:]
}

func (n Nullifier) Clone() Nullifier {
	var b [len(n)]byte
	copy(b[:], n[:])
	return b
}

func (n *Nullifier) SetBytes(data []byte) {
	copy(n[:], data)
}

func (n *Nullifier) MarshalJSON() ([]byte, error) {
	return []byte(hex.EncodeToString(n[:])), nil
}

func (n *Nullifier) UnmarshalJSON(data []byte) error {
	i, err := NewNullifierFromString(string(data)) //nolint:staticcheck
	if err != nil {
		return err
	}
	*n = i
	return nil
}

func NewNullifier(b []byte) Nullifier {
	var sh Nullifier
	sh.SetBytes(b)
	return sh
}

func NewNullifierFromString(n string) (Nullifier, error) {
	// Return error if hash string is too long.
	if len(n) > hash.HashSize*2 {
		return Nullifier{}, ErrIDStrSize
	}
	ret, err := hex.DecodeString(n)
	if err != nil {
		return Nullifier{}, err
	}
	var newN Nullifier
	newN.SetBytes(ret)
	return newN, nil
}

// CalculateNullifier derives the nullifier of the note commitment at the
// given tree position. Only the holder of nk can compute it and it does
// not reveal the position or the commitment.
func CalculateNullifier(nk *crypto.Point, commitment fr.Element, position uint64) Nullifier {
	nf := crypto.MiMC(
		crypto.FieldFromUint64(params.DomainNullifier),
		nk.X, nk.Y,
		commitment,
		crypto.FieldFromUint64(position),
	)
	return NewNullifierFromElement(nf)
}

// NewNullifierFromElement encodes a field element as a Nullifier.
func NewNullifierFromElement(e fr.Element) Nullifier {
	return Nullifier(e.Bytes())
}

// Element returns the nullifier as a field element. It fails if the
// bytes are not a canonical encoding.
func (n Nullifier) Element() (fr.Element, error) {
	return crypto.DecodeFieldElement(n[:])
}
