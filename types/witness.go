// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
)

// Side is the side of its parent a node on an authentication path
// occupies.
type Side uint8

const (
	// Left means the node being carried up is the left child and the
	// sibling is hashed second.
	Left Side = iota
	// Right means the node being carried up is the right child and the
	// sibling is hashed first.
	Right
)

// WitnessNode is one level of an authentication path.
type WitnessNode struct {
	Side    Side
	Sibling fr.Element
}

// Witness is the authentication path of a note commitment to the root of
// the tree at the time the witness was taken. AuthPath is ordered from
// the leaf level up.
type Witness struct {
	TreeSize uint64
	RootHash fr.Element
	AuthPath []WitnessNode
}

// CombineHash hashes two children at the given depth, 0 being the leaf
// level. Folding the depth in keeps equal subtrees at different heights
// from hashing to the same value.
func CombineHash(depth int, left, right fr.Element) fr.Element {
	return crypto.MiMC(crypto.FieldFromUint64(uint64(params.DomainMerkle+depth)), left, right)
}

// ComputeRoot folds the authentication path over the leaf from the leaf
// level to the root.
func (w *Witness) ComputeRoot(leaf fr.Element) fr.Element {
	cur := leaf
	for i, node := range w.AuthPath {
		if node.Side == Left {
			cur = CombineHash(i, cur, node.Sibling)
		} else {
			cur = CombineHash(i, node.Sibling, cur)
		}
	}
	return cur
}

// Verify returns whether the path takes the leaf to RootHash.
func (w *Witness) Verify(leaf fr.Element) bool {
	root := w.ComputeRoot(leaf)
	return root.Equal(&w.RootHash)
}

// Position returns the leaf index the path describes. Level i contributes
// 2^i when the node is the right child.
func (w *Witness) Position() uint64 {
	var pos uint64
	for i, node := range w.AuthPath {
		if node.Side == Right {
			pos |= 1 << uint(i)
		}
	}
	return pos
}
