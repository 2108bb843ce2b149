// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
	"github.com/stretchr/testify/assert"
)

// depth two tree over four leaves
//
//	      root
//	   n0      n1
//	 l0  l1  l2  l3
func buildTestTree() ([]fr.Element, fr.Element, fr.Element, fr.Element) {
	leaves := []fr.Element{
		crypto.FieldFromUint64(10),
		crypto.FieldFromUint64(11),
		crypto.FieldFromUint64(12),
		crypto.FieldFromUint64(13),
	}
	n0 := CombineHash(0, leaves[0], leaves[1])
	n1 := CombineHash(0, leaves[2], leaves[3])
	root := CombineHash(1, n0, n1)
	return leaves, n0, n1, root
}

func TestWitnessComputeRoot(t *testing.T) {
	leaves, n0, n1, root := buildTestTree()

	tests := []struct {
		name     string
		leaf     int
		path     []WitnessNode
		position uint64
	}{
		{"leaf0", 0, []WitnessNode{{Left, leaves[1]}, {Left, n1}}, 0},
		{"leaf1", 1, []WitnessNode{{Right, leaves[0]}, {Left, n1}}, 1},
		{"leaf2", 2, []WitnessNode{{Left, leaves[3]}, {Right, n0}}, 2},
		{"leaf3", 3, []WitnessNode{{Right, leaves[2]}, {Right, n0}}, 3},
	}

	for _, test := range tests {
		w := Witness{TreeSize: 4, RootHash: root, AuthPath: test.path}
		computed := w.ComputeRoot(leaves[test.leaf])
		assert.True(t, computed.Equal(&root), test.name)
		assert.True(t, w.Verify(leaves[test.leaf]), test.name)
		assert.Equal(t, test.position, w.Position(), test.name)
	}
}

func TestWitnessOrientation(t *testing.T) {
	leaves, _, n1, root := buildTestTree()
	path := []WitnessNode{{Left, leaves[1]}, {Left, n1}}

	for i := range path {
		flipped := make([]WitnessNode, len(path))
		copy(flipped, path)
		if flipped[i].Side == Left {
			flipped[i].Side = Right
		} else {
			flipped[i].Side = Left
		}
		w := Witness{TreeSize: 4, RootHash: root, AuthPath: flipped}
		computed := w.ComputeRoot(leaves[0])
		assert.False(t, computed.Equal(&root))
		assert.False(t, w.Verify(leaves[0]))
	}
}

func TestCombineHashDepth(t *testing.T) {
	a := crypto.FieldFromUint64(1)
	b := crypto.FieldFromUint64(2)
	h0 := CombineHash(0, a, b)
	h1 := CombineHash(1, a, b)
	assert.False(t, h0.Equal(&h1))

	swapped := CombineHash(0, b, a)
	assert.False(t, h0.Equal(&swapped))
}
