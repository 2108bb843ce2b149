// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-test/deep"
	"github.com/project-illium/shielded/repo/mock"
	"github.com/project-illium/shielded/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveRoot hashes the leaves level by level, padding each level with the
// empty subtree root.
func naiveRoot(leaves []fr.Element) fr.Element {
	level := append([]fr.Element{}, leaves...)
	for depth := 0; depth < noteTreeDepth; depth++ {
		if len(level)%2 == 1 {
			level = append(level, emptyRoots[depth])
		}
		next := make([]fr.Element, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, types.CombineHash(depth, level[i], level[i+1]))
		}
		if len(next) == 0 {
			next = append(next, emptyRoots[depth+1])
		}
		level = next
	}
	return level[0]
}

func TestNoteTree(t *testing.T) {
	ds := mock.NewMapDatastore()
	roots := NewTxoRootSet(ds, 10)
	tree := NewNoteTree(ds)
	require.NoError(t, tree.Init())

	assert.Equal(t, uint64(0), tree.Size())
	empty := tree.Root()
	assert.True(t, empty.Equal(&emptyRoots[noteTreeDepth]))
	assert.True(t, empty.Equal(ptr(naiveRoot(nil))))

	leaves := make([]fr.Element, 7)
	for i := range leaves {
		leaves[i] = randomElement(t)
	}

	root, err := tree.Append(roots, leaves[:3]...)
	require.NoError(t, err)
	assert.True(t, root.Equal(ptr(naiveRoot(leaves[:3]))))
	firstRoot := root

	root, err = tree.Append(roots, leaves[3:]...)
	require.NoError(t, err)
	assert.True(t, root.Equal(ptr(naiveRoot(leaves))))
	assert.Equal(t, uint64(len(leaves)), tree.Size())

	for _, r := range []fr.Element{firstRoot, root} {
		exists, err := roots.Exists(r)
		require.NoError(t, err)
		assert.True(t, exists)
	}

	for i, leaf := range leaves {
		w, err := tree.Witness(uint64(i))
		require.NoError(t, err)
		assert.Len(t, w.AuthPath, noteTreeDepth)
		assert.True(t, w.Verify(leaf), "leaf %d", i)
		assert.Equal(t, uint64(i), w.Position())
		assert.Equal(t, uint64(len(leaves)), w.TreeSize)
	}

	_, err = tree.Witness(uint64(len(leaves)))
	assert.True(t, ErrorIs(err, ErrUnknownPosition))

	// Reload from the datastore.
	reloaded := NewNoteTree(ds)
	require.NoError(t, reloaded.Init())
	assert.Equal(t, tree.Size(), reloaded.Size())
	reloadedRoot := reloaded.Root()
	assert.True(t, reloadedRoot.Equal(&root))

	w1, err := tree.Witness(4)
	require.NoError(t, err)
	w2, err := reloaded.Witness(4)
	require.NoError(t, err)
	if diff := deep.Equal(w1, w2); diff != nil {
		t.Error(diff)
	}
}

func TestNoteTreeBatchEquivalence(t *testing.T) {
	leaves := make([]fr.Element, 5)
	for i := range leaves {
		leaves[i] = randomElement(t)
	}

	ds1 := mock.NewMapDatastore()
	batched := NewNoteTree(ds1)
	root1, err := batched.Append(NewTxoRootSet(ds1, 0), leaves...)
	require.NoError(t, err)

	ds2 := mock.NewMapDatastore()
	single := NewNoteTree(ds2)
	var root2 fr.Element
	for _, leaf := range leaves {
		root2, err = single.Append(NewTxoRootSet(ds2, 0), leaf)
		require.NoError(t, err)
	}
	assert.True(t, root1.Equal(&root2))
}

func TestNoteTreeFull(t *testing.T) {
	ds := mock.NewMapDatastore()
	tree := NewNoteTree(ds)
	tree.size = MaxNoteTreeSize - 1

	_, err := tree.Append(NewTxoRootSet(ds, 0), randomElement(t), randomElement(t))
	assert.True(t, ErrorIs(err, ErrNoteTreeFull))
	assert.Equal(t, MaxNoteTreeSize-1, tree.Size())
}

func ptr(e fr.Element) *fr.Element {
	return &e
}
