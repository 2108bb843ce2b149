// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/ipfs/go-datastore"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/repo"
	"github.com/project-illium/shielded/types"
)

const (
	noteTreeDepth = params.TreeDepth

	// MaxNoteTreeSize is the number of leaves a full tree holds.
	MaxNoteTreeSize = uint64(1) << noteTreeDepth
)

// emptyRoots[i] is the root of an empty subtree of height i. An empty
// leaf is the zero element.
var emptyRoots = func() [noteTreeDepth + 1]fr.Element {
	var roots [noteTreeDepth + 1]fr.Element
	for i := 0; i < noteTreeDepth; i++ {
		roots[i+1] = types.CombineHash(i, roots[i], roots[i])
	}
	return roots
}()

// NoteTree is the append-only, fixed depth Merkle tree of note
// commitments. Every node that differs from the empty subtree at its
// height is persisted so witnesses can be served for any leaf.
type NoteTree struct {
	ds   repo.Datastore
	size uint64
	root fr.Element
	mtx  sync.RWMutex

	// appendMtx serializes writers. Readers only take mtx.
	appendMtx sync.Mutex
}

// noteTreeUpdate holds the nodes an append changes. It is computed
// against a database transaction and applied to memory after the
// transaction commits.
type noteTreeUpdate struct {
	size  uint64
	root  fr.Element
	nodes map[noteTreeNodeID]fr.Element
}

type noteTreeNodeID struct {
	level int
	index uint64
}

func NewNoteTree(ds repo.Datastore) *NoteTree {
	return &NoteTree{
		ds:   ds,
		root: emptyRoots[noteTreeDepth],
	}
}

// Init loads the tree size and root from the database.
func (t *NoteTree) Init() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	size, err := dsFetchNoteTreeSize(t.ds)
	if err != nil {
		return err
	}
	t.size = size
	t.root = emptyRoots[noteTreeDepth]
	if size == 0 {
		return nil
	}
	root, ok, err := dsFetchNoteTreeNode(t.ds, noteTreeDepth, 0)
	if err != nil {
		return err
	}
	if !ok {
		return AssertError(fmt.Sprintf("note tree has %d leaves but no root", size))
	}
	t.root = root
	log.Debug("Loaded note tree", log.Args("size", size))
	return nil
}

// Size returns the number of leaves appended so far.
func (t *NoteTree) Size() uint64 {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.size
}

// Root returns the current root.
func (t *NoteTree) Root() fr.Element {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.root
}

// Append adds the commitments as the next leaves and records the new root
// in roots. Everything is written in one database transaction.
func (t *NoteTree) Append(roots *TxoRootSet, commitments ...fr.Element) (fr.Element, error) {
	return t.appendTxn(roots, commitments, nil)
}

// appendTxn is Append with a hook that writes other state into the same
// database transaction before the tree nodes are computed.
func (t *NoteTree) appendTxn(roots *TxoRootSet, commitments []fr.Element, hook func(dbtx datastore.Txn) error) (fr.Element, error) {
	t.appendMtx.Lock()
	defer t.appendMtx.Unlock()

	dbtx, err := t.ds.NewTransaction(context.Background(), false)
	if err != nil {
		return fr.Element{}, err
	}
	defer dbtx.Discard(context.Background())

	if hook != nil {
		if err := hook(dbtx); err != nil {
			return fr.Element{}, err
		}
	}
	update, err := t.prepareAppend(dbtx, commitments)
	if err != nil {
		return fr.Element{}, err
	}
	if err := roots.AddRoot(dbtx, update.root); err != nil {
		return fr.Element{}, err
	}
	if err := dbtx.Commit(context.Background()); err != nil {
		return fr.Element{}, err
	}
	roots.CacheRoot(update.root)
	t.commit(update)
	return update.root, nil
}

// prepareAppend computes and writes to dbtx the nodes that change when
// the commitments are appended. The tree in memory is untouched until
// commit is called.
func (t *NoteTree) prepareAppend(dbtx datastore.Txn, commitments []fr.Element) (*noteTreeUpdate, error) {
	t.mtx.RLock()
	size, root := t.size, t.root
	t.mtx.RUnlock()

	if uint64(len(commitments)) > MaxNoteTreeSize-size {
		return nil, ruleError(ErrNoteTreeFull, fmt.Sprintf("note tree holds %d of %d leaves, cannot append %d", size, MaxNoteTreeSize, len(commitments)))
	}

	update := &noteTreeUpdate{
		size:  size,
		root:  root,
		nodes: make(map[noteTreeNodeID]fr.Element),
	}
	node := func(level int, index uint64) (fr.Element, error) {
		if n, ok := update.nodes[noteTreeNodeID{level, index}]; ok {
			return n, nil
		}
		n, ok, err := dsFetchNoteTreeNode(dbtx, level, index)
		if err != nil {
			return fr.Element{}, err
		}
		if !ok {
			return emptyRoots[level], nil
		}
		return n, nil
	}

	for _, cm := range commitments {
		index := update.size
		cur := cm
		update.nodes[noteTreeNodeID{0, index}] = cur
		for level := 0; level < noteTreeDepth; level++ {
			sibling, err := node(level, index^1)
			if err != nil {
				return nil, err
			}
			if index&1 == 0 {
				cur = types.CombineHash(level, cur, sibling)
			} else {
				cur = types.CombineHash(level, sibling, cur)
			}
			index >>= 1
			update.nodes[noteTreeNodeID{level + 1, index}] = cur
		}
		update.size++
		update.root = cur
	}

	for id, n := range update.nodes {
		if err := dsPutNoteTreeNode(dbtx, id.level, id.index, n); err != nil {
			return nil, err
		}
	}
	if err := dsPutNoteTreeSize(dbtx, update.size); err != nil {
		return nil, err
	}
	return update, nil
}

func (t *NoteTree) commit(update *noteTreeUpdate) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.size = update.size
	t.root = update.root
}

// Witness returns the authentication path of the leaf at position against
// the current root.
func (t *NoteTree) Witness(position uint64) (*types.Witness, error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	if position >= t.size {
		return nil, ruleError(ErrUnknownPosition, fmt.Sprintf("position %d is beyond the %d leaves of the note tree", position, t.size))
	}

	w := &types.Witness{
		TreeSize: t.size,
		RootHash: t.root,
		AuthPath: make([]types.WitnessNode, noteTreeDepth),
	}
	index := position
	for level := 0; level < noteTreeDepth; level++ {
		sibling, ok, err := dsFetchNoteTreeNode(t.ds, level, index^1)
		if err != nil {
			return nil, err
		}
		if !ok {
			sibling = emptyRoots[level]
		}
		w.AuthPath[level].Sibling = sibling
		if index&1 == 1 {
			w.AuthPath[level].Side = types.Right
		}
		index >>= 1
	}
	return w, nil
}
