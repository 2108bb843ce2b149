// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/ipfs/go-datastore"
	"github.com/project-illium/shielded/repo"
)

// TxoRootSet is the set of every root the note commitment tree has had.
// A spend may anchor to any of them.
type TxoRootSet struct {
	cache      map[fr.Element]bool
	mtx        sync.RWMutex
	ds         repo.Datastore
	maxEntries uint
}

func NewTxoRootSet(ds repo.Datastore, maxEntries uint) *TxoRootSet {
	return &TxoRootSet{
		cache:      make(map[fr.Element]bool),
		ds:         ds,
		maxEntries: maxEntries,
	}
}

// Exists returns whether txoRoot was ever a root of the tree. Recently
// added roots are answered from memory.
func (t *TxoRootSet) Exists(txoRoot fr.Element) (bool, error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	if exists := t.cache[txoRoot]; exists {
		return true, nil
	}

	return dsTxoSetRootExists(t.ds, txoRoot)
}

// AddRoot writes txoRoot to dbtx. The root is not answered from memory
// until CacheRoot is called once dbtx has committed.
func (t *TxoRootSet) AddRoot(dbtx datastore.Txn, txoRoot fr.Element) error {
	return dsPutTxoSetRoot(dbtx, txoRoot)
}

// CacheRoot keeps a committed root in memory.
func (t *TxoRootSet) CacheRoot(txoRoot fr.Element) {
	if t.maxEntries == 0 {
		return
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	// If adding this new entry will put us over the max number of allowed
	// entries, then evict a random one.
	if uint(len(t.cache)+1) > t.maxEntries {
		for entry := range t.cache {
			delete(t.cache, entry)
			break
		}
	}
	t.cache[txoRoot] = true
}
