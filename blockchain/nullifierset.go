// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	datastore "github.com/ipfs/go-datastore"
	"github.com/project-illium/shielded/repo"
	"github.com/project-illium/shielded/types"
)

// NullifierSet provides cached access to the set of spent nullifiers.
type NullifierSet struct {
	ds            repo.Datastore
	cachedEntries map[types.Nullifier]bool
	maxEntries    uint
	mtx           sync.Mutex
}

// NewNullifierSet returns a new NullifierSet. maxEntries controls how
// much memory is used for cache purposes.
func NewNullifierSet(ds repo.Datastore, maxEntries uint) *NullifierSet {
	return &NullifierSet{
		ds:            ds,
		cachedEntries: make(map[types.Nullifier]bool),
		maxEntries:    maxEntries,
	}
}

// NullifierExists returns whether or not the nullifier exists in the
// nullifier set. If the entry is cached we'll return from memory, otherwise
// we have to check the disk.
//
// Negative results are cached too. A validator that checks a spend once
// on arrival and again when the bundle is connected only hits the disk
// the first time.
func (ns *NullifierSet) NullifierExists(nullifier types.Nullifier) (bool, error) {
	ns.mtx.Lock()
	defer ns.mtx.Unlock()

	exists, ok := ns.cachedEntries[nullifier]
	if ok {
		return exists, nil
	}

	exists, err := dsNullifierExists(ns.ds, nullifier)
	if err != nil {
		return false, err
	}

	if ns.maxEntries == 0 {
		return exists, nil
	}

	ns.limitCache(1)
	ns.cachedEntries[nullifier] = exists
	return exists, nil
}

// AddNullifiers adds the nullifiers to the database using the provided
// database transaction.
//
// The cached entries are dropped rather than updated so that a discarded
// transaction cannot leave a wrong answer in the cache.
func (ns *NullifierSet) AddNullifiers(dbtx datastore.Txn, nullifiers []types.Nullifier) error {
	ns.mtx.Lock()
	defer ns.mtx.Unlock()

	for _, n := range nullifiers {
		delete(ns.cachedEntries, n)
	}

	return dsPutNullifiers(dbtx, nullifiers)
}

func (ns *NullifierSet) limitCache(newEntries int) {
	// If adding this new entry will put us over the max number of allowed
	// entries, then evict an entry.
	i := 0
	if uint(len(ns.cachedEntries)+newEntries) > ns.maxEntries {
		// Remove a random entry from the map. Relying on the random
		// starting point of Go's map iteration. An adversary would
		// need preimages of the nullifier hash to steer eviction.
		for nullifier := range ns.cachedEntries {
			delete(ns.cachedEntries, nullifier)
			i++
			if i >= newEntries {
				break
			}
		}
	}
}
