// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package mempool

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/project-illium/shielded/blockchain"
	"github.com/project-illium/shielded/types"
)

type poolEntry struct {
	bundle  *blockchain.Bundle
	arrival time.Time
}

// Mempool holds validated bundles that have not been connected yet. No
// two bundles in the pool spend the same nullifier.
type Mempool struct {
	pool        map[types.ID]*poolEntry
	nullifiers  map[types.Nullifier]types.ID
	cfg         *config
	mempoolLock sync.RWMutex
}

func NewMempool(opts ...Option) (*Mempool, error) {
	var cfg config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Mempool{
		pool:       make(map[types.ID]*poolEntry),
		nullifiers: make(map[types.Nullifier]types.ID),
		cfg:        &cfg,
	}
	return m, nil
}

// BundleID returns the pool's identifier for a bundle: the hash of its
// serialization.
func BundleID(b *blockchain.Bundle) types.ID {
	return types.NewIDFromData(b.Serialize())
}

// ProcessBundle validates the bundle against the ledger and the pool
// and admits it.
func (m *Mempool) ProcessBundle(b *blockchain.Bundle) error {
	m.mempoolLock.Lock()
	defer m.mempoolLock.Unlock()

	id := BundleID(b)
	if _, ok := m.pool[id]; ok {
		return ErrDuplicateBundle
	}

	m.expire(time.Now())
	if m.cfg.maxBundles > 0 && len(m.pool) >= m.cfg.maxBundles {
		return policyError(ErrPoolFull, "mempool is full")
	}
	if m.cfg.maxProofs > 0 && len(b.Spends)+len(b.Receipts) > m.cfg.maxProofs {
		return policyError(ErrTooManyProofs, fmt.Sprintf("bundle carries more than %d proofs", m.cfg.maxProofs))
	}

	if err := blockchain.CheckBundleSanity(b); err != nil {
		return err
	}
	for _, n := range b.Nullifiers() {
		if _, ok := m.nullifiers[n]; ok {
			return ruleError(blockchain.ErrDoubleSpend, "nullifier already in mempool")
		}
	}

	err := <-blockchain.ValidateBundleProofs(b, m.cfg.verifier, m.cfg.proofCache, anchorSet{m.cfg.chainView}, m.cfg.chainView)
	if err != nil {
		return err
	}

	m.pool[id] = &poolEntry{bundle: b, arrival: time.Now()}
	for _, n := range b.Nullifiers() {
		m.nullifiers[n] = id
	}
	log.Debug("Bundle accepted into mempool", log.Args("id", id.String()))
	return nil
}

// RemoveBundles drops the bundles from the pool, for example after they
// were connected to the ledger.
func (m *Mempool) RemoveBundles(bundles []*blockchain.Bundle) {
	m.mempoolLock.Lock()
	defer m.mempoolLock.Unlock()

	for _, b := range bundles {
		m.remove(BundleID(b))
	}
}

func (m *Mempool) remove(id types.ID) {
	entry, ok := m.pool[id]
	if !ok {
		return
	}
	for _, n := range entry.bundle.Nullifiers() {
		delete(m.nullifiers, n)
	}
	delete(m.pool, id)
}

// expire drops bundles older than the TTL.
func (m *Mempool) expire(now time.Time) {
	if m.cfg.bundleTTL <= 0 {
		return
	}
	for id, entry := range m.pool {
		if now.Sub(entry.arrival) > m.cfg.bundleTTL {
			log.Debug("Expiring bundle from mempool", log.Args("id", id.String()))
			m.remove(id)
		}
	}
}

// GetBundle returns the bundle with the given ID.
func (m *Mempool) GetBundle(id types.ID) (*blockchain.Bundle, error) {
	m.mempoolLock.RLock()
	defer m.mempoolLock.RUnlock()

	entry, ok := m.pool[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry.bundle, nil
}

// Bundles returns the pooled bundles ordered by ID.
func (m *Mempool) Bundles() []*blockchain.Bundle {
	m.mempoolLock.RLock()
	defer m.mempoolLock.RUnlock()

	ids := make([]types.ID, 0, len(m.pool))
	for id := range m.pool {
		ids = append(ids, id)
	}
	sort.Sort(BundleIDSorter(ids))

	bundles := make([]*blockchain.Bundle, 0, len(ids))
	for _, id := range ids {
		bundles = append(bundles, m.pool[id].bundle)
	}
	return bundles
}
