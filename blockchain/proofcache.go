// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"sync"

	"github.com/project-illium/shielded/types"
)

// ProofCache is used to cache the validation of zero knowledge proofs.
// Bundles are typically validated twice, once when they are received and
// once again when they are connected. We cache the validated proofs here
// to avoid having to redo the pairings.
//
// Only the proof's own validity is cached. Anchor and nullifier checks
// depend on state and always run.
type ProofCache struct {
	sync.RWMutex
	validProofs map[types.ID][]byte
	maxEntries  uint
}

// NewProofCache returns an instantiated ProofCache. maxEntries can be used
// to control memory usage.
func NewProofCache(maxEntries uint) *ProofCache {
	return &ProofCache{
		validProofs: make(map[types.ID][]byte, maxEntries),
		maxEntries:  maxEntries,
	}
}

// Exists returns whether the proof exists in the cache.
func (p *ProofCache) Exists(proofHash types.ID, proof []byte) bool {
	p.RLock()
	entry, ok := p.validProofs[proofHash]
	p.RUnlock()

	return ok && bytes.Equal(entry, proof)
}

// Add will add a new proof to the cache. If the new proof would exceed maxEntries
// a random proof will be evicted from the cache.
//
// NOTE: Proofs should be validated before adding to this cache and only valid
// proofs should ever be added.
func (p *ProofCache) Add(proofHash types.ID, proof []byte) {
	p.Lock()
	defer p.Unlock()

	if p.maxEntries == 0 {
		return
	}

	if _, ok := p.validProofs[proofHash]; !ok && uint(len(p.validProofs)+1) > p.maxEntries {
		for proofEntry := range p.validProofs {
			delete(p.validProofs, proofEntry)
			break
		}
	}
	p.validProofs[proofHash] = proof
}
