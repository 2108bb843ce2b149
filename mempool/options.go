// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package mempool

import (
	"time"

	"github.com/project-illium/shielded/blockchain"
	"github.com/project-illium/shielded/zk"
)

const (
	defaultProofCacheSize = 100000
	defaultBundleTTL      = time.Hour * 24
	defaultMaxBundles     = 5000
	defaultMaxProofs      = 64
)

// DefaultOptions returns a mempool configure option that fills in the
// default settings. You will almost certainly want to override some of
// the defaults, such as the chain view and verifier.
func DefaultOptions() Option {
	return func(cfg *config) error {
		cfg.proofCache = blockchain.NewProofCache(defaultProofCacheSize)
		cfg.bundleTTL = defaultBundleTTL
		cfg.maxBundles = defaultMaxBundles
		cfg.maxProofs = defaultMaxProofs
		return nil
	}
}

// Option is configuration option function for the mempool
type Option func(cfg *config) error

// LedgerView is an interface that is used to access data from the
// ledger needed for mempool validation.
//
// This option is required.
func LedgerView(cv ChainView) Option {
	return func(cfg *config) error {
		cfg.chainView = cv
		return nil
	}
}

// Verifier is an implementation of the zk-snark Verifier interface.
//
// This option is required.
func Verifier(verifier zk.Verifier) Option {
	return func(cfg *config) error {
		cfg.verifier = verifier
		return nil
	}
}

// BundleTTL represents the amount of time a bundle remains in the
// mempool without being connected before we discard it.
func BundleTTL(ttl time.Duration) Option {
	return func(cfg *config) error {
		cfg.bundleTTL = ttl
		return nil
	}
}

// MaxBundles is the most bundles the pool holds.
func MaxBundles(n int) Option {
	return func(cfg *config) error {
		cfg.maxBundles = n
		return nil
	}
}

// MaxProofs is the most spends plus receipts a bundle may carry to be
// admitted.
func MaxProofs(n int) Option {
	return func(cfg *config) error {
		cfg.maxProofs = n
		return nil
	}
}

// ProofCache caches proof validation so we don't need to expend
// extra CPU to validate zero knowledge proofs more than once. Share it
// with the ledger so connecting a pooled bundle skips the pairings.
//
// If this is not provided a new instance will be used.
func ProofCache(proofCache *blockchain.ProofCache) Option {
	return func(cfg *config) error {
		cfg.proofCache = proofCache
		return nil
	}
}

type config struct {
	chainView  ChainView
	verifier   zk.Verifier
	proofCache *blockchain.ProofCache
	bundleTTL  time.Duration
	maxBundles int
	maxProofs  int
}

func (cfg *config) validate() error {
	if cfg == nil {
		return AssertError("NewMempool: config cannot be nil")
	}
	if cfg.chainView == nil {
		return AssertError("NewMempool: chain view cannot be nil")
	}
	if cfg.verifier == nil {
		return AssertError("NewMempool: verifier cannot be nil")
	}
	if cfg.proofCache == nil {
		return AssertError("NewMempool: proof cache cannot be nil")
	}
	return nil
}
