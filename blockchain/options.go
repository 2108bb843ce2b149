// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/repo"
	"github.com/project-illium/shielded/repo/mock"
	"github.com/project-illium/shielded/zk"
)

const (
	DefaultMaxTxoRoots    = 500
	DefaultMaxNullifiers  = 100000
	DefaultProofCacheSize = 100000
)

// DefaultOptions returns a ledger configure option that fills in the
// default settings. You will almost certainly want to override some of
// the defaults, such as the verifier and datastore.
func DefaultOptions() Option {
	return func(cfg *config) error {
		cfg.datastore = mock.NewMapDatastore()
		cfg.proofCache = NewProofCache(DefaultProofCacheSize)
		cfg.maxNullifiers = DefaultMaxNullifiers
		cfg.maxTxoRoots = DefaultMaxTxoRoots
		return nil
	}
}

// Option is configuration option function for the ledger
type Option func(cfg *config) error

// Verifier checks the zk-snark proofs. Pass the loaded *zk.Parameters.
//
// This option is required.
func Verifier(verifier zk.Verifier) Option {
	return func(cfg *config) error {
		cfg.verifier = verifier
		return nil
	}
}

// Datastore is an implementation of the repo.Datastore interface
//
// This option is required.
func Datastore(ds repo.Datastore) Option {
	return func(cfg *config) error {
		cfg.datastore = ds
		return nil
	}
}

// SnarkProofCache caches proof validation so we don't need to expend
// extra CPU to validate zk-snark proofs more than once.
//
// If this is not provided a new instance will be used.
func SnarkProofCache(proofCache *ProofCache) Option {
	return func(cfg *config) error {
		cfg.proofCache = proofCache
		return nil
	}
}

// ScanKeys is a list of keys to attempt to decrypt receipts with as
// bundles are connected. Matches are available from OwnedNotes.
func ScanKeys(keys ...*crypto.SpendingKey) Option {
	return func(cfg *config) error {
		cfg.scanKeys = keys
		return nil
	}
}

// MaxNullifiers is the maximum amount of nullifiers to hold in memory
// for fast access.
func MaxNullifiers(maxNullifiers uint) Option {
	return func(cfg *config) error {
		cfg.maxNullifiers = maxNullifiers
		return nil
	}
}

// MaxTxoRoots is the maximum amount of TxoRoots to hold in memory for
// fast access.
func MaxTxoRoots(maxTxoRoots uint) Option {
	return func(cfg *config) error {
		cfg.maxTxoRoots = maxTxoRoots
		return nil
	}
}

type config struct {
	verifier      zk.Verifier
	datastore     repo.Datastore
	proofCache    *ProofCache
	maxNullifiers uint
	maxTxoRoots   uint
	scanKeys      []*crypto.SpendingKey
}

func (cfg *config) validate() error {
	if cfg == nil {
		return AssertError("NewLedger: ledger config cannot be nil")
	}
	if cfg.verifier == nil {
		return AssertError("NewLedger: verifier cannot be nil")
	}
	if cfg.datastore == nil {
		return AssertError("NewLedger: datastore cannot be nil")
	}
	if cfg.proofCache == nil {
		return AssertError("NewLedger: proof cache cannot be nil")
	}
	return nil
}
