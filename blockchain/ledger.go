// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"sort"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/ipfs/go-datastore"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk"
)

// BehaviorFlags is a bitmask defining tweaks to the normal behavior when
// performing bundle processing and consensus rules checks.
type BehaviorFlags uint32

const (
	// BFNoValidation is used to signal that this bundle has already been
	// validated and is known to be good and does not need to be validated
	// again.
	BFNoValidation BehaviorFlags = 1 << iota

	// BFNone is a convenience value to specifically indicate no flags.
	BFNone BehaviorFlags = 0
)

// HasFlag returns whether the BehaviorFlags has the passed flag set.
func (behaviorFlags BehaviorFlags) HasFlag(flag BehaviorFlags) bool {
	return behaviorFlags&flag == flag
}

// Ledger is the shielded state: the note commitment tree, every root it
// has had and the spent nullifiers. Bundles are validated against it and
// connected to it atomically.
type Ledger struct {
	noteTree     *NoteTree
	nullifierSet *NullifierSet
	txoRootSet   *TxoRootSet
	proofCache   *ProofCache
	verifier     zk.Verifier
	scanner      *NoteScanner
	ownedNotes   map[fr.Element]*ScanMatch

	// stateLock protects concurrent access to the ledger state.
	stateLock sync.RWMutex

	notificationsLock sync.RWMutex
	notifications     []NotificationCallback
}

// NewLedger returns an initialized ledger backed by the configured
// datastore.
func NewLedger(opts ...Option) (*Ledger, error) {
	var cfg config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	l := &Ledger{
		noteTree:     NewNoteTree(cfg.datastore),
		nullifierSet: NewNullifierSet(cfg.datastore, cfg.maxNullifiers),
		txoRootSet:   NewTxoRootSet(cfg.datastore, cfg.maxTxoRoots),
		proofCache:   cfg.proofCache,
		verifier:     cfg.verifier,
		scanner:      NewNoteScanner(cfg.scanKeys...),
		ownedNotes:   make(map[fr.Element]*ScanMatch),
	}
	if err := l.noteTree.Init(); err != nil {
		return nil, err
	}
	return l, nil
}

// ValidateBundle checks the bundle's proofs, anchors and nullifiers
// against the current state without changing it.
func (l *Ledger) ValidateBundle(bundle *Bundle) error {
	l.stateLock.RLock()
	defer l.stateLock.RUnlock()

	return l.validateBundles([]*Bundle{bundle})
}

func (l *Ledger) validateBundles(bundles []*Bundle) error {
	validator := NewProofValidator(l.verifier, l.proofCache, l.txoRootSet, l.nullifierSet)
	return validator.Validate(bundles)
}

// ConnectBundle validates the bundle and then, in one database
// transaction, marks its nullifiers spent, appends its note commitments
// to the tree and records the new root.
func (l *Ledger) ConnectBundle(bundle *Bundle, flags BehaviorFlags) error {
	l.stateLock.Lock()
	defer l.stateLock.Unlock()

	if !flags.HasFlag(BFNoValidation) {
		if err := l.validateBundles([]*Bundle{bundle}); err != nil {
			return err
		}
	}

	firstPosition := l.noteTree.Size()
	nullifiers := bundle.Nullifiers()
	root, err := l.noteTree.appendTxn(l.txoRootSet, bundle.Commitments(), func(dbtx datastore.Txn) error {
		return l.nullifierSet.AddNullifiers(dbtx, nullifiers)
	})
	if err != nil {
		return err
	}

	for cm, match := range l.scanner.ScanReceipts(bundle.Receipts, firstPosition) {
		log.Info("Received note", log.Args("position", match.Position, "value", uint64(match.Note.Value)))
		l.ownedNotes[cm] = match
		l.sendNotification(NTNoteReceived, match)
	}
	l.sendNotification(NTBundleConnected, bundle)

	log.Debug("Connected bundle", log.Args(
		"spends", len(bundle.Spends),
		"receipts", len(bundle.Receipts),
		"treesize", l.noteTree.Size(),
		"root", root.String(),
	))
	return nil
}

// AddScanKeys adds keys to decrypt future receipts with.
func (l *Ledger) AddScanKeys(keys ...*crypto.SpendingKey) {
	l.scanner.AddKeys(keys...)
}

// OwnedNotes returns the notes received by the scan keys, ordered by
// tree position.
func (l *Ledger) OwnedNotes() []*ScanMatch {
	l.stateLock.RLock()
	defer l.stateLock.RUnlock()

	matches := make([]*ScanMatch, 0, len(l.ownedNotes))
	for _, m := range l.ownedNotes {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Position < matches[j].Position
	})
	return matches
}

// NoteTreeRoot returns the current root of the note commitment tree.
func (l *Ledger) NoteTreeRoot() fr.Element {
	return l.noteTree.Root()
}

// NoteTreeSize returns the number of note commitments in the tree.
func (l *Ledger) NoteTreeSize() uint64 {
	return l.noteTree.Size()
}

// Witness returns the authentication path of the note at position
// against the current root.
func (l *Ledger) Witness(position uint64) (*types.Witness, error) {
	l.stateLock.RLock()
	defer l.stateLock.RUnlock()

	return l.noteTree.Witness(position)
}

// NullifierExists returns whether the nullifier has been spent.
func (l *Ledger) NullifierExists(n types.Nullifier) (bool, error) {
	return l.nullifierSet.NullifierExists(n)
}

// AnchorExists returns whether root was ever a root of the note tree.
func (l *Ledger) AnchorExists(root fr.Element) (bool, error) {
	return l.txoRootSet.Exists(root)
}
