// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/blockchain"
	"github.com/project-illium/shielded/types"
)

// ChainView is an interface of methods that provide the ledger context
// that the mempool needs to validate bundles.
type ChainView interface {
	// AnchorExists returns whether the given root was ever a root of
	// the note tree.
	AnchorExists(root fr.Element) (bool, error)

	// NullifierExists returns whether the given nullifier exists
	// in the nullifier set.
	NullifierExists(n types.Nullifier) (bool, error)
}

var _ ChainView = (*blockchain.Ledger)(nil)

// anchorSet adapts a ChainView to the root set the proof validator takes.
type anchorSet struct {
	ChainView
}

func (a anchorSet) Exists(root fr.Element) (bool, error) {
	return a.AnchorExists(root)
}
