// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"context"
	"runtime"

	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/types"
	"golang.org/x/sync/errgroup"
)

// ProveReceipts builds and posts a receipt proof for every note in
// parallel. Proofs are returned in the order of notes. A proof that has
// already started runs to completion; cancelling ctx only keeps new ones
// from starting and discards the results.
func ProveReceipts(ctx context.Context, params *Parameters, spender *crypto.SpendingKey, notes []*types.Note) ([]*ReceiptProof, error) {
	proofs := make([]*ReceiptProof, len(notes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, note := range notes {
		i, note := i, note
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rp, err := NewReceiptParams(params, spender, note)
			if err != nil {
				return err
			}
			proof, err := rp.Post()
			if err != nil {
				return err
			}
			proofs[i] = proof
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("Built receipt proofs", log.Args("count", len(proofs)))
	return proofs, nil
}
