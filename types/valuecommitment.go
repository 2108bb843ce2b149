// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"math/big"

	"github.com/project-illium/shielded/crypto"
)

// ValueCommitment holds the opening of a value commitment
//
//	cv = value * asset_generator + randomness * R
//
// The randomness must be fresh for every commitment. Two commitments with
// the same asset, value and randomness are identical and therefore
// linkable.
type ValueCommitment struct {
	Value          Amount
	Randomness     *big.Int
	AssetGenerator crypto.Point
}

// Commitment returns the committed point.
func (vc *ValueCommitment) Commitment() crypto.Point {
	v := crypto.ScalarMul(&vc.AssetGenerator, vc.Value.BigInt())
	r := crypto.ScalarMul(&crypto.ValueCommitmentRandomnessBase, vc.Randomness)
	return crypto.AddPoints(&v, &r)
}

// SumCommitments adds value commitment points. Commitments are additively
// homomorphic, so the sum commits to the sum of the values (per asset)
// under the sum of the randomness.
func SumCommitments(points ...crypto.Point) crypto.Point {
	sum := crypto.Identity()
	for i := range points {
		sum = crypto.AddPoints(&sum, &points[i])
	}
	return sum
}

// BalancingCommitment returns the sum of the spend commitments minus the
// sum of the output commitments. For a balanced transaction with no net
// value this is [rcv_spends - rcv_outputs]R.
func BalancingCommitment(spends, outputs []crypto.Point) crypto.Point {
	in := SumCommitments(spends...)
	out := SumCommitments(outputs...)
	return crypto.SubPoints(&in, &out)
}
