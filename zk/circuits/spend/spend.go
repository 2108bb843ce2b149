// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package spend

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/zk/circuits/gadgets"
)

// NumPublicInputs is the number of public inputs of the circuit.
const NumPublicInputs = 4

// Circuit proves knowledge of a note committed under Anchor which the
// prover is able to spend, that cv commits to its value and asset, and
// that Nullifier is the note's nullifier.
//
// The public inputs, in order, are cv.U, cv.V, anchor and nullifier.
type Circuit struct {
	CvU       frontend.Variable `gnark:",public"`
	CvV       frontend.Variable `gnark:",public"`
	Anchor    frontend.Variable `gnark:",public"`
	Nullifier frontend.Variable `gnark:",public"`

	Value           frontend.Variable
	ValueRandomness frontend.Variable
	AssetIDHi       frontend.Variable
	AssetIDLo       frontend.Variable
	AssetCounter    frontend.Variable
	AssetX          frontend.Variable
	Gd              twistededwards.Point
	Ak              twistededwards.Point
	Nsk             frontend.Variable
	MemoHi          frontend.Variable
	MemoLo          frontend.Variable
	Rcm             frontend.Variable

	// Path holds the siblings from the leaf level up and Positions the
	// matching orientation bits (1 when the note side is the right child).
	Path      [params.TreeDepth]frontend.Variable
	Positions [params.TreeDepth]frontend.Variable
}

// Define declares the circuit constraints.
func (c *Circuit) Define(api frontend.API) error {
	curve, err := gadgets.NewCurve(api)
	if err != nil {
		return err
	}

	assetGenerator, err := gadgets.AssetGenerator(api, curve, c.AssetIDHi, c.AssetIDLo, c.AssetCounter, c.AssetX)
	if err != nil {
		return err
	}
	gadgets.AssertNotSmallOrder(api, curve, c.Gd)
	gadgets.AssertNotSmallOrder(api, curve, c.Ak)
	gadgets.RangeCheck(api, c.Value, 64)

	cv := gadgets.ValueCommitment(curve, c.Value, c.ValueRandomness, assetGenerator)
	gadgets.AssertPointsEqual(api, cv, twistededwards.Point{X: c.CvU, Y: c.CvV})

	// Ownership: pk_d is recomputed from the spender's keys rather than
	// taken as a witness.
	nk := curve.ScalarMul(gadgets.Constant(&crypto.NullifierKeyBase), c.Nsk)
	ivk, err := gadgets.IncomingViewKey(api, c.Ak, nk)
	if err != nil {
		return err
	}
	pkd := curve.ScalarMul(c.Gd, ivk)

	cm, err := gadgets.NoteCommitment(api, c.Gd, pkd, c.Value, assetGenerator, c.MemoHi, c.MemoLo, c.Rcm)
	if err != nil {
		return err
	}

	root, position, err := gadgets.MerkleRoot(api, cm, c.Path[:], c.Positions[:])
	if err != nil {
		return err
	}
	api.AssertIsEqual(root, c.Anchor)

	nf, err := gadgets.Nullifier(api, nk, cm, position)
	if err != nil {
		return err
	}
	api.AssertIsEqual(nf, c.Nullifier)
	return nil
}
