// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package output

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/project-illium/shielded/zk/circuits/gadgets"
)

// NumPublicInputs is the number of public inputs of the circuit.
const NumPublicInputs = 5

// Circuit proves that a MerkleNote was built honestly: the value
// commitment opens to a 64 bit value of the committed asset, the
// ephemeral key was derived from the receiver's diversified generator and
// the note commitment binds the note's contents.
//
// The public inputs, in order, are cv.U, cv.V, epk.U, epk.V and cm.
type Circuit struct {
	CvU  frontend.Variable `gnark:",public"`
	CvV  frontend.Variable `gnark:",public"`
	EpkU frontend.Variable `gnark:",public"`
	EpkV frontend.Variable `gnark:",public"`
	Cm   frontend.Variable `gnark:",public"`

	Value           frontend.Variable
	ValueRandomness frontend.Variable
	AssetIDHi       frontend.Variable
	AssetIDLo       frontend.Variable
	AssetCounter    frontend.Variable
	AssetX          frontend.Variable
	Gd              twistededwards.Point
	Pkd             twistededwards.Point
	Esk             frontend.Variable
	MemoHi          frontend.Variable
	MemoLo          frontend.Variable
	Rcm             frontend.Variable
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
	curve.AssertIsOnCurve(c.Pkd)
	gadgets.RangeCheck(api, c.Value, 64)

	cv := gadgets.ValueCommitment(curve, c.Value, c.ValueRandomness, assetGenerator)
	gadgets.AssertPointsEqual(api, cv, twistededwards.Point{X: c.CvU, Y: c.CvV})

	epk := curve.ScalarMul(c.Gd, c.Esk)
	gadgets.AssertPointsEqual(api, epk, twistededwards.Point{X: c.EpkU, Y: c.EpkV})

	cm, err := gadgets.NoteCommitment(api, c.Gd, c.Pkd, c.Value, assetGenerator, c.MemoHi, c.MemoLo, c.Rcm)
	if err != nil {
		return err
	}
	api.AssertIsEqual(cm, c.Cm)
	return nil
}
