// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package gadgets holds the circuit building blocks shared by the spend
// and output circuits. Every gadget mirrors a native function in the
// crypto or types packages and must compute exactly the same value.
package gadgets

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
)

// fieldBits is the bit length of the BLS12-381 scalar field.
const fieldBits = 255

// halfModulus is (q-1)/2, the largest canonical x of a group hash point.
var halfModulus = new(big.Int).Rsh(fr.Modulus(), 1)

// NewCurve returns the in-circuit jubjub curve.
func NewCurve(api frontend.API) (twistededwards.Curve, error) {
	return twistededwards.NewEdCurve(api, tedwards.BLS12_381)
}

// Constant returns p as a circuit constant.
func Constant(p *crypto.Point) twistededwards.Point {
	return twistededwards.Point{
		X: crypto.FieldToBig(&p.X),
		Y: crypto.FieldToBig(&p.Y),
	}
}

// Assign returns p as a witness assignment.
func Assign(p *crypto.Point) twistededwards.Point {
	return Constant(p)
}

// Hash is crypto.MiMC over circuit variables.
func Hash(api frontend.API, elems ...frontend.Variable) (frontend.Variable, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	h.Write(elems...)
	return h.Sum(), nil
}

// AssertNotSmallOrder constrains p to lie on the curve with [8]p not the
// identity. [8]p has x = 0 only when it is the identity since no point of
// order 16 exists.
func AssertNotSmallOrder(api frontend.API, curve twistededwards.Curve, p twistededwards.Point) {
	curve.AssertIsOnCurve(p)
	q := curve.Double(p)
	q = curve.Double(q)
	q = curve.Double(q)
	api.AssertIsDifferent(q.X, 0)
}

// AssertPointsEqual constrains a and b to be the same point.
func AssertPointsEqual(api frontend.API, a, b twistededwards.Point) {
	api.AssertIsEqual(a.X, b.X)
	api.AssertIsEqual(a.Y, b.Y)
}

// RangeCheck constrains v to nbBits bits.
func RangeCheck(api frontend.API, v frontend.Variable, nbBits int) {
	api.ToBinary(v, nbBits)
}

// AssetGenerator recomputes crypto.MiMCGroupHash over the asset
// identifier limbs. The prover supplies the counter and the x coordinate
// of the point before cofactor clearing. x must be the root at most
// (q-1)/2 so the negated generator has no valid witness.
func AssetGenerator(api frontend.API, curve twistededwards.Curve, idHi, idLo, counter, x frontend.Variable) (twistededwards.Point, error) {
	y, err := Hash(api, params.DomainAssetGenerator, idHi, idLo, counter)
	if err != nil {
		return twistededwards.Point{}, err
	}
	p := twistededwards.Point{X: x, Y: y}
	curve.AssertIsOnCurve(p)
	api.AssertIsLessOrEqual(x, halfModulus)

	g := curve.Double(p)
	g = curve.Double(g)
	g = curve.Double(g)
	api.AssertIsDifferent(g.X, 0)
	return g, nil
}

// ValueCommitment computes value * assetGenerator + rcv * R.
func ValueCommitment(curve twistededwards.Curve, value, rcv frontend.Variable, assetGenerator twistededwards.Point) twistededwards.Point {
	v := curve.ScalarMul(assetGenerator, value)
	r := curve.ScalarMul(Constant(&crypto.ValueCommitmentRandomnessBase), rcv)
	return curve.Add(v, r)
}

// NoteCommitment computes the note commitment cm.
func NoteCommitment(api frontend.API, gd, pkd twistededwards.Point, value frontend.Variable,
	assetGenerator twistededwards.Point, memoHi, memoLo, rcm frontend.Variable) (frontend.Variable, error) {

	return Hash(api,
		params.DomainNoteCommitment,
		gd.X, gd.Y,
		pkd.X, pkd.Y,
		value,
		assetGenerator.X, assetGenerator.Y,
		memoHi, memoLo,
		rcm,
	)
}

// IncomingViewKey computes ivk from ak and nk, truncated to
// crypto.IvkBits bits.
func IncomingViewKey(api frontend.API, ak, nk twistededwards.Point) (frontend.Variable, error) {
	h, err := Hash(api, params.DomainIvk, ak.X, ak.Y, nk.X, nk.Y)
	if err != nil {
		return nil, err
	}
	bits := api.ToBinary(h, fieldBits)
	return api.FromBinary(bits[:crypto.IvkBits]...), nil
}

// Nullifier computes the nullifier of the commitment at position.
func Nullifier(api frontend.API, nk twistededwards.Point, cm, position frontend.Variable) (frontend.Variable, error) {
	return Hash(api, params.DomainNullifier, nk.X, nk.Y, cm, position)
}

// MerkleRoot folds the authentication path over leaf from the leaf level
// up. positions[i] is 1 when the carried node is the right child at level
// i. It returns the root and the leaf position the bits encode.
func MerkleRoot(api frontend.API, leaf frontend.Variable, path, positions []frontend.Variable) (frontend.Variable, frontend.Variable, error) {
	cur := leaf
	for i := range path {
		api.AssertIsBoolean(positions[i])
		left := api.Select(positions[i], path[i], cur)
		right := api.Select(positions[i], cur, path[i])

		h, err := Hash(api, params.DomainMerkle+i, left, right)
		if err != nil {
			return nil, nil, err
		}
		cur = h
	}
	return cur, api.FromBinary(positions...), nil
}
