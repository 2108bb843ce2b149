// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package output

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/test"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk/circuits/gadgets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	note *types.Note
	esk  *big.Int
	rcv  *big.Int
}

func newTestOutput(t *testing.T) *testOutput {
	sk, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	addr, err := sk.GenerateAddress()
	require.NoError(t, err)
	asset, err := types.NewAssetType([]byte("foo"))
	require.NoError(t, err)
	note, err := types.NewNote(addr, 42, types.NewMemo([]byte("memo")), asset)
	require.NoError(t, err)
	esk, err := crypto.RandomScalar()
	require.NoError(t, err)
	rcv, err := crypto.RandomScalar()
	require.NoError(t, err)
	return &testOutput{note: note, esk: esk, rcv: rcv}
}

func (o *testOutput) assignment() *Circuit {
	vc := o.note.Asset.ValueCommitment(o.note.Value, o.rcv)
	cv := vc.Commitment()
	epk := crypto.ScalarMul(&o.note.Owner.DiversifiedGenerator, o.esk)
	cm := o.note.Commitment()
	idHi, idLo := o.note.Asset.IdentifierLimbs()
	assetHint := o.note.Asset.GeneratorHint()
	hi, lo := o.note.Memo.Limbs()

	return &Circuit{
		CvU:             crypto.FieldToBig(&cv.X),
		CvV:             crypto.FieldToBig(&cv.Y),
		EpkU:            crypto.FieldToBig(&epk.X),
		EpkV:            crypto.FieldToBig(&epk.Y),
		Cm:              crypto.FieldToBig(&cm),
		Value:           o.note.Value.BigInt(),
		ValueRandomness: o.rcv,
		AssetIDHi:       crypto.FieldToBig(&idHi),
		AssetIDLo:       crypto.FieldToBig(&idLo),
		AssetCounter:    assetHint.Counter,
		AssetX:          crypto.FieldToBig(&assetHint.X),
		Gd:              gadgets.Assign(&o.note.Owner.DiversifiedGenerator),
		Pkd:             gadgets.Assign(&o.note.Owner.TransmissionKey),
		Esk:             o.esk,
		MemoHi:          crypto.FieldToBig(&hi),
		MemoLo:          crypto.FieldToBig(&lo),
		Rcm:             crypto.FieldToBig(&o.note.Randomness),
	}
}

func TestOutputCircuit(t *testing.T) {
	o := newTestOutput(t)
	field := ecc.BLS12_381.ScalarField()

	assert.NoError(t, test.IsSolved(&Circuit{}, o.assignment(), field))

	tests := []struct {
		name   string
		mutate func(c *Circuit)
	}{
		{
			name: "wrong value",
			mutate: func(c *Circuit) {
				c.Value = big.NewInt(43)
			},
		},
		{
			name: "wrong cv",
			mutate: func(c *Circuit) {
				c.CvU = big.NewInt(1)
			},
		},
		{
			name: "wrong epk",
			mutate: func(c *Circuit) {
				c.Esk = big.NewInt(7)
			},
		},
		{
			name: "wrong memo",
			mutate: func(c *Circuit) {
				c.MemoLo = big.NewInt(1)
			},
		},
		{
			name: "wrong cm",
			mutate: func(c *Circuit) {
				c.Cm = big.NewInt(1)
			},
		},
		{
			name: "wrong asset identifier",
			mutate: func(c *Circuit) {
				c.AssetIDLo = big.NewInt(1)
			},
		},
		{
			name: "wrong asset counter",
			mutate: func(c *Circuit) {
				c.AssetCounter = 1000
			},
		},
		{
			name: "small order generator",
			mutate: func(c *Circuit) {
				c.Gd.X = 0
				c.Gd.Y = new(big.Int).Sub(ecc.BLS12_381.ScalarField(), big.NewInt(1))
			},
		},
	}
	for _, tt := range tests {
		c := o.assignment()
		tt.mutate(c)
		assert.Error(t, test.IsSolved(&Circuit{}, c, field), tt.name)
	}
}

func TestOutputCircuitValueRange(t *testing.T) {
	o := newTestOutput(t)
	c := o.assignment()

	// 2^64 times the generator plus the blinding term is a well formed
	// commitment but the value does not fit 64 bits.
	over := new(big.Int).Lsh(big.NewInt(1), 64)
	gen := o.note.Asset.Generator()
	v := crypto.ScalarMul(&gen, over)
	r := crypto.ScalarMul(&crypto.ValueCommitmentRandomnessBase, o.rcv)
	cv := crypto.AddPoints(&v, &r)

	c.Value = over
	c.CvU = crypto.FieldToBig(&cv.X)
	c.CvV = crypto.FieldToBig(&cv.Y)
	assert.Error(t, test.IsSolved(&Circuit{}, c, ecc.BLS12_381.ScalarField()))
}

// A generator other than the identifier's own must not satisfy the
// circuit even when cv and cm are rebuilt consistently with it.
func TestOutputCircuitNegatedAssetGenerator(t *testing.T) {
	o := newTestOutput(t)
	c := o.assignment()

	gen := o.note.Asset.Generator()
	var negGen crypto.Point
	negGen.Neg(&gen)

	hint := o.note.Asset.GeneratorHint()
	var negX fr.Element
	negX.Neg(&hint.X)

	// [8](-x, y) is the negated generator, so every constraint but the
	// canonical root check holds.
	idHi, idLo := o.note.Asset.IdentifierLimbs()
	y := crypto.MiMC(crypto.FieldFromUint64(params.DomainAssetGenerator), idHi, idLo, crypto.FieldFromUint64(hint.Counter))
	pre := crypto.Point{X: negX, Y: y}
	require.True(t, pre.IsOnCurve())
	cleared := crypto.ClearCofactor(&pre)
	require.True(t, cleared.Equal(&negGen))

	v := crypto.ScalarMul(&negGen, o.note.Value.BigInt())
	r := crypto.ScalarMul(&crypto.ValueCommitmentRandomnessBase, o.rcv)
	cv := crypto.AddPoints(&v, &r)
	cm := types.NoteCommitment(&o.note.Owner.DiversifiedGenerator, &o.note.Owner.TransmissionKey,
		o.note.Value, &negGen, o.note.Memo, o.note.Randomness)

	c.AssetX = crypto.FieldToBig(&negX)
	c.CvU = crypto.FieldToBig(&cv.X)
	c.CvV = crypto.FieldToBig(&cv.Y)
	c.Cm = crypto.FieldToBig(&cm)
	assert.Error(t, test.IsSolved(&Circuit{}, c, ecc.BLS12_381.ScalarField()))
}
