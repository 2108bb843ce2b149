// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package spend

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

type testSpend struct {
	sk      *crypto.SpendingKey
	note    *types.Note
	witness *types.Witness
	rcv     *big.Int
}

func newTestSpend(t *testing.T) *testSpend {
	sk, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	addr, err := sk.GenerateAddress()
	require.NoError(t, err)
	asset, err := types.NewAssetType([]byte("foo"))
	require.NoError(t, err)
	note, err := types.NewNote(addr, 42, types.NewMemo([]byte("memo")), asset)
	require.NoError(t, err)
	rcv, err := crypto.RandomScalar()
	require.NoError(t, err)

	w := &types.Witness{AuthPath: make([]types.WitnessNode, params.TreeDepth)}
	for i := range w.AuthPath {
		var sib fr.Element
		_, err := sib.SetRandom()
		require.NoError(t, err)
		w.AuthPath[i].Sibling = sib
		if i%3 == 1 {
			w.AuthPath[i].Side = types.Right
		}
	}
	w.RootHash = w.ComputeRoot(note.Commitment())
	return &testSpend{sk: sk, note: note, witness: w, rcv: rcv}
}

func (s *testSpend) assignment() *Circuit {
	vc := s.note.Asset.ValueCommitment(s.note.Value, s.rcv)
	cv := vc.Commitment()
	idHi, idLo := s.note.Asset.IdentifierLimbs()
	assetHint := s.note.Asset.GeneratorHint()
	ak := s.sk.AuthorizingKey()
	nk := s.sk.NullifierDerivingKey()
	hi, lo := s.note.Memo.Limbs()
	nf := s.note.Nullifier(&nk, s.witness.Position())
	nfElem, _ := nf.Element()

	c := &Circuit{
		CvU:             crypto.FieldToBig(&cv.X),
		CvV:             crypto.FieldToBig(&cv.Y),
		Anchor:          crypto.FieldToBig(&s.witness.RootHash),
		Nullifier:       crypto.FieldToBig(&nfElem),
		Value:           s.note.Value.BigInt(),
		ValueRandomness: s.rcv,
		AssetIDHi:       crypto.FieldToBig(&idHi),
		AssetIDLo:       crypto.FieldToBig(&idLo),
		AssetCounter:    assetHint.Counter,
		AssetX:          crypto.FieldToBig(&assetHint.X),
		Gd:              gadgets.Assign(&s.note.Owner.DiversifiedGenerator),
		Ak:              gadgets.Assign(&ak),
		Nsk:             s.sk.NullifierSecretKey(),
		MemoHi:          crypto.FieldToBig(&hi),
		MemoLo:          crypto.FieldToBig(&lo),
		Rcm:             crypto.FieldToBig(&s.note.Randomness),
	}
	for i, node := range s.witness.AuthPath {
		c.Path[i] = crypto.FieldToBig(&node.Sibling)
		c.Positions[i] = int(node.Side)
	}
	return c
}

func TestSpendCircuit(t *testing.T) {
	s := newTestSpend(t)
	field := ecc.BLS12_381.ScalarField()

	assert.NoError(t, test.IsSolved(&Circuit{}, s.assignment(), field))

	tests := []struct {
		name   string
		mutate func(c *Circuit)
	}{
		{
			name: "wrong anchor",
			mutate: func(c *Circuit) {
				c.Anchor = big.NewInt(1)
			},
		},
		{
			name: "flipped orientation",
			mutate: func(c *Circuit) {
				c.Positions[5] = 1
			},
		},
		{
			name: "wrong sibling",
			mutate: func(c *Circuit) {
				c.Path[0] = big.NewInt(1)
			},
		},
		{
			name: "wrong nullifier",
			mutate: func(c *Circuit) {
				c.Nullifier = big.NewInt(1)
			},
		},
		{
			name: "non-boolean position",
			mutate: func(c *Circuit) {
				c.Positions[0] = 2
			},
		},
		{
			name: "negated asset generator",
			mutate: func(c *Circuit) {
				hint := s.note.Asset.GeneratorHint()
				var negX fr.Element
				negX.Neg(&hint.X)
				c.AssetX = crypto.FieldToBig(&negX)
			},
		},
		{
			name: "wrong nullifier key",
			mutate: func(c *Circuit) {
				c.Nsk = big.NewInt(12345)
			},
		},
		{
			name: "wrong value",
			mutate: func(c *Circuit) {
				c.Value = big.NewInt(41)
			},
		},
	}
	for _, tt := range tests {
		c := s.assignment()
		tt.mutate(c)
		assert.Error(t, test.IsSolved(&Circuit{}, c, field), tt.name)
	}
}

func TestSpendCircuitForeignNote(t *testing.T) {
	s := newTestSpend(t)
	other, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)

	// Keys of another account cannot open the note.
	s.sk = other
	assert.Error(t, test.IsSolved(&Circuit{}, s.assignment(), ecc.BLS12_381.ScalarField()))
}
