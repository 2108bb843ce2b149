// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk"
	"github.com/stretchr/testify/require"
)

func randomElement(t *testing.T) fr.Element {
	var e fr.Element
	_, err := e.SetRandom()
	require.NoError(t, err)
	return e
}

func randomPoint(t *testing.T) crypto.Point {
	k, err := crypto.RandomScalar()
	require.NoError(t, err)
	return crypto.ScalarMul(&crypto.SpendAuthBase, k)
}

func randomNullifier(t *testing.T) types.Nullifier {
	return types.NewNullifierFromElement(randomElement(t))
}

// emptyProof is the encoding of a proof made of points at infinity. It
// parses but never verifies, which is all the mock verifier tests need.
func emptyProof(t *testing.T) []byte {
	var buf bytes.Buffer
	_, err := groth16.NewProof(ecc.BLS12_381).WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func fakeSpendProof(t *testing.T, anchor fr.Element, nf types.Nullifier) *zk.SpendProof {
	cv := randomPoint(t)
	cvBytes := cv.Bytes()
	anchorBytes := anchor.Bytes()

	ser := emptyProof(t)
	ser = append(ser, cvBytes[:]...)
	ser = append(ser, anchorBytes[:]...)
	ser = append(ser, nf[:]...)
	sp, err := zk.ReadSpendProof(ser)
	require.NoError(t, err)
	return sp
}

func fakeReceiptProof(t *testing.T) *zk.ReceiptProof {
	mn := types.MerkleNote{
		ValueCommitment:    randomPoint(t),
		EphemeralPublicKey: randomPoint(t),
		NoteCommitment:     randomElement(t),
	}
	rp, err := zk.ReadReceiptProof(append(emptyProof(t), mn.Serialize()...))
	require.NoError(t, err)
	return rp
}

type mockRootSet map[fr.Element]bool

func (m mockRootSet) Exists(root fr.Element) (bool, error) {
	return m[root], nil
}

type mockNullifierSet map[types.Nullifier]bool

func (m mockNullifierSet) NullifierExists(n types.Nullifier) (bool, error) {
	return m[n], nil
}

// countingVerifier counts the proofs it is asked to verify.
type countingVerifier struct {
	zk.MockVerifier
	calls chan struct{}
}

func newCountingVerifier() *countingVerifier {
	return &countingVerifier{calls: make(chan struct{}, 1024)}
}

func (c *countingVerifier) VerifyProof(p zk.Proof) error {
	c.calls <- struct{}{}
	return c.MockVerifier.VerifyProof(p)
}
