// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk/circuits/gadgets"
	"github.com/project-illium/shielded/zk/circuits/spend"
)

const (
	// spendPublicSize is the size of the fields following the proof in a
	// serialized spend proof.
	spendPublicSize = crypto.PointSize + fr.Bytes + types.NullifierSize

	treeDepth = params.TreeDepth
)

// RootSet reports whether a root is a valid spend anchor.
type RootSet interface {
	Exists(root fr.Element) (bool, error)
}

// NullifierChecker reports whether a nullifier has already been seen.
type NullifierChecker interface {
	NullifierExists(n types.Nullifier) (bool, error)
}

// SpendParams is a spend proof that has been built but not yet posted.
type SpendParams struct {
	params                    *Parameters
	proof                     groth16.Proof
	valueCommitmentRandomness *big.Int
	valueCommitment           crypto.Point
	anchor                    fr.Element
	nullifier                 types.Nullifier
}

// NewSpendParams proves that spender owns note and that the note is
// committed in the tree whose root is witness.RootHash.
func NewSpendParams(params *Parameters, spender *crypto.SpendingKey, note *types.Note, witness *types.Witness) (*SpendParams, error) {
	constructionErr := func(err error) error {
		return &ProofConstructionError{Circuit: spendCircuit.String(), Err: err}
	}
	if len(witness.AuthPath) != treeDepth {
		return nil, constructionErr(fmt.Errorf("authentication path has %d levels, expected %d", len(witness.AuthPath), treeDepth))
	}
	pkd := crypto.ScalarMul(&note.Owner.DiversifiedGenerator, spender.IncomingViewKey())
	if !pkd.Equal(&note.Owner.TransmissionKey) {
		return nil, constructionErr(errors.New("note is not owned by the spending key"))
	}
	cm := note.Commitment()
	if !witness.Verify(cm) {
		return nil, constructionErr(errors.New("witness does not authenticate the note"))
	}

	rcv, err := crypto.RandomScalar()
	if err != nil {
		return nil, constructionErr(err)
	}
	cv := note.Asset.ValueCommitment(note.Value, rcv)
	cvPoint := cv.Commitment()

	nk := spender.NullifierDerivingKey()
	nf := note.Nullifier(&nk, witness.Position())
	nfElem, err := nf.Element()
	if err != nil {
		return nil, constructionErr(err)
	}

	idHi, idLo := note.Asset.IdentifierLimbs()
	assetHint := note.Asset.GeneratorHint()
	ak := spender.AuthorizingKey()
	hi, lo := note.Memo.Limbs()
	assignment := &spend.Circuit{
		CvU:             crypto.FieldToBig(&cvPoint.X),
		CvV:             crypto.FieldToBig(&cvPoint.Y),
		Anchor:          crypto.FieldToBig(&witness.RootHash),
		Nullifier:       crypto.FieldToBig(&nfElem),
		Value:           note.Value.BigInt(),
		ValueRandomness: rcv,
		AssetIDHi:       crypto.FieldToBig(&idHi),
		AssetIDLo:       crypto.FieldToBig(&idLo),
		AssetCounter:    assetHint.Counter,
		AssetX:          crypto.FieldToBig(&assetHint.X),
		Gd:              gadgets.Assign(&note.Owner.DiversifiedGenerator),
		Ak:              gadgets.Assign(&ak),
		Nsk:             spender.NullifierSecretKey(),
		MemoHi:          crypto.FieldToBig(&hi),
		MemoLo:          crypto.FieldToBig(&lo),
		Rcm:             crypto.FieldToBig(&note.Randomness),
	}
	for i, node := range witness.AuthPath {
		assignment.Path[i] = crypto.FieldToBig(&node.Sibling)
		assignment.Positions[i] = uint8(node.Side)
	}

	proof, err := spendEngine.prove(params, assignment)
	if err != nil {
		return nil, err
	}
	return &SpendParams{
		params:                    params,
		proof:                     proof,
		valueCommitmentRandomness: rcv,
		valueCommitment:           cvPoint,
		anchor:                    witness.RootHash,
		nullifier:                 nf,
	}, nil
}

// ValueCommitmentRandomness returns rcv.
func (sp *SpendParams) ValueCommitmentRandomness() *big.Int {
	return new(big.Int).Set(sp.valueCommitmentRandomness)
}

// Nullifier returns the nullifier the spend reveals.
func (sp *SpendParams) Nullifier() types.Nullifier {
	return sp.nullifier
}

// Post packages the proof with its public inputs and verifies it before
// handing it out.
func (sp *SpendParams) Post() (*SpendProof, error) {
	p := &SpendProof{
		proof:           sp.proof,
		ValueCommitment: sp.valueCommitment,
		Anchor:          sp.anchor,
		Nullifier:       sp.nullifier,
	}
	if err := p.Verify(sp.params); err != nil {
		log.Warn("Freshly built spend proof failed verification")
		return nil, err
	}
	return p, nil
}

// SpendProof is the public proof that the note behind Nullifier was
// committed under Anchor and that ValueCommitment commits to its value.
type SpendProof struct {
	proof           groth16.Proof
	ValueCommitment crypto.Point
	Anchor          fr.Element
	Nullifier       types.Nullifier
}

// Verify checks the proof against its public inputs. It returns nil or
// ErrVerificationFailed.
func (p *SpendProof) Verify(params *Parameters) error {
	return spendEngine.verify(params, p.proof, p)
}

// VerifyWithState verifies the proof and then checks the anchor against
// the valid roots and the nullifier against the spent set.
func (p *SpendProof) VerifyWithState(params *Parameters, roots RootSet, nullifiers NullifierChecker) error {
	if err := p.Verify(params); err != nil {
		return err
	}
	exists, err := roots.Exists(p.Anchor)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAnchor
	}
	spent, err := nullifiers.NullifierExists(p.Nullifier)
	if err != nil {
		return err
	}
	if spent {
		return ErrNullifierSpent
	}
	return nil
}

func (p *SpendProof) checkedPoints() []*crypto.Point {
	return []*crypto.Point{&p.ValueCommitment}
}

// publicInputs returns cv.U, cv.V, anchor, nullifier. A nullifier that
// is not a canonical field element yields a vector that cannot verify.
func (p *SpendProof) publicInputs() []fr.Element {
	nf, err := p.Nullifier.Element()
	if err != nil {
		return nil
	}
	return []fr.Element{
		p.ValueCommitment.X,
		p.ValueCommitment.Y,
		p.Anchor,
		nf,
	}
}

// Write writes proof || cv || anchor || nullifier.
func (p *SpendProof) Write(w io.Writer) error {
	if err := writeProof(w, p.proof); err != nil {
		return err
	}
	cv := p.ValueCommitment.Bytes()
	anchor := p.Anchor.Bytes()

	ser := make([]byte, 0, spendPublicSize)
	ser = append(ser, cv[:]...)
	ser = append(ser, anchor[:]...)
	ser = append(ser, p.Nullifier[:]...)
	_, err := w.Write(ser)
	return err
}

// Bytes returns the serialized proof.
func (p *SpendProof) Bytes() []byte {
	var buf bytes.Buffer
	p.Write(&buf) //nolint:errcheck
	return buf.Bytes()
}

// ReadSpendProof parses a serialized spend proof. The input must hold
// exactly one proof.
func ReadSpendProof(b []byte) (*SpendProof, error) {
	proof, rest, err := readProof(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != spendPublicSize {
		return nil, malformed("public inputs are %d bytes, expected %d", len(rest), spendPublicSize)
	}

	cv, err := crypto.DecodePoint(rest[:crypto.PointSize])
	if err != nil {
		return nil, malformed("value commitment: %s", err)
	}
	rest = rest[crypto.PointSize:]

	anchor, err := crypto.DecodeFieldElement(rest[:fr.Bytes])
	if err != nil {
		return nil, malformed("anchor: %s", err)
	}
	rest = rest[fr.Bytes:]

	nf := types.NewNullifier(rest)
	if _, err := nf.Element(); err != nil {
		return nil, malformed("nullifier: %s", err)
	}

	return &SpendProof{
		proof:           proof,
		ValueCommitment: cv,
		Anchor:          anchor,
		Nullifier:       nf,
	}, nil
}
