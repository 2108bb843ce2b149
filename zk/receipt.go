// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"bytes"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk/circuits/gadgets"
	"github.com/project-illium/shielded/zk/circuits/output"
)

// ReceiptParams is a receipt proof that has been built but not yet
// posted. It keeps the value commitment randomness which the transaction
// builder needs for the binding signature.
type ReceiptParams struct {
	params                    *Parameters
	proof                     groth16.Proof
	valueCommitmentRandomness *big.Int
	merkleNote                *types.MerkleNote
}

// NewReceiptParams builds the MerkleNote for note and proves it was
// constructed correctly. Fresh ephemeral keys and value commitment
// randomness are drawn for every call.
func NewReceiptParams(params *Parameters, spender *crypto.SpendingKey, note *types.Note) (*ReceiptParams, error) {
	esk, epk, err := note.Owner.GenerateDiffieHellmanKeys()
	if err != nil {
		return nil, &ProofConstructionError{Circuit: outputCircuit.String(), Err: err}
	}
	rcv, err := crypto.RandomScalar()
	if err != nil {
		return nil, &ProofConstructionError{Circuit: outputCircuit.String(), Err: err}
	}
	cv := note.Asset.ValueCommitment(note.Value, rcv)

	merkleNote, err := types.NewMerkleNote(spender.OutgoingViewKey(), note, &cv, esk, epk)
	if err != nil {
		return nil, &ProofConstructionError{Circuit: outputCircuit.String(), Err: err}
	}

	cvPoint := cv.Commitment()
	idHi, idLo := note.Asset.IdentifierLimbs()
	assetHint := note.Asset.GeneratorHint()
	hi, lo := note.Memo.Limbs()
	assignment := &output.Circuit{
		CvU:             crypto.FieldToBig(&cvPoint.X),
		CvV:             crypto.FieldToBig(&cvPoint.Y),
		EpkU:            crypto.FieldToBig(&epk.X),
		EpkV:            crypto.FieldToBig(&epk.Y),
		Cm:              crypto.FieldToBig(&merkleNote.NoteCommitment),
		Value:           note.Value.BigInt(),
		ValueRandomness: rcv,
		AssetIDHi:       crypto.FieldToBig(&idHi),
		AssetIDLo:       crypto.FieldToBig(&idLo),
		AssetCounter:    assetHint.Counter,
		AssetX:          crypto.FieldToBig(&assetHint.X),
		Gd:              gadgets.Assign(&note.Owner.DiversifiedGenerator),
		Pkd:             gadgets.Assign(&note.Owner.TransmissionKey),
		Esk:             esk,
		MemoHi:          crypto.FieldToBig(&hi),
		MemoLo:          crypto.FieldToBig(&lo),
		Rcm:             crypto.FieldToBig(&note.Randomness),
	}

	proof, err := receiptEngine.prove(params, assignment)
	if err != nil {
		return nil, err
	}
	return &ReceiptParams{
		params:                    params,
		proof:                     proof,
		valueCommitmentRandomness: rcv,
		merkleNote:                merkleNote,
	}, nil
}

// ValueCommitmentRandomness returns rcv.
func (rp *ReceiptParams) ValueCommitmentRandomness() *big.Int {
	return new(big.Int).Set(rp.valueCommitmentRandomness)
}

// MerkleNote returns the note that will be published.
func (rp *ReceiptParams) MerkleNote() *types.MerkleNote {
	return rp.merkleNote
}

// Post packages the proof with its MerkleNote and verifies it before
// handing it out. A proof that fails here is never returned.
func (rp *ReceiptParams) Post() (*ReceiptProof, error) {
	p := &ReceiptProof{
		proof:      rp.proof,
		MerkleNote: *rp.merkleNote,
	}
	if err := p.Verify(rp.params); err != nil {
		log.Warn("Freshly built receipt proof failed verification")
		return nil, err
	}
	return p, nil
}

// ReceiptProof is the public proof that MerkleNote is a well formed
// output.
type ReceiptProof struct {
	proof      groth16.Proof
	MerkleNote types.MerkleNote
}

// Verify checks the proof against the MerkleNote. It returns nil or
// ErrVerificationFailed.
func (p *ReceiptProof) Verify(params *Parameters) error {
	return receiptEngine.verify(params, p.proof, p)
}

func (p *ReceiptProof) checkedPoints() []*crypto.Point {
	return []*crypto.Point{
		&p.MerkleNote.ValueCommitment,
		&p.MerkleNote.EphemeralPublicKey,
	}
}

// publicInputs returns cv.U, cv.V, epk.U, epk.V, cm.
func (p *ReceiptProof) publicInputs() []fr.Element {
	return []fr.Element{
		p.MerkleNote.ValueCommitment.X,
		p.MerkleNote.ValueCommitment.Y,
		p.MerkleNote.EphemeralPublicKey.X,
		p.MerkleNote.EphemeralPublicKey.Y,
		p.MerkleNote.NoteCommitment,
	}
}

// Write writes proof || merkle note.
func (p *ReceiptProof) Write(w io.Writer) error {
	if err := writeProof(w, p.proof); err != nil {
		return err
	}
	_, err := w.Write(p.MerkleNote.Serialize())
	return err
}

// Bytes returns the serialized proof.
func (p *ReceiptProof) Bytes() []byte {
	var buf bytes.Buffer
	p.Write(&buf) //nolint:errcheck
	return buf.Bytes()
}

// ReadReceiptProof parses a serialized receipt proof. The input must hold
// exactly one proof.
func ReadReceiptProof(b []byte) (*ReceiptProof, error) {
	proof, rest, err := readProof(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != types.MerkleNoteSize {
		return nil, malformed("merkle note is %d bytes, expected %d", len(rest), types.MerkleNoteSize)
	}
	p := &ReceiptProof{proof: proof}
	if err := p.MerkleNote.Deserialize(rest); err != nil {
		return nil, malformed("%s", err)
	}
	return p, nil
}
