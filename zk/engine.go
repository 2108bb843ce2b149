// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/project-illium/shielded/crypto"
)

// noteProofEngine proves and verifies one of the two circuits. The spend
// and receipt proofs differ only in the circuit they use, the public
// input vector they assemble and the points they subgroup check, so
// everything else lives here.
type noteProofEngine struct {
	id circuitID
}

var (
	receiptEngine = noteProofEngine{id: outputCircuit}
	spendEngine   = noteProofEngine{id: spendCircuit}
)

// publicStatement is the public side of a proof: the points that must be
// rejected if of small order and the public inputs in circuit order.
type publicStatement interface {
	checkedPoints() []*crypto.Point
	publicInputs() []fr.Element
}

func (e noteProofEngine) prove(p *Parameters, assignment frontend.Circuit) (groth16.Proof, error) {
	cp := p.circuit(e.id)
	w, err := frontend.NewWitness(assignment, ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, &ProofConstructionError{Circuit: e.id.String(), Err: err}
	}
	proof, err := groth16.Prove(cp.ccs, cp.pk, w)
	if err != nil {
		return nil, &ProofConstructionError{Circuit: e.id.String(), Err: err}
	}
	return proof, nil
}

// verify checks proof against the statement. The small order checks run
// before any pairing is computed. Every failure is reported as
// ErrVerificationFailed.
func (e noteProofEngine) verify(p *Parameters, proof groth16.Proof, stmt publicStatement) error {
	for _, pt := range stmt.checkedPoints() {
		if !pt.IsOnCurve() || crypto.IsSmallOrder(pt) {
			return ErrVerificationFailed
		}
	}

	cp := p.circuit(e.id)
	pub, err := publicWitness(stmt.publicInputs(), cp.vk.nbPublic)
	if err != nil {
		log.Debug("Public witness assembly failed", log.Args("circuit", e.id.String(), "error", err))
		return ErrVerificationFailed
	}
	if err := groth16.Verify(proof, cp.vk.VerifyingKey, pub); err != nil {
		log.Debug("Proof rejected", log.Args("circuit", e.id.String(), "error", err))
		return ErrVerificationFailed
	}
	return nil
}

// publicWitness builds the public witness vector in the exact order
// given.
func publicWitness(inputs []fr.Element, nbPublic int) (witness.Witness, error) {
	if len(inputs) != nbPublic {
		return nil, fmt.Errorf("got %d public inputs, circuit has %d", len(inputs), nbPublic)
	}
	w, err := witness.New(ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, err
	}
	values := make(chan any, len(inputs))
	for _, in := range inputs {
		values <- in
	}
	close(values)
	if err := w.Fill(nbPublic, 0, values); err != nil {
		return nil, err
	}
	return w, nil
}

func writeProof(w io.Writer, proof groth16.Proof) error {
	_, err := proof.WriteTo(w)
	return err
}

const (
	g1CompressedSize = 48
	g2CompressedSize = 96

	// commitmentCountOffset is where the proof encodes the number of
	// Pedersen commitments, after Ar, Bs and Krs.
	commitmentCountOffset = 2*g1CompressedSize + g2CompressedSize

	// ProofSize is the length of a serialized Groth16 proof: Ar, Bs and
	// Krs, a zero commitment count and the commitment proof of knowledge,
	// all points compressed.
	ProofSize = commitmentCountOffset + 4 + g1CompressedSize
)

// readProof parses the proof at the start of b and returns the bytes that
// follow it. The encoding is checked to be the fixed size compressed form
// before the decoder sees it so a forged length prefix cannot make it
// allocate.
func readProof(b []byte) (groth16.Proof, []byte, error) {
	if len(b) < ProofSize {
		return nil, nil, malformed("proof is %d bytes, expected at least %d", len(b), ProofSize)
	}
	for _, offset := range []int{0, g1CompressedSize, g1CompressedSize + g2CompressedSize, commitmentCountOffset + 4} {
		if b[offset]&compressedFlag == 0 {
			return nil, nil, malformed("proof point at offset %d is not compressed", offset)
		}
	}
	if n := binary.BigEndian.Uint32(b[commitmentCountOffset:]); n != 0 {
		return nil, nil, malformed("proof carries %d commitments, expected none", n)
	}

	proof := groth16.NewProof(ecc.BLS12_381)
	r := bytes.NewReader(b[:ProofSize])
	if _, err := proof.ReadFrom(r); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, nil, malformed("proof: %s", err)
	}
	if r.Len() != 0 {
		return nil, nil, malformed("proof decoding left %d of %d bytes unread", r.Len(), ProofSize)
	}
	return proof, b[ProofSize:], nil
}

// compressedFlag is set in the first byte of every compressed point
// encoding, including the point at infinity.
const compressedFlag = 0x80
