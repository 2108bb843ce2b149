// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk"
)

// maxBundleProofs bounds the proof counts read from the wire.
const maxBundleProofs = 1 << 12

// Bundle is the shielded part of a transaction: the spends it consumes
// and the receipts it creates.
type Bundle struct {
	Spends   []*zk.SpendProof
	Receipts []*zk.ReceiptProof
}

// Nullifiers returns the nullifiers revealed by the spends.
func (b *Bundle) Nullifiers() []types.Nullifier {
	nullifiers := make([]types.Nullifier, 0, len(b.Spends))
	for _, sp := range b.Spends {
		nullifiers = append(nullifiers, sp.Nullifier)
	}
	return nullifiers
}

// Commitments returns the note commitments of the receipts in order.
func (b *Bundle) Commitments() []fr.Element {
	commitments := make([]fr.Element, 0, len(b.Receipts))
	for _, r := range b.Receipts {
		commitments = append(commitments, r.MerkleNote.NoteCommitment)
	}
	return commitments
}

// Serialize writes
//
//	uint32 nSpends || nSpends * (uint32 len || spend proof) ||
//	uint32 nReceipts || nReceipts * (uint32 len || receipt proof)
//
// with big-endian integers.
func (b *Bundle) Serialize() []byte {
	var buf bytes.Buffer
	writeSection := func(proofs []zk.Proof) {
		buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(proofs))))
		for _, p := range proofs {
			ser := p.Bytes()
			buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(ser))))
			buf.Write(ser)
		}
	}
	spends := make([]zk.Proof, 0, len(b.Spends))
	for _, sp := range b.Spends {
		spends = append(spends, sp)
	}
	receipts := make([]zk.Proof, 0, len(b.Receipts))
	for _, r := range b.Receipts {
		receipts = append(receipts, r)
	}
	writeSection(spends)
	writeSection(receipts)
	return buf.Bytes()
}

// DeserializeBundle parses a bundle written by Serialize.
func DeserializeBundle(ser []byte) (*Bundle, error) {
	r := bytes.NewReader(ser)
	b := new(Bundle)

	err := readSection(r, func(proof []byte) error {
		sp, err := zk.ReadSpendProof(proof)
		if err != nil {
			return err
		}
		b.Spends = append(b.Spends, sp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("spends: %w", err)
	}
	err = readSection(r, func(proof []byte) error {
		rp, err := zk.ReadReceiptProof(proof)
		if err != nil {
			return err
		}
		b.Receipts = append(b.Receipts, rp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("receipts: %w", err)
	}
	if r.Len() != 0 {
		return nil, errors.New("trailing bytes after bundle")
	}
	return b, nil
}

func readSection(r *bytes.Reader, read func(proof []byte) error) error {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return err
	}
	if count > maxBundleProofs {
		return fmt.Errorf("%d proofs exceeds the limit of %d", count, maxBundleProofs)
	}
	for i := uint32(0); i < count; i++ {
		var l uint32
		if err := binary.Read(r, binary.BigEndian, &l); err != nil {
			return err
		}
		if int64(l) > int64(r.Len()) {
			return io.ErrUnexpectedEOF
		}
		proof := make([]byte, l)
		if _, err := io.ReadFull(r, proof); err != nil {
			return err
		}
		if err := read(proof); err != nil {
			return err
		}
	}
	return nil
}

// CheckBundleSanity performs the checks that need no state and no
// pairings: the bundle is not empty and no nullifier or commitment
// appears twice.
func CheckBundleSanity(b *Bundle) error {
	if len(b.Spends) == 0 && len(b.Receipts) == 0 {
		return ruleError(ErrEmptyBundle, "bundle has no spends and no receipts")
	}
	nullifiers := make(map[types.Nullifier]struct{}, len(b.Spends))
	for _, n := range b.Nullifiers() {
		if _, ok := nullifiers[n]; ok {
			return ruleError(ErrDuplicateNullifier, "bundle spends nullifier "+n.String()+" twice")
		}
		nullifiers[n] = struct{}{}
	}
	commitments := make(map[fr.Element]struct{}, len(b.Receipts))
	for _, cm := range b.Commitments() {
		if _, ok := commitments[cm]; ok {
			return ruleError(ErrDuplicateCommitment, "bundle creates note commitment "+cm.String()+" twice")
		}
		commitments[cm] = struct{}{}
	}
	return nil
}
