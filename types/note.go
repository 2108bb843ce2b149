// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/binary"
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
)

// NotePlaintextSize is the size of a serialized note, the payload
// encrypted inside a MerkleNote.
const NotePlaintextSize = params.DiversifierSize + AmountLen + fr.Bytes + params.MemoSize + params.AssetIdentifierSize

// Note holds all the data that makes up an output commitment.
type Note struct {
	Owner      crypto.PublicAddress
	Value      Amount
	Memo       Memo
	Asset      AssetType
	Randomness fr.Element
}

// NewNote returns a note paying value of asset to owner with a fresh
// commitment randomness.
func NewNote(owner *crypto.PublicAddress, value Amount, memo Memo, asset AssetType) (*Note, error) {
	rcm, err := RandomSalt()
	if err != nil {
		return nil, err
	}
	return &Note{
		Owner:      *owner,
		Value:      value,
		Memo:       memo,
		Asset:      asset,
		Randomness: rcm,
	}, nil
}

// Commitment returns the note commitment cm. It binds the owner's
// diversified generator and transmission key, the value, the asset
// generator, the memo and the randomness into a single field element
// which is the note's leaf in the commitment tree.
func (n *Note) Commitment() fr.Element {
	gen := n.Asset.Generator()
	return NoteCommitment(&n.Owner.DiversifiedGenerator, &n.Owner.TransmissionKey, n.Value, &gen, n.Memo, n.Randomness)
}

// NoteCommitment computes cm from its individual inputs.
func NoteCommitment(gd, pkd *crypto.Point, value Amount, assetGen *crypto.Point, memo Memo, rcm fr.Element) fr.Element {
	hi, lo := memo.Limbs()
	return crypto.MiMC(
		crypto.FieldFromUint64(params.DomainNoteCommitment),
		gd.X, gd.Y,
		pkd.X, pkd.Y,
		value.Field(),
		assetGen.X, assetGen.Y,
		hi, lo,
		rcm,
	)
}

// Nullifier returns the nullifier of this note once committed at position.
func (n *Note) Nullifier(nk *crypto.Point, position uint64) Nullifier {
	return CalculateNullifier(nk, n.Commitment(), position)
}

// Serialize returns the note plaintext. The owner is reduced to its
// diversifier since the receiver rebuilds the address from its own keys.
func (n *Note) Serialize() []byte {
	ser := make([]byte, 0, NotePlaintextSize)
	rcm := n.Randomness.Bytes()
	id := n.Asset.Identifier()

	ser = append(ser, n.Owner.Diversifier[:]...)
	ser = append(ser, n.Value.ToBytes()...)
	ser = append(ser, rcm[:]...)
	ser = append(ser, n.Memo[:]...)
	ser = append(ser, id[:]...)
	return ser
}

// deserializeNote parses a note plaintext for the owner whose transmission
// key is pkd. A nil pkd leaves the transmission key for the caller to fill.
func deserializeNote(ser []byte, pkd *crypto.Point) (*Note, error) {
	if len(ser) != NotePlaintextSize {
		return nil, errors.New("invalid note plaintext length")
	}
	var (
		d   [params.DiversifierSize]byte
		id  [params.AssetIdentifierSize]byte
		n   Note
		err error
	)
	offset := 0
	copy(d[:], ser[offset:offset+params.DiversifierSize])
	offset += params.DiversifierSize

	n.Value = Amount(binary.BigEndian.Uint64(ser[offset : offset+AmountLen]))
	offset += AmountLen

	n.Randomness, err = crypto.DecodeFieldElement(ser[offset : offset+fr.Bytes])
	if err != nil {
		return nil, err
	}
	offset += fr.Bytes

	copy(n.Memo[:], ser[offset:offset+params.MemoSize])
	offset += params.MemoSize

	copy(id[:], ser[offset:offset+params.AssetIdentifierSize])
	n.Asset, err = NewAssetTypeFromIdentifier(id)
	if err != nil {
		return nil, err
	}

	gd, err := crypto.DiversifiedGenerator(d)
	if err != nil {
		return nil, err
	}
	n.Owner = crypto.PublicAddress{
		Diversifier:          d,
		DiversifiedGenerator: gd,
	}
	if pkd != nil {
		n.Owner.TransmissionKey = *pkd
	}
	return &n, nil
}
