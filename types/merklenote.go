// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
)

const (
	// EncryptedNoteSize is the size of the encrypted note plaintext.
	EncryptedNoteSize = NotePlaintextSize + crypto.CipherOverhead

	noteKeysPlaintextSize = crypto.PointSize + crypto.ScalarSize

	// NoteEncryptionKeysSize is the size of the encrypted (pk_d, esk) pair.
	NoteEncryptionKeysSize = noteKeysPlaintextSize + crypto.CipherOverhead

	// MerkleNoteSize is the size of a serialized MerkleNote.
	MerkleNoteSize = 2*crypto.PointSize + fr.Bytes + EncryptedNoteSize + NoteEncryptionKeysSize
)

var (
	// ErrMalformedMerkleNote is returned when merkle note bytes cannot be
	// parsed.
	ErrMalformedMerkleNote = errors.New("malformed merkle note")

	// ErrCommitmentMismatch is returned when a decrypted note does not
	// open the note commitment it was published with.
	ErrCommitmentMismatch = errors.New("decrypted note does not match commitment")
)

// MerkleNote is the public form of an output note. It is what gets
// appended to the note commitment tree and is all a receiver needs to
// detect and decrypt a payment.
type MerkleNote struct {
	ValueCommitment    crypto.Point
	EphemeralPublicKey crypto.Point
	NoteCommitment     fr.Element
	EncryptedNote      [EncryptedNoteSize]byte
	NoteEncryptionKeys [NoteEncryptionKeysSize]byte
}

// NewMerkleNote encrypts the note to its owner under the Diffie-Hellman
// secret of (esk, pk_d) and encrypts (pk_d, esk) under a key derived from
// the sender's outgoing view key.
func NewMerkleNote(ovk [32]byte, note *Note, cv *ValueCommitment, esk *big.Int, epk crypto.Point) (*MerkleNote, error) {
	cvPoint := cv.Commitment()
	cm := note.Commitment()

	shared := crypto.SharedSecret(esk, &note.Owner.TransmissionKey)
	encryptedNote, err := crypto.Encrypt(crypto.NoteEncryptionKey(&shared, &epk), note.Serialize())
	if err != nil {
		return nil, err
	}

	keys := make([]byte, 0, noteKeysPlaintextSize)
	pkd := note.Owner.TransmissionKey.Bytes()
	eskBytes := crypto.EncodeScalar(esk)
	keys = append(keys, pkd[:]...)
	keys = append(keys, eskBytes[:]...)

	ock := crypto.OutgoingCipherKey(ovk, &cvPoint, &epk, &cm)
	encryptedKeys, err := crypto.Encrypt(ock, keys)
	if err != nil {
		return nil, err
	}

	m := &MerkleNote{
		ValueCommitment:    cvPoint,
		EphemeralPublicKey: epk,
		NoteCommitment:     cm,
	}
	copy(m.EncryptedNote[:], encryptedNote)
	copy(m.NoteEncryptionKeys[:], encryptedKeys)
	return m, nil
}

// Serialize returns the fixed width encoding
//
//	cv || epk || cm || encrypted note || encrypted keys
func (m *MerkleNote) Serialize() []byte {
	ser := make([]byte, 0, MerkleNoteSize)
	cv := m.ValueCommitment.Bytes()
	epk := m.EphemeralPublicKey.Bytes()
	cm := m.NoteCommitment.Bytes()

	ser = append(ser, cv[:]...)
	ser = append(ser, epk[:]...)
	ser = append(ser, cm[:]...)
	ser = append(ser, m.EncryptedNote[:]...)
	ser = append(ser, m.NoteEncryptionKeys[:]...)
	return ser
}

// Deserialize parses a serialized MerkleNote. m is only modified if the
// whole input parses.
func (m *MerkleNote) Deserialize(ser []byte) error {
	if len(ser) != MerkleNoteSize {
		return ErrMalformedMerkleNote
	}
	var (
		tmp    MerkleNote
		err    error
		offset int
	)
	tmp.ValueCommitment, err = crypto.DecodePoint(ser[offset : offset+crypto.PointSize])
	if err != nil {
		return ErrMalformedMerkleNote
	}
	offset += crypto.PointSize

	tmp.EphemeralPublicKey, err = crypto.DecodePoint(ser[offset : offset+crypto.PointSize])
	if err != nil {
		return ErrMalformedMerkleNote
	}
	offset += crypto.PointSize

	tmp.NoteCommitment, err = crypto.DecodeFieldElement(ser[offset : offset+fr.Bytes])
	if err != nil {
		return ErrMalformedMerkleNote
	}
	offset += fr.Bytes

	copy(tmp.EncryptedNote[:], ser[offset:offset+EncryptedNoteSize])
	offset += EncryptedNoteSize
	copy(tmp.NoteEncryptionKeys[:], ser[offset:offset+NoteEncryptionKeysSize])

	*m = tmp
	return nil
}

// DecryptNoteForOwner decrypts the note with the receiver's incoming view
// key. It fails if the note was not sent to that key.
func (m *MerkleNote) DecryptNoteForOwner(ivk *big.Int) (*Note, error) {
	shared := crypto.SharedSecret(ivk, &m.EphemeralPublicKey)
	plaintext, err := crypto.Decrypt(crypto.NoteEncryptionKey(&shared, &m.EphemeralPublicKey), m.EncryptedNote[:])
	if err != nil {
		return nil, err
	}
	n, err := deserializeNote(plaintext, nil)
	if err != nil {
		return nil, err
	}
	n.Owner.TransmissionKey = crypto.ScalarMul(&n.Owner.DiversifiedGenerator, ivk)
	if err := m.checkCommitment(n); err != nil {
		return nil, err
	}
	return n, nil
}

// DecryptNoteForSpender lets the sender recover a note it created using
// its outgoing view key.
func (m *MerkleNote) DecryptNoteForSpender(ovk [32]byte) (*Note, error) {
	ock := crypto.OutgoingCipherKey(ovk, &m.ValueCommitment, &m.EphemeralPublicKey, &m.NoteCommitment)
	keys, err := crypto.Decrypt(ock, m.NoteEncryptionKeys[:])
	if err != nil {
		return nil, err
	}
	pkd, err := crypto.DecodePoint(keys[:crypto.PointSize])
	if err != nil {
		return nil, crypto.ErrDecryption
	}
	esk, err := crypto.DecodeScalar(keys[crypto.PointSize:])
	if err != nil {
		return nil, crypto.ErrDecryption
	}

	shared := crypto.SharedSecret(esk, &pkd)
	plaintext, err := crypto.Decrypt(crypto.NoteEncryptionKey(&shared, &m.EphemeralPublicKey), m.EncryptedNote[:])
	if err != nil {
		return nil, err
	}
	n, err := deserializeNote(plaintext, &pkd)
	if err != nil {
		return nil, err
	}
	if err := m.checkCommitment(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (m *MerkleNote) checkCommitment(n *Note) error {
	cm := n.Commitment()
	if !cm.Equal(&m.NoteCommitment) {
		return ErrCommitmentMismatch
	}
	return nil
}
