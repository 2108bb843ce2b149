// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/params"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// SymmetricKeySize is the size of the note encryption keys.
	SymmetricKeySize = chacha20poly1305.KeySize

	// CipherOverhead is the number of bytes authenticated encryption
	// adds to a plaintext.
	CipherOverhead = chacha20poly1305.Overhead
)

// ErrDecryption is returned when a ciphertext fails authentication.
var ErrDecryption = errors.New("failed to decrypt note")

// NoteEncryptionKey derives the symmetric key for a note's plaintext from
// the Diffie-Hellman shared secret and the ephemeral public key.
func NoteEncryptionKey(shared, epk *Point) [SymmetricKeySize]byte {
	s := shared.Bytes()
	e := epk.Bytes()
	return kdf(params.PersonalizationNoteKDF, s[:], e[:])
}

// OutgoingCipherKey derives the key protecting (pk_d, esk) so the sender
// can later recover the notes it created.
func OutgoingCipherKey(ovk [32]byte, cv, epk *Point, cm *fr.Element) [SymmetricKeySize]byte {
	c := cv.Bytes()
	e := epk.Bytes()
	m := cm.Bytes()
	return kdf(params.PersonalizationOutgoingKDF, ovk[:], c[:], e[:], m[:])
}

func kdf(personalization string, data ...[]byte) [SymmetricKeySize]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(personalization))
	for _, d := range data {
		h.Write(d)
	}
	var key [SymmetricKeySize]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Encrypt seals the plaintext. Every key is derived from a fresh
// ephemeral secret and used exactly once, so a zero nonce is safe.
func Encrypt(key [SymmetricKeySize]byte, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	return aead.Seal(nil, nonce[:], plaintext, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt.
func Decrypt(key [SymmetricKeySize]byte, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, nil)
	if err != nil {
		return nil, ErrDecryption
	}
	return plaintext, nil
}
