// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	// BoxKeySize is the length of box public and secret keys.
	BoxKeySize = 32

	// BoxNonceSize is the length of a box nonce.
	BoxNonceSize = 24
)

// ErrBoxDecryption Nacl box decryption failed
var ErrBoxDecryption = errors.New("failed to unbox message")

// BoxKeyPair is a curve25519 key pair used to box messages between peers.
type BoxKeyPair struct {
	PublicKey [BoxKeySize]byte
	SecretKey [BoxKeySize]byte
}

// NewBoxKeyPair returns a random key pair.
func NewBoxKeyPair() (*BoxKeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &BoxKeyPair{PublicKey: *pub, SecretKey: *priv}, nil
}

// BoxKeyPairFromHex rebuilds a key pair from a hex encoded secret key.
func BoxKeyPairFromHex(secretHex string) (*BoxKeyPair, error) {
	b, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, errors.New("unable to decode secret key")
	}
	if len(b) != BoxKeySize {
		return nil, errors.New("unable to convert secret key")
	}
	var kp BoxKeyPair
	copy(kp.SecretKey[:], b)
	pub, err := curve25519.X25519(kp.SecretKey[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	copy(kp.PublicKey[:], pub)
	return &kp, nil
}

// RandomBytes returns n bytes from the system's secure random source.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// BoxMessage encrypts and authenticates plaintext from the sender to the
// recipient. The nonce and ciphertext are returned base64 encoded.
func BoxMessage(plaintext string, senderSecretKey [BoxKeySize]byte, recipientPublicKey string) (nonce string, boxed string, err error) {
	recipient, err := decodeBoxKey(recipientPublicKey)
	if err != nil {
		return "", "", errors.New("unable to decode recipient public key")
	}

	var n [BoxNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, n[:]); err != nil {
		return "", "", err
	}
	ciphertext := box.Seal(nil, []byte(plaintext), &n, &recipient, &senderSecretKey)
	return base64.StdEncoding.EncodeToString(n[:]), base64.StdEncoding.EncodeToString(ciphertext), nil
}

// UnboxMessage reverses BoxMessage.
func UnboxMessage(boxed, nonce, senderPublicKey string, recipientSecretKey [BoxKeySize]byte) (string, error) {
	sender, err := decodeBoxKey(senderPublicKey)
	if err != nil {
		return "", errors.New("unable to decode sender public key")
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil || len(nonceBytes) != BoxNonceSize {
		return "", errors.New("unable to decode nonce")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(boxed)
	if err != nil {
		return "", errors.New("unable to decode boxed message")
	}

	var n [BoxNonceSize]byte
	copy(n[:], nonceBytes)
	plaintext, ok := box.Open(nil, ciphertext, &n, &sender, &recipientSecretKey)
	if !ok {
		return "", ErrBoxDecryption
	}
	return string(plaintext), nil
}

func decodeBoxKey(s string) ([BoxKeySize]byte, error) {
	var k [BoxKeySize]byte
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return k, err
	}
	if len(b) != BoxKeySize {
		return k, errors.New("invalid key length")
	}
	copy(k[:], b)
	return k, nil
}
