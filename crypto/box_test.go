// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxMessage(t *testing.T) {
	sender, err := NewBoxKeyPair()
	require.NoError(t, err)
	recipient, err := NewBoxKeyPair()
	require.NoError(t, err)

	nonce, boxed, err := BoxMessage("hello world", sender.SecretKey, base64.StdEncoding.EncodeToString(recipient.PublicKey[:]))
	require.NoError(t, err)

	plaintext, err := UnboxMessage(boxed, nonce, base64.StdEncoding.EncodeToString(sender.PublicKey[:]), recipient.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, "hello world", plaintext)

	// Wrong recipient.
	other, err := NewBoxKeyPair()
	require.NoError(t, err)
	_, err = UnboxMessage(boxed, nonce, base64.StdEncoding.EncodeToString(sender.PublicKey[:]), other.SecretKey)
	assert.ErrorIs(t, err, ErrBoxDecryption)

	_, _, err = BoxMessage("hello", sender.SecretKey, "not base64!")
	assert.Error(t, err)
}

func TestBoxKeyPairFromHex(t *testing.T) {
	kp, err := NewBoxKeyPair()
	require.NoError(t, err)

	kp2, err := BoxKeyPairFromHex(hex.EncodeToString(kp.SecretKey[:]))
	require.NoError(t, err)
	assert.Empty(t, deep.Equal(kp, kp2))

	_, err = BoxKeyPairFromHex("abcd")
	assert.Error(t, err)
}

func TestRandomBytes(t *testing.T) {
	b, err := RandomBytes(24)
	require.NoError(t, err)
	assert.Len(t, b, 24)
}
