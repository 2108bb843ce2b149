// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"github.com/project-illium/shielded/crypto"
	"github.com/stretchr/testify/assert"
	"testing"
)

const (
	testSerializedNullifier = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

func TestNewNullifierFromString(t *testing.T) {
	n, err := NewNullifierFromString(testSerializedNullifier)
	if err != nil {
		t.Error(err)
	}

	if n.String() != testSerializedNullifier {
		t.Errorf("Expected %s, got %s", testSerializedNullifier, n.String())
	}
}

func TestNullifierUnmarshalJson(t *testing.T) {
	var n Nullifier
	err := n.UnmarshalJSON([]byte(testSerializedNullifier))
	if err != nil {
		t.Error(err)
	}

	if n.String() != testSerializedNullifier {
		t.Errorf("Expected %s, got %s", testSerializedNullifier, n.String())
	}
}

func TestCalculateNullifier(t *testing.T) {
	sk := crypto.NewSpendingKey([32]byte{0x01})
	nk := sk.NullifierDerivingKey()
	cm := crypto.FieldFromUint64(12345)

	n := CalculateNullifier(&nk, cm, 7)
	assert.Equal(t, n, CalculateNullifier(&nk, cm, 7))
	assert.NotEqual(t, n, CalculateNullifier(&nk, cm, 8))

	other := crypto.NewSpendingKey([32]byte{0x02})
	nk2 := other.NullifierDerivingKey()
	assert.NotEqual(t, n, CalculateNullifier(&nk2, cm, 7))

	e, err := n.Element()
	assert.NoError(t, err)
	assert.Equal(t, n, NewNullifierFromElement(e))

	var bad Nullifier
	for i := range bad {
		bad[i] = 0xff
	}
	_, err = bad.Element()
	assert.Error(t, err)
}
