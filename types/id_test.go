// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSerializedID = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewIDFromString(t *testing.T) {
	id, err := NewIDFromString(testSerializedID)
	require.NoError(t, err)
	assert.Equal(t, testSerializedID, id.String())

	_, err = NewIDFromString(strings.Repeat("00", 33))
	assert.ErrorIs(t, err, ErrIDStrSize)

	_, err = NewIDFromString("zz")
	assert.Error(t, err)
}

func TestIDCompare(t *testing.T) {
	a, err := NewIDFromString(testSerializedID)
	require.NoError(t, err)
	b := a
	b[31]++

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestNewIDFromData(t *testing.T) {
	a := NewIDFromData([]byte("bundle"))
	assert.Equal(t, a, NewIDFromData([]byte("bundle")))
	assert.NotEqual(t, a, NewIDFromData([]byte("bundle2")))
}
