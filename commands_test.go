// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/project-illium/shielded/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpendingKeyFromHex(t *testing.T) {
	sk, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	seed := sk.Seed()

	sk2, err := spendingKeyFromHex(hex.EncodeToString(seed[:]))
	require.NoError(t, err)
	assert.Equal(t, 0, sk.IncomingViewKey().Cmp(sk2.IncomingViewKey()))

	_, err = spendingKeyFromHex("zz")
	assert.Error(t, err)
	_, err = spendingKeyFromHex(strings.Repeat("00", 31))
	assert.Error(t, err)
}

func TestReadBundle(t *testing.T) {
	dir := t.TempDir()

	_, err := readBundle(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02}, 0600))
	_, err = readBundle(path)
	assert.Error(t, err)
}

func TestCommandParser(t *testing.T) {
	parser := newCommandParser(nil)
	for _, name := range []string{"setup", "keygen", "prove-receipt", "prove-spend", "verify", "connect"} {
		assert.NotNil(t, parser.Find(name), name)
	}
}
