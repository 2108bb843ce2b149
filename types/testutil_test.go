// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/project-illium/shielded/crypto"
	"github.com/stretchr/testify/require"
)

func randomAddress(t *testing.T) (*crypto.SpendingKey, *crypto.PublicAddress) {
	sk, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	addr, err := sk.GenerateAddress()
	require.NoError(t, err)
	return sk, addr
}

func fooAsset(t *testing.T) AssetType {
	asset, err := NewAssetType([]byte("foo"))
	require.NoError(t, err)
	return asset
}
