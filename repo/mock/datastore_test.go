// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package mock

import (
	"context"
	"testing"

	datastore "github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxnReadYourWrites(t *testing.T) {
	ctx := context.Background()
	ds := NewMapDatastore()
	a, b := datastore.NewKey("/a"), datastore.NewKey("/b")
	require.NoError(t, ds.Put(ctx, b, []byte{2}))

	dbtx, err := ds.NewTransaction(ctx, false)
	require.NoError(t, err)
	require.NoError(t, dbtx.Put(ctx, a, []byte{1}))
	require.NoError(t, dbtx.Delete(ctx, b))

	v, err := dbtx.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)
	has, err := dbtx.Has(ctx, b)
	require.NoError(t, err)
	assert.False(t, has)

	// Nothing is visible outside the transaction before commit.
	has, err = ds.Has(ctx, a)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, dbtx.Commit(ctx))
	has, err = ds.Has(ctx, a)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = ds.Has(ctx, b)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestTxnReadOnly(t *testing.T) {
	ctx := context.Background()
	dbtx, err := NewMapDatastore().NewTransaction(ctx, true)
	require.NoError(t, err)
	assert.Error(t, dbtx.Put(ctx, datastore.NewKey("/a"), nil))
	assert.Error(t, dbtx.Delete(ctx, datastore.NewKey("/a")))
}
