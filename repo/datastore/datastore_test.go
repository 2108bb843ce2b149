// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package datastore

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-datastore"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShieldedDatastore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ds, err := NewShieldedDatastore(dir, WithMaxTableSize(16<<20))
	require.NoError(t, err)

	key := datastore.NewKey("/shielded/test/")
	dbtx, err := ds.NewTransaction(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, dbtx.Put(context.Background(), key, []byte{0x01}))
	require.NoError(t, dbtx.Commit(context.Background()))
	require.NoError(t, ds.Close())

	ds, err = NewShieldedDatastore(dir)
	require.NoError(t, err)
	defer ds.Close()

	val, err := ds.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, val)
}

func TestBadgerLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &badgerLogger{logger: pterm.DefaultLogger.WithLevel(pterm.LogLevelWarn).WithWriter(&buf)}

	l.Infof("Replaying file id: %d\n", 3)
	assert.Empty(t, buf.String())

	l.Errorf("value log truncated: %s\n", "foo")
	assert.Contains(t, buf.String(), "badger: value log truncated: foo")
}
