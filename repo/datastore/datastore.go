// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package datastore

import (
	"os"

	badger "github.com/ipfs/go-ds-badger"
	"github.com/project-illium/shielded/repo"
)

const defaultMaxTableSize = 64 << 20

var _ repo.Datastore = (*badger.Datastore)(nil)

// NewShieldedDatastore opens (creating it if needed) the badger database
// in dataDir.
func NewShieldedDatastore(dataDir string, opts ...Option) (repo.Datastore, error) {
	cfg := config{maxTableSize: defaultMaxTableSize}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return nil, err
		}
	}

	badgerOpts := badger.DefaultOptions
	badgerOpts.MaxTableSize = cfg.maxTableSize
	badgerOpts.SyncWrites = cfg.syncWrites
	badgerOpts.Logger = &badgerLogger{logger: log}

	ds, err := badger.NewDatastore(dataDir, &badgerOpts)
	if err != nil {
		return nil, err
	}
	log.Debug("Opened datastore", log.Args("dir", dataDir))
	return ds, nil
}
