// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package datastore

// Option is configuration option function for the Datastore
type Option func(cfg *config) error

// WithMaxTableSize sets the size of badger's in memory tables.
func WithMaxTableSize(size int64) Option {
	return func(cfg *config) error {
		cfg.maxTableSize = size
		return nil
	}
}

// WithSyncWrites makes every write sync to disk before returning.
func WithSyncWrites() Option {
	return func(cfg *config) error {
		cfg.syncWrites = true
		return nil
	}
}

type config struct {
	maxTableSize int64
	syncWrites   bool
}
