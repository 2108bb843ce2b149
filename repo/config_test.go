// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultConfigFile(t *testing.T) {
	testpath := filepath.Join(t.TempDir(), "nested", "test.conf")

	require.NoError(t, createDefaultConfigFile(testpath))

	b, err := os.ReadFile(testpath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "paramsdir")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "custom.conf")
	require.NoError(t, os.WriteFile(confPath, []byte("[Application Options]\nloglevel=debug\n\n[Cache Options]\nproofcache=42\n"), 0600))

	t.Run("file values", func(t *testing.T) {
		cfg, rest, err := LoadConfig([]string{"-C", confPath, "-d", dir, "verify", "proof.bin"})
		require.NoError(t, err)
		assert.Equal(t, []string{"verify", "proof.bin"}, rest)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, uint(42), cfg.Cache.ProofCacheSize)
		assert.Equal(t, uint(DefaultNullifierCacheSize), cfg.Cache.NullifierCacheSize)
		assert.Equal(t, filepath.Join(dir, "mainnet"), cfg.DataDir)
		assert.Equal(t, filepath.Join(dir, "params"), cfg.ParamsDir)
		assert.Equal(t, filepath.Join(dir, "logs", "mainnet"), cfg.LogDir)
	})

	t.Run("command line wins", func(t *testing.T) {
		cfg, _, err := LoadConfig([]string{"-C", confPath, "-d", dir, "--loglevel=error", "--regtest"})
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, filepath.Join(dir, "regtest"), cfg.DataDir)
	})

	t.Run("default config file is created in datadir", func(t *testing.T) {
		cfg, _, err := LoadConfig([]string{"-d", dir})
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, defaultConfigFilename))
		assert.Equal(t, "info", cfg.LogLevel)
	})
}

func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("SHIELDED_TEST_DIR", "/tmp/shielded")
	assert.Equal(t, "/tmp/shielded/params", CleanAndExpandPath("$SHIELDED_TEST_DIR/./params"))
}
