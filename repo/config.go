// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcash/bchutil"
	"github.com/jessevdk/go-flags"
)

//go:embed sample-shielded.conf
var configFS embed.FS

const (
	DefaultLogFilename    = "shielded.log"
	defaultConfigFilename = "shielded.conf"

	DefaultNullifierCacheSize = 100000
	DefaultRootCacheSize      = 1000
	DefaultProofCacheSize     = 10000
)

var (
	DefaultHomeDir    = bchutil.AppDataDir("shielded", false)
	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
)

// Config defines the configuration options shared by the shielded
// commands.
//
// See LoadConfig for details on the configuration load process.
type Config struct {
	ShowVersion bool   `short:"v" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"d" long:"datadir" description:"Directory to store the nullifier set and note tree"`
	ParamsDir   string `short:"p" long:"paramsdir" description:"Directory holding the spend and output circuit parameters"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	LogLevel    string `short:"l" long:"loglevel" description:"Set the logging level [debug, info, warning, error, fatal]."`
	Regtest     bool   `short:"r" long:"regtest" description:"Keep state under the regtest directory"`

	Cache CacheOptions `group:"Cache Options"`
}

type CacheOptions struct {
	NullifierCacheSize uint `long:"nullifiercache" description:"The number of nullifiers to hold in memory in front of the database"`
	RootCacheSize      uint `long:"rootcache" description:"The number of note tree roots to hold in memory in front of the database"`
	ProofCacheSize     uint `long:"proofcache" description:"The number of verified proofs to remember"`
}

// LoadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Command line options always take precedence. Arguments that are not
// options are returned so the caller can dispatch on them.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := Config{
		DataDir:    DefaultHomeDir,
		ConfigFile: defaultConfigFile,
		LogLevel:   "info",
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(args); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, nil, err
		}
	}
	if preCfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", VersionString())
		os.Exit(0)
	}
	configFile := preCfg.ConfigFile
	if preCfg.DataDir != cfg.DataDir && preCfg.ConfigFile == defaultConfigFile {
		configFile = filepath.Join(preCfg.DataDir, defaultConfigFilename)
	}
	configFile = CleanAndExpandPath(configFile)

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfigFile(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config file: %v\n", err)
		}
	}

	var configFileError error
	parser := flags.NewParser(&cfg, flags.Default|flags.IgnoreUnknown)
	if err := flags.NewIniParser(parser).ParseFile(configFile); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, nil, fmt.Errorf("parsing config file: %w", err)
		}
		configFileError = err
	}

	// Reparse command-line arguments to override config file settings
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	netStr := "mainnet"
	if cfg.Regtest {
		netStr = "regtest"
	}
	cfg.DataDir = CleanAndExpandPath(cfg.DataDir)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs", netStr)
	}
	cfg.LogDir = CleanAndExpandPath(cfg.LogDir)
	if cfg.ParamsDir == "" {
		cfg.ParamsDir = filepath.Join(cfg.DataDir, "params")
	}
	cfg.ParamsDir = CleanAndExpandPath(cfg.ParamsDir)
	cfg.DataDir = filepath.Join(cfg.DataDir, netStr)

	if cfg.Cache.NullifierCacheSize == 0 {
		cfg.Cache.NullifierCacheSize = DefaultNullifierCacheSize
	}
	if cfg.Cache.RootCacheSize == 0 {
		cfg.Cache.RootCacheSize = DefaultRootCacheSize
	}
	if cfg.Cache.ProofCacheSize == 0 {
		cfg.Cache.ProofCacheSize = DefaultProofCacheSize
	}

	// Warn about a missing config file only after all other configuration
	// is done.
	if configFileError != nil {
		log.WithCaller(true).Warn("Bad config file", log.Args("error", configFileError))
	}
	return &cfg, remaining, nil
}

// createDefaultConfigFile copies the sample-shielded.conf content to the
// given destination path.
func createDefaultConfigFile(destinationPath string) error {
	if err := os.MkdirAll(filepath.Dir(destinationPath), 0700); err != nil {
		return err
	}
	sampleBytes, err := fs.ReadFile(configFS, "sample-shielded.conf")
	if err != nil {
		return err
	}
	return os.WriteFile(destinationPath, sampleBytes, 0600)
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = filepath.Dir(DefaultHomeDir)
		}
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
