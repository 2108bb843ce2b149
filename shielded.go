// Copyright (c) 2022 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/project-illium/shielded/repo"
)

func main() {
	// Load the config file. There are three steps to this:
	// 1. Start with a config populated with default values.
	// 2. Override the default values with any provided config file options.
	// 3. Override the first two with any provided command line options.
	// Whatever is left over selects and configures the command.
	cfg, args, err := repo.LoadConfig(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			newCommandParser(nil).WriteHelp(os.Stdout)
			os.Exit(0)
		}
		log.Fatal(err)
	}

	if err := setupLogging(cfg.LogDir, cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	if _, err := newCommandParser(cfg).ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			// go-flags has already printed it.
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func newCommandParser(cfg *repo.Config) *flags.Parser {
	parser := flags.NewNamedParser("shielded", flags.HelpFlag|flags.PassDoubleDash|flags.PrintErrors)
	parser.AddCommand("setup",
		"Generate circuit parameters",
		"Run a local groth16 setup for the spend and output circuits and write the parameter files to the params directory. The toxic waste is known to this process; use for development only.",
		&setupCmd{cfg: cfg})
	parser.AddCommand("keygen",
		"Generate a spending key",
		"Generate a random spending key and print its seed and a payment address.",
		&keygenCmd{})
	parser.AddCommand("prove-receipt",
		"Create a note and prove its receipt",
		"Create a note for an address, prove the output and write a bundle holding the receipt.",
		&proveReceiptCmd{cfg: cfg})
	parser.AddCommand("prove-spend",
		"Prove the spend of a received note",
		"Find the note sent to the key in a receipt bundle, fetch its witness from the ledger and write a bundle holding the spend.",
		&proveSpendCmd{cfg: cfg})
	parser.AddCommand("verify",
		"Verify the proofs in a bundle",
		"Verify every proof in a bundle file without consulting the ledger.",
		&verifyCmd{cfg: cfg})
	parser.AddCommand("connect",
		"Connect a bundle to the ledger",
		"Validate a bundle against the ledger and, if valid, record its nullifiers and note commitments.",
		&connectCmd{cfg: cfg})
	return parser
}
