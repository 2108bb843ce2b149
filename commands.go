// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/project-illium/shielded/blockchain"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/mempool"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/repo"
	"github.com/project-illium/shielded/repo/datastore"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk"
	"github.com/pterm/pterm"
)

type setupCmd struct {
	cfg *repo.Config
}

func (x *setupCmd) Execute(args []string) error {
	if err := os.MkdirAll(x.cfg.ParamsDir, 0700); err != nil {
		return err
	}
	spinner, _ := pterm.DefaultSpinner.Start("Generating circuit parameters")
	p, err := zk.GenerateParameters()
	if err != nil {
		spinner.Fail(err)
		return err
	}
	if err := p.WriteTo(x.cfg.ParamsDir); err != nil {
		spinner.Fail(err)
		return err
	}
	spinner.Success("Parameters written to " + x.cfg.ParamsDir)
	return nil
}

type keygenCmd struct{}

func (x *keygenCmd) Execute(args []string) error {
	sk, err := crypto.GenerateSpendingKey()
	if err != nil {
		return err
	}
	addr, err := sk.GenerateAddress()
	if err != nil {
		return err
	}
	seed := sk.Seed()
	return pterm.DefaultTable.WithData(pterm.TableData{
		{"seed", hex.EncodeToString(seed[:])},
		{"address", hex.EncodeToString(addr.Bytes())},
	}).Render()
}

type proveReceiptCmd struct {
	cfg   *repo.Config
	Seed  string `long:"seed" description:"Hex seed of the sender's spending key" required:"true"`
	To    string `long:"to" description:"Hex payment address of the receiver" required:"true"`
	Value uint64 `long:"value" description:"Note value" required:"true"`
	Asset string `long:"asset" description:"Asset name" default:"illium"`
	Memo  string `long:"memo" description:"Memo, truncated to 32 bytes"`
	Out   string `long:"out" description:"File to write the bundle to" required:"true"`
}

func (x *proveReceiptCmd) Execute(args []string) error {
	sk, err := spendingKeyFromHex(x.Seed)
	if err != nil {
		return err
	}
	addrBytes, err := hex.DecodeString(x.To)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	addr, err := crypto.NewPublicAddress(addrBytes)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	asset, err := types.NewAssetType([]byte(x.Asset))
	if err != nil {
		return err
	}
	note, err := types.NewNote(addr, types.Amount(x.Value), types.NewMemo([]byte(x.Memo)), asset)
	if err != nil {
		return err
	}

	p := zk.MustLoadParameters(x.cfg.ParamsDir)
	spinner, _ := pterm.DefaultSpinner.Start("Proving receipt")
	rp, err := zk.NewReceiptParams(p, sk, note)
	if err != nil {
		spinner.Fail(err)
		return err
	}
	receipt, err := rp.Post()
	if err != nil {
		spinner.Fail(err)
		return err
	}
	bundle := &blockchain.Bundle{Receipts: []*zk.ReceiptProof{receipt}}
	if err := os.WriteFile(x.Out, bundle.Serialize(), 0600); err != nil {
		spinner.Fail(err)
		return err
	}
	cm := receipt.MerkleNote.NoteCommitment
	spinner.Success("Receipt for note " + cm.String() + " written to " + x.Out)
	return nil
}

type proveSpendCmd struct {
	cfg      *repo.Config
	Seed     string `long:"seed" description:"Hex seed of the receiver's spending key" required:"true"`
	Receipt  string `long:"receipt" description:"Bundle file holding the receipt of the note" required:"true"`
	Position uint64 `long:"position" description:"Position of the note in the note tree" required:"true"`
	Out      string `long:"out" description:"File to write the bundle to" required:"true"`
}

func (x *proveSpendCmd) Execute(args []string) error {
	sk, err := spendingKeyFromHex(x.Seed)
	if err != nil {
		return err
	}
	bundle, err := readBundle(x.Receipt)
	if err != nil {
		return err
	}
	matches := blockchain.NewNoteScanner(sk).ScanReceipts(bundle.Receipts, 0)
	if len(matches) == 0 {
		return errors.New("no receipt in the bundle decrypts with this key")
	}

	p := zk.MustLoadParameters(x.cfg.ParamsDir)
	ledger, closeLedger, err := openLedger(x.cfg, p, blockchain.NewProofCache(x.cfg.Cache.ProofCacheSize))
	if err != nil {
		return err
	}
	defer closeLedger()

	witness, err := ledger.Witness(x.Position)
	if err != nil {
		return err
	}
	var note *types.Note
	for _, m := range matches {
		if witness.Verify(m.Note.Commitment()) {
			note = m.Note
			break
		}
	}
	if note == nil {
		return fmt.Errorf("the note at position %d is not in the receipt bundle", x.Position)
	}

	spinner, _ := pterm.DefaultSpinner.Start("Proving spend")
	sp, err := zk.NewSpendParams(p, sk, note, witness)
	if err != nil {
		spinner.Fail(err)
		return err
	}
	spend, err := sp.Post()
	if err != nil {
		spinner.Fail(err)
		return err
	}
	out := &blockchain.Bundle{Spends: []*zk.SpendProof{spend}}
	if err := os.WriteFile(x.Out, out.Serialize(), 0600); err != nil {
		spinner.Fail(err)
		return err
	}
	spinner.Success("Spend of nullifier " + spend.Nullifier.String() + " written to " + x.Out)
	return nil
}

type verifyCmd struct {
	cfg  *repo.Config
	Args struct {
		Bundle string `positional-arg-name:"bundle" description:"Bundle file to verify"`
	} `positional-args:"yes" required:"yes"`
}

func (x *verifyCmd) Execute(args []string) error {
	bundle, err := readBundle(x.Args.Bundle)
	if err != nil {
		return err
	}
	p := zk.MustLoadParameters(x.cfg.ParamsDir)

	data := pterm.TableData{{"proof", "public value", "result"}}
	failed := false
	record := func(kind, public string, err error) {
		result := pterm.Green("valid")
		if err != nil {
			result = pterm.Red(err.Error())
			failed = true
		}
		data = append(data, []string{kind, public, result})
	}
	for _, sp := range bundle.Spends {
		record("spend", "nullifier "+sp.Nullifier.String(), sp.Verify(p))
	}
	for _, r := range bundle.Receipts {
		record("receipt", "commitment "+r.MerkleNote.NoteCommitment.String(), r.Verify(p))
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	if failed {
		return zk.ErrVerificationFailed
	}
	return nil
}

type connectCmd struct {
	cfg  *repo.Config
	Args struct {
		Bundle string `positional-arg-name:"bundle" description:"Bundle file to connect"`
	} `positional-args:"yes" required:"yes"`
}

func (x *connectCmd) Execute(args []string) error {
	bundle, err := readBundle(x.Args.Bundle)
	if err != nil {
		return err
	}
	verifier := zk.MustLoadParameters(x.cfg.ParamsDir)
	proofCache := blockchain.NewProofCache(x.cfg.Cache.ProofCacheSize)
	ledger, closeLedger, err := openLedger(x.cfg, verifier, proofCache)
	if err != nil {
		return err
	}
	defer closeLedger()

	// The bundle passes through the pool first. The pool and the ledger
	// share the proof cache so the proofs are only verified once.
	pool, err := mempool.NewMempool(
		mempool.DefaultOptions(),
		mempool.LedgerView(ledger),
		mempool.Verifier(verifier),
		mempool.ProofCache(proofCache),
	)
	if err != nil {
		return err
	}
	if err := pool.ProcessBundle(bundle); err != nil {
		return err
	}

	firstPosition := ledger.NoteTreeSize()
	if err := ledger.ConnectBundle(bundle, blockchain.BFNone); err != nil {
		return err
	}
	pool.RemoveBundles([]*blockchain.Bundle{bundle})
	for i, cm := range bundle.Commitments() {
		pterm.Info.Printfln("note %s at position %d", cm.String(), firstPosition+uint64(i))
	}
	root := ledger.NoteTreeRoot()
	pterm.Success.Printfln("Connected bundle, note tree root %s", root.String())
	return nil
}

func spendingKeyFromHex(s string) (*crypto.SpendingKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if len(b) != params.SpendingKeySize {
		return nil, fmt.Errorf("seed must be %d bytes", params.SpendingKeySize)
	}
	var seed [params.SpendingKeySize]byte
	copy(seed[:], b)
	return crypto.NewSpendingKey(seed), nil
}

func readBundle(path string) (*blockchain.Bundle, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return blockchain.DeserializeBundle(b)
}

func openLedger(cfg *repo.Config, verifier zk.Verifier, proofCache *blockchain.ProofCache) (*blockchain.Ledger, func(), error) {
	ds, err := datastore.NewShieldedDatastore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := blockchain.NewLedger(
		blockchain.Datastore(ds),
		blockchain.Verifier(verifier),
		blockchain.SnarkProofCache(proofCache),
		blockchain.MaxNullifiers(cfg.Cache.NullifierCacheSize),
		blockchain.MaxTxoRoots(cfg.Cache.RootCacheSize),
	)
	if err != nil {
		ds.Close()
		return nil, nil, err
	}
	closeLedger := func() {
		if err := ds.Close(); err != nil {
			log.Errorf("Error closing datastore: %s", err)
		}
	}
	log.Debugf("Opened ledger at %s", cfg.DataDir)
	return ledger, closeLedger, nil
}
