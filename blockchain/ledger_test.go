// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"
	"testing"

	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/repo/mock"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerRequiresVerifier(t *testing.T) {
	_, err := NewLedger(DefaultOptions())
	var assertErr AssertError
	assert.ErrorAs(t, err, &assertErr)
}

func TestLedgerConnectBundle(t *testing.T) {
	ds := mock.NewMapDatastore()
	verifier := &zk.MockVerifier{}
	ledger, err := NewLedger(DefaultOptions(), Datastore(ds), Verifier(verifier))
	require.NoError(t, err)

	// Receipts only.
	receipts := &Bundle{Receipts: []*zk.ReceiptProof{fakeReceiptProof(t), fakeReceiptProof(t)}}
	require.NoError(t, ledger.ConnectBundle(receipts, BFNone))
	assert.Equal(t, uint64(2), ledger.NoteTreeSize())
	anchor := ledger.NoteTreeRoot()
	exists, err := ledger.AnchorExists(anchor)
	require.NoError(t, err)
	assert.True(t, exists)

	w, err := ledger.Witness(1)
	require.NoError(t, err)
	assert.True(t, w.Verify(receipts.Receipts[1].MerkleNote.NoteCommitment))

	// Spend against the root.
	n := randomNullifier(t)
	spend := &Bundle{
		Spends:   []*zk.SpendProof{fakeSpendProof(t, anchor, n)},
		Receipts: []*zk.ReceiptProof{fakeReceiptProof(t)},
	}
	require.NoError(t, ledger.ValidateBundle(spend))
	require.NoError(t, ledger.ConnectBundle(spend, BFNone))
	spent, err := ledger.NullifierExists(n)
	require.NoError(t, err)
	assert.True(t, spent)
	assert.Equal(t, uint64(3), ledger.NoteTreeSize())

	// The old root stays a valid anchor but the nullifier is gone.
	doubleSpend := &Bundle{Spends: []*zk.SpendProof{fakeSpendProof(t, anchor, n)}}
	err = ledger.ConnectBundle(doubleSpend, BFNone)
	assert.True(t, ErrorIs(err, ErrDoubleSpend))

	badAnchor := &Bundle{Spends: []*zk.SpendProof{fakeSpendProof(t, randomElement(t), randomNullifier(t))}}
	err = ledger.ConnectBundle(badAnchor, BFNone)
	assert.True(t, ErrorIs(err, ErrInvalidAnchor))

	verifier.SetValid(false)
	invalid := &Bundle{Receipts: []*zk.ReceiptProof{fakeReceiptProof(t)}}
	err = ledger.ConnectBundle(invalid, BFNone)
	assert.True(t, ErrorIs(err, ErrInvalidProof))
	assert.Equal(t, uint64(3), ledger.NoteTreeSize())

	// Already validated bundles skip the verifier.
	require.NoError(t, ledger.ConnectBundle(invalid, BFNoValidation))
	assert.Equal(t, uint64(4), ledger.NoteTreeSize())

	// State survives a restart.
	reopened, err := NewLedger(DefaultOptions(), Datastore(ds), Verifier(verifier))
	require.NoError(t, err)
	assert.Equal(t, ledger.NoteTreeSize(), reopened.NoteTreeSize())
	r1, r2 := ledger.NoteTreeRoot(), reopened.NoteTreeRoot()
	assert.True(t, r1.Equal(&r2))
	spent, err = reopened.NullifierExists(n)
	require.NoError(t, err)
	assert.True(t, spent)
}

var (
	ledgerParams     *zk.Parameters
	ledgerParamsErr  error
	ledgerParamsOnce sync.Once
)

func testParameters(t *testing.T) *zk.Parameters {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	ledgerParamsOnce.Do(func() {
		ledgerParams, ledgerParamsErr = zk.GenerateParameters()
	})
	require.NoError(t, ledgerParamsErr)
	return ledgerParams
}

func TestLedgerWithProofs(t *testing.T) {
	params := testParameters(t)

	ledger, err := NewLedger(DefaultOptions(), Verifier(params))
	require.NoError(t, err)

	sender, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	receiver, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	addr, err := receiver.GenerateAddress()
	require.NoError(t, err)
	asset, err := types.NewAssetType([]byte("illium"))
	require.NoError(t, err)
	note, err := types.NewNote(addr, 5000, types.NewMemo([]byte("rent")), asset)
	require.NoError(t, err)

	rp, err := zk.NewReceiptParams(params, sender, note)
	require.NoError(t, err)
	receipt, err := rp.Post()
	require.NoError(t, err)
	require.NoError(t, ledger.ConnectBundle(&Bundle{Receipts: []*zk.ReceiptProof{receipt}}, BFNone))

	// The receiver finds the note and spends it.
	received, err := receipt.MerkleNote.DecryptNoteForOwner(receiver.IncomingViewKey())
	require.NoError(t, err)
	witness, err := ledger.Witness(0)
	require.NoError(t, err)

	sp, err := zk.NewSpendParams(params, receiver, received, witness)
	require.NoError(t, err)
	spendProof, err := sp.Post()
	require.NoError(t, err)

	nk := receiver.NullifierDerivingKey()
	assert.Equal(t, received.Nullifier(&nk, 0), spendProof.Nullifier)

	bundle := &Bundle{Spends: []*zk.SpendProof{spendProof}}
	require.NoError(t, ledger.ConnectBundle(bundle, BFNone))

	err = ledger.ValidateBundle(bundle)
	assert.True(t, ErrorIs(err, ErrDoubleSpend))
}

func TestLedgerScanKeys(t *testing.T) {
	sender, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	wallet, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	addr, err := wallet.GenerateAddress()
	require.NoError(t, err)

	ledger, err := NewLedger(DefaultOptions(), Verifier(&zk.MockVerifier{}), ScanKeys(wallet))
	require.NoError(t, err)

	require.NoError(t, ledger.ConnectBundle(&Bundle{Receipts: []*zk.ReceiptProof{fakeReceiptProof(t)}}, BFNone))

	rp, note := encryptedReceipt(t, sender, addr)
	require.NoError(t, ledger.ConnectBundle(&Bundle{Receipts: []*zk.ReceiptProof{fakeReceiptProof(t), rp}}, BFNone))

	owned := ledger.OwnedNotes()
	require.Len(t, owned, 1)
	assert.Equal(t, uint64(2), owned[0].Position)
	assert.Equal(t, note.Commitment(), owned[0].Note.Commitment())

	w, err := ledger.Witness(owned[0].Position)
	require.NoError(t, err)
	assert.True(t, w.Verify(note.Commitment()))
}

func TestLedgerNotifications(t *testing.T) {
	sender, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	wallet, err := crypto.GenerateSpendingKey()
	require.NoError(t, err)
	addr, err := wallet.GenerateAddress()
	require.NoError(t, err)

	ledger, err := NewLedger(DefaultOptions(), Verifier(&zk.MockVerifier{}))
	require.NoError(t, err)
	ledger.AddScanKeys(wallet)

	ch := make(chan *Notification, 2)
	ledger.Subscribe(func(n *Notification) {
		ch <- n
	})

	rp, _ := encryptedReceipt(t, sender, addr)
	bundle := &Bundle{Receipts: []*zk.ReceiptProof{rp}}
	require.NoError(t, ledger.ConnectBundle(bundle, BFNone))

	seen := make(map[NotificationType]interface{})
	for i := 0; i < 2; i++ {
		n := <-ch
		seen[n.Type] = n.Data
	}
	assert.Equal(t, bundle, seen[NTBundleConnected])
	match, ok := seen[NTNoteReceived].(*ScanMatch)
	require.True(t, ok)
	assert.Equal(t, uint64(0), match.Position)
}
