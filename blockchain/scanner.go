// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"runtime"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk"
)

// ScanMatch is a received note that decrypted with one of our keys.
type ScanMatch struct {
	Key      *crypto.SpendingKey
	Note     *types.Note
	Position uint64
}

type scanWork struct {
	merkleNote *types.MerkleNote
	position   uint64
}

type scanKey struct {
	sk  *crypto.SpendingKey
	ivk *big.Int
}

// NoteScanner trial-decrypts receipts with a set of incoming view keys
// so a wallet learns which new notes it owns and where they sit in the
// note tree.
type NoteScanner struct {
	keys []scanKey
	mtx  sync.Mutex
}

// NewNoteScanner returns a new NoteScanner
func NewNoteScanner(keys ...*crypto.SpendingKey) *NoteScanner {
	s := &NoteScanner{}
	s.AddKeys(keys...)
	return s
}

// AddKeys adds new keys to the NoteScanner
func (s *NoteScanner) AddKeys(keys ...*crypto.SpendingKey) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, k := range keys {
		s.keys = append(s.keys, scanKey{sk: k, ivk: k.IncomingViewKey()})
	}
}

// ScanReceipts attempts to decrypt the receipts and returns the matches
// keyed by note commitment. firstPosition is the tree position of the
// first receipt.
func (s *NoteScanner) ScanReceipts(receipts []*zk.ReceiptProof, firstPosition uint64) map[fr.Element]*ScanMatch {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ret := make(map[fr.Element]*ScanMatch)
	if len(receipts) == 0 || len(s.keys) == 0 {
		return ret
	}

	maxGoRoutines := runtime.NumCPU() * 3
	if maxGoRoutines <= 0 {
		maxGoRoutines = 1
	}
	if maxGoRoutines > len(receipts) {
		maxGoRoutines = len(receipts)
	}

	workChan := make(chan *scanWork)
	resultChan := make(chan *ScanMatch)
	for i := 0; i < maxGoRoutines; i++ {
		go s.scanHandler(workChan, resultChan)
	}

	go func() {
		for i, r := range receipts {
			workChan <- &scanWork{
				merkleNote: &r.MerkleNote,
				position:   firstPosition + uint64(i),
			}
		}
		close(workChan)
	}()

	for range receipts {
		if match := <-resultChan; match != nil {
			ret[match.Note.Commitment()] = match
		}
	}
	return ret
}

// scanHandler sends exactly one result per work item.
func (s *NoteScanner) scanHandler(workChan <-chan *scanWork, resultChan chan<- *ScanMatch) {
	for w := range workChan {
		var match *ScanMatch
		for _, k := range s.keys {
			note, err := w.merkleNote.DecryptNoteForOwner(k.ivk)
			if err == nil {
				match = &ScanMatch{
					Key:      k.sk,
					Note:     note,
					Position: w.position,
				}
				break
			}
		}
		resultChan <- match
	}
}
