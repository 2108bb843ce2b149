// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"io"
	"sync"
)

// Proof is a posted note proof.
type Proof interface {
	// Verify checks the proof against its public data. It returns nil or
	// ErrVerificationFailed.
	Verify(params *Parameters) error

	// Write writes the wire encoding of the proof.
	Write(w io.Writer) error

	// Bytes returns the wire encoding of the proof.
	Bytes() []byte
}

var (
	_ Proof = (*ReceiptProof)(nil)
	_ Proof = (*SpendProof)(nil)
)

// Verifier is an interface to proof verification.
type Verifier interface {
	// VerifyProof returns nil if the proof is valid.
	VerifyProof(proof Proof) error
}

// VerifyProof verifies proof against the parameters. It makes
// *Parameters a Verifier.
func (p *Parameters) VerifyProof(proof Proof) error {
	return proof.Verify(p)
}

// MockVerifier does not validate the proof at all and just
// returns the configured result instead.
type MockVerifier struct {
	err error
	mtx sync.RWMutex
}

// VerifyProof returns the configured result.
func (m *MockVerifier) VerifyProof(proof Proof) error {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.err
}

// SetValid sets whether VerifyProof accepts proofs.
func (m *MockVerifier) SetValid(valid bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if valid {
		m.err = nil
	} else {
		m.err = ErrVerificationFailed
	}
}
