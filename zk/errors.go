// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"errors"
	"fmt"
)

var (
	// ErrVerificationFailed is returned for every rejected proof. Small
	// order points, mismatched public inputs and a failed pairing check
	// are deliberately indistinguishable.
	ErrVerificationFailed = errors.New("proof verification failed")

	// ErrMalformedProof is returned when serialized proof bytes cannot be
	// parsed.
	ErrMalformedProof = errors.New("malformed proof")

	// ErrUnknownAnchor is returned when a spend proof commits to a root
	// that is not in the valid root set.
	ErrUnknownAnchor = errors.New("spend anchor is not a known root")

	// ErrNullifierSpent is returned when a spend proof reveals a
	// nullifier that has already been seen.
	ErrNullifierSpent = errors.New("nullifier already spent")
)

// InitError is returned when the parameter bundle cannot be loaded. The
// node cannot prove or verify anything without parameters so callers are
// expected to treat it as fatal.
type InitError struct {
	Circuit string
	Err     error
}

func (e *InitError) Error() string {
	if e.Circuit == "" {
		return fmt.Sprintf("loading zk parameters: %s", e.Err)
	}
	return fmt.Sprintf("loading %s parameters: %s", e.Circuit, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ProofConstructionError is returned when a proof cannot be built, most
// commonly because the witness does not satisfy the circuit.
type ProofConstructionError struct {
	Circuit string
	Err     error
}

func (e *ProofConstructionError) Error() string {
	return fmt.Sprintf("constructing %s proof: %s", e.Circuit, e.Err)
}

func (e *ProofConstructionError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedProof, fmt.Sprintf(format, args...))
}
