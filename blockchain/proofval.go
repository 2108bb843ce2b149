// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"
	"runtime"

	"github.com/project-illium/shielded/types"
	"github.com/project-illium/shielded/zk"
)

// ValidateBundleProofs validates the proofs of a single bundle.
// proofCache must not be nil. The validator will check whether each proof
// already exists in the cache. If it does the proof will be assumed to be
// valid. If not it will validate the proof and add it to the cache if
// valid.
func ValidateBundleProofs(bundle *Bundle, verifier zk.Verifier, proofCache *ProofCache, roots zk.RootSet, nullifiers zk.NullifierChecker) <-chan error {
	errChan := make(chan error)
	go func() {
		validator := NewProofValidator(verifier, proofCache, roots, nullifiers)
		errChan <- validator.Validate([]*Bundle{bundle})
		close(errChan)
	}()
	return errChan
}

// proofJob is one proof to check. spend is set when the proof also needs
// its anchor and nullifier checked against state.
type proofJob struct {
	proof zk.Proof
	spend *zk.SpendProof
}

// proofValidator is used to validate bundle proofs in parallel.
type proofValidator struct {
	verifier   zk.Verifier
	proofCache *ProofCache
	roots      zk.RootSet
	nullifiers zk.NullifierChecker
	workChan   chan proofJob
	resultChan chan error
	done       chan struct{}
}

// NewProofValidator returns a new proof validator. A validator is good
// for one call to Validate. None of the arguments may be nil.
func NewProofValidator(verifier zk.Verifier, proofCache *ProofCache, roots zk.RootSet, nullifiers zk.NullifierChecker) *proofValidator {
	return &proofValidator{
		verifier:   verifier,
		proofCache: proofCache,
		roots:      roots,
		nullifiers: nullifiers,
		workChan:   make(chan proofJob),
		resultChan: make(chan error),
		done:       make(chan struct{}),
	}
}

// Validate validates the bundles' proofs in parallel. If a proof already
// exists in the proofCache, its verification will be skipped. If a proof
// is valid and does not exist in the cache, it will be added to the
// cache. Spends additionally have their anchor and nullifier checked,
// cached or not.
//
// No nullifier may appear twice across the bundles.
func (p *proofValidator) Validate(bundles []*Bundle) error {
	defer close(p.done)

	var jobs []proofJob
	seen := make(map[types.Nullifier]struct{})
	for _, b := range bundles {
		if err := CheckBundleSanity(b); err != nil {
			return err
		}
		for _, sp := range b.Spends {
			if _, ok := seen[sp.Nullifier]; ok {
				return ruleError(ErrDuplicateNullifier, "nullifier "+sp.Nullifier.String()+" is spent by more than one bundle")
			}
			seen[sp.Nullifier] = struct{}{}
			jobs = append(jobs, proofJob{proof: sp, spend: sp})
		}
		for _, r := range b.Receipts {
			jobs = append(jobs, proofJob{proof: r})
		}
	}

	if len(jobs) == 0 {
		return nil
	}

	maxGoRoutines := runtime.NumCPU() * 3
	if maxGoRoutines <= 0 {
		maxGoRoutines = 1
	}
	if maxGoRoutines > len(jobs) {
		maxGoRoutines = len(jobs)
	}

	for i := 0; i < maxGoRoutines; i++ {
		go p.validateHandler()
	}

	go func() {
		for _, job := range jobs {
			select {
			case p.workChan <- job:
			case <-p.done:
				return
			}
		}
	}()

	for i := 0; i < len(jobs); i++ {
		err := <-p.resultChan
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *proofValidator) validateHandler() {
	for {
		select {
		case job := <-p.workChan:
			err := p.validate(job)
			select {
			case p.resultChan <- err:
			case <-p.done:
				return
			}
		case <-p.done:
			return
		}
	}
}

func (p *proofValidator) validate(job proofJob) error {
	ser := job.proof.Bytes()
	proofHash := types.NewIDFromData(ser)
	if !p.proofCache.Exists(proofHash, ser) {
		if err := p.verifier.VerifyProof(job.proof); err != nil {
			if errors.Is(err, zk.ErrVerificationFailed) {
				return ruleError(ErrInvalidProof, "invalid zk-snark proof")
			}
			return err
		}
		p.proofCache.Add(proofHash, ser)
	}
	if job.spend == nil {
		return nil
	}

	exists, err := p.roots.Exists(job.spend.Anchor)
	if err != nil {
		return err
	}
	if !exists {
		return ruleError(ErrInvalidAnchor, "spend anchor is not a note tree root")
	}
	spent, err := p.nullifiers.NullifierExists(job.spend.Nullifier)
	if err != nil {
		return err
	}
	if spent {
		return ruleError(ErrDoubleSpend, "nullifier "+job.spend.Nullifier.String()+" is already spent")
	}
	return nil
}
