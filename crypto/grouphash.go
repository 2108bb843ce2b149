// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/params/hash"
)

// ErrNoGroupHash is returned when a message does not hash to a point of
// the prime order subgroup. Callers either retry with a different message
// or surface the error.
var ErrNoGroupHash = errors.New("message does not hash to a subgroup point")

// Fixed generators of the prime order subgroup. None of them has a known
// discrete log relative to the others.
var (
	// ValueCommitmentRandomnessBase blinds value commitments.
	ValueCommitmentRandomnessBase = mustFindGroupHash(params.PersonalizationValueCommitment, []byte("r"))

	// NullifierKeyBase derives the nullifier deriving key from nsk.
	NullifierKeyBase = mustFindGroupHash(params.PersonalizationNullifierKey, []byte("nk"))

	// SpendAuthBase derives the spend authorizing key from ask.
	SpendAuthBase = mustFindGroupHash(params.PersonalizationSpendAuth, []byte("ak"))
)

// GroupHash interprets the personalized hash of msg as a compressed point
// and clears its cofactor. The result is never the identity.
func GroupHash(personalization string, msg []byte) (Point, error) {
	h := hash.PersonalizedHash(personalization, msg)
	p, err := DecodePoint(h)
	if err != nil {
		return Point{}, ErrNoGroupHash
	}
	q := ClearCofactor(&p)
	if q.IsZero() {
		return Point{}, ErrNoGroupHash
	}
	return q, nil
}

// FindGroupHash appends an incrementing one byte counter to msg until the
// group hash succeeds.
func FindGroupHash(personalization string, msg []byte) (Point, error) {
	buf := make([]byte, len(msg)+1)
	copy(buf, msg)
	for i := 0; i < 256; i++ {
		buf[len(msg)] = byte(i)
		p, err := GroupHash(personalization, buf)
		if err == nil {
			return p, nil
		}
	}
	return Point{}, fmt.Errorf("%w: %s", ErrNoGroupHash, personalization)
}

func mustFindGroupHash(personalization string, msg []byte) Point {
	p, err := FindGroupHash(personalization, msg)
	if err != nil {
		panic(err)
	}
	return p
}

// MiMCGroupHashHint is what a circuit needs to recompute a MiMC group
// hash: the counter that succeeded and the x coordinate of the point
// before its cofactor was cleared.
type MiMCGroupHashHint struct {
	Counter uint64
	X       fr.Element
}

// maxMiMCGroupHashCounter bounds the search. Each counter succeeds with
// probability close to one half.
const maxMiMCGroupHashCounter = 256

// MiMCGroupHash maps the inputs to a point of the prime order subgroup
// with an arithmetic hash so the map can be checked inside a circuit.
// For counter = 0, 1, ... it takes y = MiMC(domain, inputs..., counter),
// solves the curve equation for x, keeps the root with x <= (q-1)/2 and
// returns [8](x, y) once that is not the identity.
func MiMCGroupHash(domain uint64, inputs ...fr.Element) (Point, MiMCGroupHashHint, error) {
	elems := make([]fr.Element, 0, len(inputs)+2)
	elems = append(elems, FieldFromUint64(domain))
	elems = append(elems, inputs...)
	elems = append(elems, fr.Element{})

	for ctr := uint64(0); ctr < maxMiMCGroupHashCounter; ctr++ {
		elems[len(elems)-1] = FieldFromUint64(ctr)
		y := MiMC(elems...)
		x, ok := recoverX(&y)
		if !ok {
			continue
		}
		p := Point{X: x, Y: y}
		q := ClearCofactor(&p)
		if q.IsZero() {
			continue
		}
		return q, MiMCGroupHashHint{Counter: ctr, X: x}, nil
	}
	return Point{}, MiMCGroupHashHint{}, fmt.Errorf("%w: domain %d", ErrNoGroupHash, domain)
}

// recoverX solves a*x^2 + y^2 = 1 + d*x^2*y^2 for the root x <= (q-1)/2.
func recoverX(y *fr.Element) (fr.Element, bool) {
	var y2, num, den, x2, x fr.Element
	y2.Square(y)
	num.SetOne()
	num.Sub(&num, &y2)
	den.Mul(&curve.D, &y2)
	den.Sub(&curve.A, &den)
	if den.IsZero() {
		return fr.Element{}, false
	}
	den.Inverse(&den)
	x2.Mul(&num, &den)
	if x.Sqrt(&x2) == nil {
		return fr.Element{}, false
	}
	if x.LexicographicallyLargest() {
		x.Neg(&x)
	}
	return x, true
}
