// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

const (
	// PointSize is the size of a compressed jubjub point.
	PointSize = 32

	// ScalarSize is the size of an encoded jubjub scalar.
	ScalarSize = 32

	// wideScalarSize is the number of random bytes reduced into a scalar.
	wideScalarSize = 64
)

var (
	// ErrInvalidPoint is returned when bytes do not decode to a canonical
	// point on the curve.
	ErrInvalidPoint = errors.New("invalid jubjub point encoding")

	// ErrInvalidScalar is returned when bytes do not decode to a canonical
	// scalar.
	ErrInvalidScalar = errors.New("invalid jubjub scalar encoding")
)

// Point is an affine point on the jubjub curve.
type Point = twistededwards.PointAffine

var curve = twistededwards.GetEdwardsCurve()

// Order returns the order of the prime order subgroup.
func Order() *big.Int {
	return new(big.Int).Set(&curve.Order)
}

// Identity returns the neutral element (0, 1).
func Identity() Point {
	var p Point
	p.X.SetZero()
	p.Y.SetOne()
	return p
}

// EncodePoint returns the compressed encoding of p.
func EncodePoint(p *Point) [PointSize]byte {
	return p.Bytes()
}

// DecodePoint parses a compressed point. It fails if the y coordinate is
// not canonical, if no x exists for it, or if the sign bit is set for
// x = 0. Every accepted encoding is the unique encoding of its point.
func DecodePoint(b []byte) (Point, error) {
	var p Point
	if len(b) != PointSize {
		return Point{}, ErrInvalidPoint
	}
	if _, err := p.SetBytes(b); err != nil {
		return Point{}, ErrInvalidPoint
	}
	if !p.IsOnCurve() {
		return Point{}, ErrInvalidPoint
	}
	enc := p.Bytes()
	if !bytes.Equal(enc[:], b) {
		return Point{}, ErrInvalidPoint
	}
	return p, nil
}

// IsSmallOrder returns true if [8]p is the identity. This covers the
// identity itself and every point whose order divides the cofactor.
func IsSmallOrder(p *Point) bool {
	q := ClearCofactor(p)
	return q.IsZero()
}

// ClearCofactor returns [8]p.
func ClearCofactor(p *Point) Point {
	var q Point
	q.Double(p)
	q.Double(&q)
	q.Double(&q)
	return q
}

// ScalarMul returns [s]p.
func ScalarMul(p *Point, s *big.Int) Point {
	var q Point
	q.ScalarMultiplication(p, s)
	return q
}

// AddPoints returns a + b.
func AddPoints(a, b *Point) Point {
	var q Point
	q.Add(a, b)
	return q
}

// SubPoints returns a - b.
func SubPoints(a, b *Point) Point {
	var neg, q Point
	neg.Neg(b)
	q.Add(a, &neg)
	return q
}

// RandomScalar returns a uniformly distributed scalar. 64 bytes are drawn
// and reduced modulo the subgroup order so the bias is negligible.
func RandomScalar() (*big.Int, error) {
	return RandomScalarFrom(rand.Reader)
}

// RandomScalarFrom is RandomScalar with an explicit source of randomness.
func RandomScalarFrom(r io.Reader) (*big.Int, error) {
	var wide [wideScalarSize]byte
	if _, err := io.ReadFull(r, wide[:]); err != nil {
		return nil, err
	}
	return ScalarFromWideBytes(wide[:]), nil
}

// ScalarFromWideBytes interprets b as a big-endian integer and reduces it
// modulo the subgroup order.
func ScalarFromWideBytes(b []byte) *big.Int {
	s := new(big.Int).SetBytes(b)
	return s.Mod(s, &curve.Order)
}

// EncodeScalar returns the 32-byte big-endian encoding of s.
func EncodeScalar(s *big.Int) [ScalarSize]byte {
	var out [ScalarSize]byte
	s.FillBytes(out[:])
	return out
}

// DecodeScalar parses a big-endian scalar that must be below the subgroup
// order.
func DecodeScalar(b []byte) (*big.Int, error) {
	if len(b) != ScalarSize {
		return nil, ErrInvalidScalar
	}
	s := new(big.Int).SetBytes(b)
	if s.Cmp(&curve.Order) >= 0 {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

// FieldToBig returns e as an integer.
func FieldToBig(e *fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}

// DecodeFieldElement parses a canonical big-endian field element.
func DecodeFieldElement(b []byte) (fr.Element, error) {
	var e fr.Element
	if len(b) != fr.Bytes {
		return e, ErrInvalidScalar
	}
	if err := e.SetBytesCanonical(b); err != nil {
		return fr.Element{}, ErrInvalidScalar
	}
	return e, nil
}
