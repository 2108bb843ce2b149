// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	chacha "github.com/nixberg/chacha-rng-go"
	"github.com/project-illium/shielded/params"
	"golang.org/x/crypto/blake2b"
)

const (
	// IvkBits is the bit length incoming viewing keys are truncated to.
	IvkBits = 251

	// PublicAddressSize is the size of a serialized PublicAddress.
	PublicAddressSize = params.DiversifierSize + PointSize

	maxDiversifierAttempts = 64
)

var (
	// ErrInvalidAddress is returned when a serialized address does not
	// decode to a usable address.
	ErrInvalidAddress = errors.New("invalid public address")

	// ErrNoDiversifier is returned when no valid diversifier could be
	// found. The odds of this are about 2^-64.
	ErrNoDiversifier = errors.New("unable to find a valid diversifier")
)

// SpendingKey holds the secret seed of an account together with every key
// expanded from it.
type SpendingKey struct {
	seed [params.SpendingKeySize]byte

	ask *big.Int
	nsk *big.Int
	ovk [32]byte

	ak  Point
	nk  Point
	ivk *big.Int
}

// GenerateSpendingKey returns a new spending key from a random seed.
func GenerateSpendingKey() (*SpendingKey, error) {
	var seed [params.SpendingKeySize]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return nil, err
	}
	return NewSpendingKey(seed), nil
}

// NewSpendingKeyFromSeed deterministically derives the spending key for
// an account index from a wallet seed.
func NewSpendingKeyFromSeed(seed [32]byte, account uint64) *SpendingKey {
	var s [8]uint32
	for i := 0; i < 8; i++ {
		s[i] = binary.LittleEndian.Uint32(seed[i*4 : (i+1)*4])
	}
	rng := chacha.Seeded20(s, account)

	var keySeed [params.SpendingKeySize]byte
	for i := 0; i < len(keySeed); i += 8 {
		binary.LittleEndian.PutUint64(keySeed[i:], rng.Uint64())
	}
	return NewSpendingKey(keySeed)
}

// NewSpendingKey expands a secret seed into a spending key.
func NewSpendingKey(seed [params.SpendingKeySize]byte) *SpendingKey {
	sk := &SpendingKey{seed: seed}

	askWide := expandSeed(seed, 0)
	nskWide := expandSeed(seed, 1)
	ovkWide := expandSeed(seed, 2)

	sk.ask = ScalarFromWideBytes(askWide[:])
	sk.nsk = ScalarFromWideBytes(nskWide[:])
	copy(sk.ovk[:], ovkWide[:32])

	sk.ak = ScalarMul(&SpendAuthBase, sk.ask)
	sk.nk = ScalarMul(&NullifierKeyBase, sk.nsk)
	sk.ivk = IncomingViewKey(&sk.ak, &sk.nk)
	return sk
}

func expandSeed(seed [params.SpendingKeySize]byte, domain byte) [64]byte {
	buf := make([]byte, 0, len(params.PersonalizationKeyExpansion)+len(seed)+1)
	buf = append(buf, params.PersonalizationKeyExpansion...)
	buf = append(buf, seed[:]...)
	buf = append(buf, domain)
	return blake2b.Sum512(buf)
}

// IncomingViewKey derives ivk from the authorizing and nullifier deriving
// keys. The MiMC output is truncated to IvkBits so it is a valid scalar.
func IncomingViewKey(ak, nk *Point) *big.Int {
	h := MiMC(FieldFromUint64(params.DomainIvk), ak.X, ak.Y, nk.X, nk.Y)
	ivk := FieldToBig(&h)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), IvkBits), big.NewInt(1))
	return ivk.And(ivk, mask)
}

// Seed returns the secret seed.
func (sk *SpendingKey) Seed() [params.SpendingKeySize]byte {
	return sk.seed
}

// AuthorizingKey returns ak.
func (sk *SpendingKey) AuthorizingKey() Point {
	return sk.ak
}

// NullifierSecretKey returns nsk.
func (sk *SpendingKey) NullifierSecretKey() *big.Int {
	return new(big.Int).Set(sk.nsk)
}

// NullifierDerivingKey returns nk.
func (sk *SpendingKey) NullifierDerivingKey() Point {
	return sk.nk
}

// IncomingViewKey returns ivk, the key used to detect and decrypt notes
// sent to this account.
func (sk *SpendingKey) IncomingViewKey() *big.Int {
	return new(big.Int).Set(sk.ivk)
}

// OutgoingViewKey returns ovk, the key used to recover notes this account
// sent to others.
func (sk *SpendingKey) OutgoingViewKey() [32]byte {
	return sk.ovk
}

// GenerateAddress returns an address with a random diversifier.
func (sk *SpendingKey) GenerateAddress() (*PublicAddress, error) {
	var d [params.DiversifierSize]byte
	for i := 0; i < maxDiversifierAttempts; i++ {
		if _, err := io.ReadFull(rand.Reader, d[:]); err != nil {
			return nil, err
		}
		addr, err := sk.Address(d)
		if errors.Is(err, ErrNoGroupHash) {
			continue
		} else if err != nil {
			return nil, err
		}
		return addr, nil
	}
	return nil, ErrNoDiversifier
}

// Address returns the address for the given diversifier. ErrNoGroupHash is
// returned if the diversifier is not valid.
func (sk *SpendingKey) Address(d [params.DiversifierSize]byte) (*PublicAddress, error) {
	gd, err := DiversifiedGenerator(d)
	if err != nil {
		return nil, err
	}
	return &PublicAddress{
		Diversifier:          d,
		DiversifiedGenerator: gd,
		TransmissionKey:      ScalarMul(&gd, sk.ivk),
	}, nil
}

// DiversifiedGenerator returns g_d for the diversifier.
func DiversifiedGenerator(d [params.DiversifierSize]byte) (Point, error) {
	return GroupHash(params.PersonalizationDiversifier, d[:])
}

// PublicAddress is the payment address notes are sent to.
type PublicAddress struct {
	Diversifier          [params.DiversifierSize]byte
	DiversifiedGenerator Point
	TransmissionKey      Point
}

// NewPublicAddress parses a serialized address, recomputing the
// diversified generator and rejecting small order transmission keys.
func NewPublicAddress(b []byte) (*PublicAddress, error) {
	if len(b) != PublicAddressSize {
		return nil, ErrInvalidAddress
	}
	var d [params.DiversifierSize]byte
	copy(d[:], b[:params.DiversifierSize])
	gd, err := DiversifiedGenerator(d)
	if err != nil {
		return nil, ErrInvalidAddress
	}
	pkd, err := DecodePoint(b[params.DiversifierSize:])
	if err != nil || IsSmallOrder(&pkd) {
		return nil, ErrInvalidAddress
	}
	return &PublicAddress{
		Diversifier:          d,
		DiversifiedGenerator: gd,
		TransmissionKey:      pkd,
	}, nil
}

// Bytes returns diversifier || pk_d.
func (a *PublicAddress) Bytes() []byte {
	b := make([]byte, 0, PublicAddressSize)
	b = append(b, a.Diversifier[:]...)
	pkd := a.TransmissionKey.Bytes()
	return append(b, pkd[:]...)
}

// Equal returns whether both addresses are the same.
func (a *PublicAddress) Equal(b *PublicAddress) bool {
	return a.Diversifier == b.Diversifier &&
		a.DiversifiedGenerator.Equal(&b.DiversifiedGenerator) &&
		a.TransmissionKey.Equal(&b.TransmissionKey)
}

// GenerateDiffieHellmanKeys returns a fresh ephemeral secret esk and the
// ephemeral public key epk = [esk]g_d.
func (a *PublicAddress) GenerateDiffieHellmanKeys() (*big.Int, Point, error) {
	esk, err := RandomScalar()
	if err != nil {
		return nil, Point{}, err
	}
	return esk, ScalarMul(&a.DiversifiedGenerator, esk), nil
}

// SharedSecret returns [secret]public. The sender computes it from esk and
// pk_d and the receiver from ivk and epk.
func SharedSecret(secret *big.Int, public *Point) Point {
	return ScalarMul(public, secret)
}
