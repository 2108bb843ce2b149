// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/params/hash"
)

// AssetType binds an asset to its value commitment generator. Two asset
// types are equal if and only if their identifiers are equal.
//
// The generator is an arithmetic group hash of the identifier so the
// circuits derive it themselves instead of trusting the prover with it.
type AssetType struct {
	identifier [params.AssetIdentifierSize]byte
	generator  crypto.Point
	hint       crypto.MiMCGroupHashHint
}

// NewAssetType derives the asset type for an asset name.
func NewAssetType(name []byte) (AssetType, error) {
	var id [params.AssetIdentifierSize]byte
	copy(id[:], hash.PersonalizedHash(params.PersonalizationAssetID, name))
	return NewAssetTypeFromIdentifier(id)
}

// NewAssetTypeFromIdentifier recomputes the generator for an identifier.
func NewAssetTypeFromIdentifier(id [params.AssetIdentifierSize]byte) (AssetType, error) {
	hi, lo := identifierLimbs(id)
	gen, hint, err := crypto.MiMCGroupHash(params.DomainAssetGenerator, hi, lo)
	if err != nil {
		return AssetType{}, fmt.Errorf("asset %x: %w", id, err)
	}
	return AssetType{identifier: id, generator: gen, hint: hint}, nil
}

func identifierLimbs(id [params.AssetIdentifierSize]byte) (hi fr.Element, lo fr.Element) {
	half := params.AssetIdentifierSize / 2
	return crypto.FieldFromBytes(id[:half]), crypto.FieldFromBytes(id[half:])
}

// IdentifierLimbs splits the identifier into two 16 byte big-endian field
// elements, the form the circuits hash it in.
func (a AssetType) IdentifierLimbs() (hi fr.Element, lo fr.Element) {
	return identifierLimbs(a.identifier)
}

// GeneratorHint returns the counter and x coordinate a circuit needs to
// recompute the generator from the identifier.
func (a AssetType) GeneratorHint() crypto.MiMCGroupHashHint {
	return a.hint
}

// Identifier returns the asset identifier.
func (a AssetType) Identifier() [params.AssetIdentifierSize]byte {
	return a.identifier
}

// Generator returns the asset's value commitment generator.
func (a AssetType) Generator() crypto.Point {
	return a.generator
}

// Equal returns whether both asset types are the same.
func (a AssetType) Equal(b AssetType) bool {
	return a.identifier == b.identifier
}

func (a AssetType) String() string {
	return hex.EncodeToString(a.identifier[:])
}

// ValueCommitment returns the commitment to value under this asset blinded
// by randomness.
func (a AssetType) ValueCommitment(value Amount, randomness *big.Int) ValueCommitment {
	return ValueCommitment{
		Value:          value,
		Randomness:     new(big.Int).Set(randomness),
		AssetGenerator: a.generator,
	}
}
