// Copyright (c) 2022 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package params

const (
	// TreeDepth is the depth of the note commitment tree. The spend
	// circuit is compiled for exactly this many authentication levels.
	TreeDepth = 32

	// MemoSize is the size of the opaque memo carried by every note.
	MemoSize = 32

	// DiversifierSize is the size of an address diversifier.
	DiversifierSize = 11

	// AssetIdentifierSize is the size of an asset identifier.
	AssetIdentifierSize = 32

	// SpendingKeySize is the size of the secret seed a spending key is
	// expanded from.
	SpendingKeySize = 32
)

// Domain separation tags. The blake2s personalizations are used for
// group hashing and key derivation, the small integers are absorbed
// as the first MiMC input.
const (
	PersonalizationValueCommitment = "shielded_cv"
	PersonalizationNullifierKey    = "shielded_nk"
	PersonalizationSpendAuth       = "shielded_ak"
	PersonalizationDiversifier     = "shielded_gd"
	PersonalizationAssetID         = "shielded_asset_id"
	PersonalizationKeyExpansion    = "shielded_expand"
	PersonalizationNoteKDF         = "shielded_kdf"
	PersonalizationOutgoingKDF     = "shielded_ock"

	DomainNoteCommitment = 1
	DomainNullifier      = 2
	DomainIvk            = 3
	DomainAssetGenerator = 4
	DomainMerkle         = 1 << 16
)

const (
	// SpendParamsFilename and OutputParamsFilename are the parameter
	// file names inside a parameters directory.
	SpendParamsFilename  = "spend.params"
	OutputParamsFilename = "output.params"
)
