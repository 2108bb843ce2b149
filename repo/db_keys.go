// Copyright (c) 2024 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

const (
	// NullifierKeyPrefix is the datastore key prefix for storing nullifiers in the nullifier set.
	NullifierKeyPrefix = "/shielded/nullifier/"
	// TxoRootKeyPrefix is the datastore key prefix for storing a note tree root in the database.
	TxoRootKeyPrefix = "/shielded/txoroot/"
	// NoteTreeNodeKeyPrefix is the datastore key prefix for the nodes of the note commitment tree.
	NoteTreeNodeKeyPrefix = "/shielded/notetree/node/"
	// NoteTreeSizeKey is the datastore key for the number of leaves in the note commitment tree.
	NoteTreeSizeKey = "/shielded/notetree/size/"
)
