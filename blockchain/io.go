// Copyright (c) 2022 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/ipfs/go-datastore"
	"github.com/project-illium/shielded/crypto"
	"github.com/project-illium/shielded/repo"
	"github.com/project-illium/shielded/types"
)

func dsNullifierExists(ds repo.Datastore, nullifier types.Nullifier) (bool, error) {
	return ds.Has(context.Background(), datastore.NewKey(repo.NullifierKeyPrefix+nullifier.String()))
}

func dsPutNullifiers(dbtx datastore.Txn, nullifiers []types.Nullifier) error {
	for _, n := range nullifiers {
		if err := dbtx.Put(context.Background(), datastore.NewKey(repo.NullifierKeyPrefix+n.String()), []byte{}); err != nil {
			return err
		}
	}
	return nil
}

func txoRootKey(txoRoot fr.Element) datastore.Key {
	b := txoRoot.Bytes()
	return datastore.NewKey(repo.TxoRootKeyPrefix + hex.EncodeToString(b[:]))
}

func dsPutTxoSetRoot(dbtx datastore.Txn, txoRoot fr.Element) error {
	return dbtx.Put(context.Background(), txoRootKey(txoRoot), []byte{})
}

func dsTxoSetRootExists(ds repo.Datastore, txoRoot fr.Element) (bool, error) {
	return ds.Has(context.Background(), txoRootKey(txoRoot))
}

func noteTreeNodeKey(level int, index uint64) datastore.Key {
	return datastore.NewKey(fmt.Sprintf("%s%d/%d", repo.NoteTreeNodeKeyPrefix, level, index))
}

// dsFetchNoteTreeNode returns the node and whether it has been written.
func dsFetchNoteTreeNode(ds datastore.Read, level int, index uint64) (fr.Element, bool, error) {
	b, err := ds.Get(context.Background(), noteTreeNodeKey(level, index))
	if errors.Is(err, datastore.ErrNotFound) {
		return fr.Element{}, false, nil
	} else if err != nil {
		return fr.Element{}, false, err
	}
	e, err := crypto.DecodeFieldElement(b)
	if err != nil {
		return fr.Element{}, false, err
	}
	return e, true, nil
}

func dsPutNoteTreeNode(dbtx datastore.Txn, level int, index uint64, node fr.Element) error {
	b := node.Bytes()
	return dbtx.Put(context.Background(), noteTreeNodeKey(level, index), b[:])
}

func dsFetchNoteTreeSize(ds repo.Datastore) (uint64, error) {
	b, err := ds.Get(context.Background(), datastore.NewKey(repo.NoteTreeSizeKey))
	if errors.Is(err, datastore.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	if len(b) != 8 {
		return 0, AssertError("note tree size entry is corrupt")
	}
	return binary.BigEndian.Uint64(b), nil
}

func dsPutNoteTreeSize(dbtx datastore.Txn, size uint64) error {
	return dbtx.Put(context.Background(), datastore.NewKey(repo.NoteTreeSizeKey), binary.BigEndian.AppendUint64(nil, size))
}
