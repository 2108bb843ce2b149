// Copyright (c) 2022 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/project-illium/shielded/params/hash"
)

var ErrIDStrSize = fmt.Errorf("max ID string length is %v bytes", hash.HashSize*2)

// ID identifies a bundle or a serialized proof by its hash.
type ID [hash.HashSize]byte

// Compare returns 1 if id > target, -1 if id < target and
// 0 if id == target.
func (id ID) Compare(target ID) int {
	return bytes.Compare(id[:], target[:])
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

func (id ID) Bytes() []byte {
	return id[:]
}

func (id *ID) SetBytes(data []byte) {
	copy(id[:], data)
}

func NewIDFromString(id string) (ID, error) {
	// Return error if hash string is too long.
	if len(id) > hash.HashSize*2 {
		return ID{}, ErrIDStrSize
	}
	ret, err := hex.DecodeString(id)
	if err != nil {
		return ID{}, err
	}
	var newID ID
	newID.SetBytes(ret)
	return newID, nil
}

// NewIDFromData hashes data into an ID.
func NewIDFromData(data []byte) ID {
	var id ID
	id.SetBytes(hash.HashFunc(data))
	return id
}
