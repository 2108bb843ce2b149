// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// RandomSalt returns a uniformly random field element. It is used as the
// blinding factor of note commitments.
func RandomSalt() (fr.Element, error) {
	var salt fr.Element
	if _, err := salt.SetRandom(); err != nil {
		return fr.Element{}, err
	}
	return salt, nil
}
