// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	a := Amount(230584300921369395)
	assert.Equal(t, []byte{0x03, 0x33, 0x33, 0x33, 0x33, 0x33, 0x33, 0x33}, a.ToBytes())
	assert.Equal(t, uint64(a), a.BigInt().Uint64())

	f := a.Field()
	assert.Equal(t, uint64(a), f.Uint64())

	max := Amount(math.MaxUint64)
	assert.Equal(t, uint64(math.MaxUint64), max.BigInt().Uint64())
}
