// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/project-illium/shielded/types"
)

// BundleIDSorter implements sort.Interface to allow a slice of bundle
// ids to be sorted lexicographically.
type BundleIDSorter []types.ID

// Len returns the number of ids in the slice. It is part of the
// sort.Interface implementation.
func (s BundleIDSorter) Len() int {
	return len(s)
}

// Swap swaps the ids at the passed indices. It is part of the
// sort.Interface implementation.
func (s BundleIDSorter) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Less returns whether the id with index i should sort before the id with
// index j. It is part of the sort.Interface implementation.
func (s BundleIDSorter) Less(i, j int) bool {
	return s[i].Compare(s[j]) < 0
}
