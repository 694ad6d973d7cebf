// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factor

import (
	"sort"

	"github.com/bitmark-inc/walletbrain/derivation"
)

// Instances - an ordered set of instances
type Instances []Instance

// Clone - independent copy, nil stays nil
func (is Instances) Clone() Instances {
	if nil == is {
		return nil
	}
	c := make(Instances, len(is))
	copy(c, is)
	return c
}

// Sort - ascending by path then by global index, in place
func (is Instances) Sort() {
	sort.SliceStable(is, func(a, b int) bool {
		pa, pb := is[a].AgnosticPath(), is[b].AgnosticPath()
		if pa != pb {
			return pa.Less(pb)
		}
		return is[a].Index().Compare(is[b].Index()) < 0
	})
}

// Contains - true if an equal instance is present
func (is Instances) Contains(instance Instance) bool {
	for _, i := range is {
		if i == instance {
			return true
		}
	}
	return false
}

// ContainsDerivationPath - true if any instance is at the path
func (is Instances) ContainsDerivationPath(path derivation.DerivationPath) bool {
	for _, i := range is {
		if i.DerivationPath == path {
			return true
		}
	}
	return false
}

// IsSupersetOf - every instance of other is in is
func (is Instances) IsSupersetOf(other Instances) bool {
	set := is.set()
	for _, i := range other {
		if _, ok := set[i]; !ok {
			return false
		}
	}
	return true
}

// Subtracting - is without the instances of other, order kept
func (is Instances) Subtracting(other Instances) Instances {
	remove := other.set()
	result := make(Instances, 0, len(is))
	for _, i := range is {
		if _, ok := remove[i]; !ok {
			result = append(result, i)
		}
	}
	return result
}

// GroupByAgnosticPath - split by index agnostic path, order kept
func (is Instances) GroupByAgnosticPath() map[derivation.IndexAgnosticPath]Instances {
	groups := make(map[derivation.IndexAgnosticPath]Instances)
	for _, i := range is {
		p := i.AgnosticPath()
		groups[p] = append(groups[p], i)
	}
	return groups
}

// MaxIndex - highest index by global key space value
func (is Instances) MaxIndex() (derivation.HDPathComponent, bool) {
	max := derivation.HDPathComponent{}
	found := false
	for _, i := range is {
		max, found = derivation.MaxComponent(max, found, i.Index(), true)
	}
	return max, found
}

// FirstIndex - index of the first instance
func (is Instances) FirstIndex() (derivation.HDPathComponent, bool) {
	if 0 == len(is) {
		return derivation.HDPathComponent{}, false
	}
	return is[0].Index(), true
}

// IsContiguous - ascending global indices with no gaps
//
// only meaningful for instances sharing one agnostic path
func (is Instances) IsContiguous() bool {
	for n := 1; n < len(is); n += 1 {
		next, err := is[n-1].Index().CheckedAddOneToGlobal()
		if nil != err || next != is[n].Index() {
			return false
		}
	}
	return true
}

// HDPublicKeys - instances without source ids
func (is Instances) HDPublicKeys() []HDPublicKey {
	keys := make([]HDPublicKey, len(is))
	for n, i := range is {
		keys[n] = i.HDPublicKey()
	}
	return keys
}

func (is Instances) set() map[Instance]struct{} {
	s := make(map[Instance]struct{}, len(is))
	for _, i := range is {
		s[i] = struct{}{}
	}
	return s
}

// SortSourceIDs - ascending order, in place
func SortSourceIDs(ids []SourceID) {
	sort.Slice(ids, func(a, b int) bool {
		return ids[a].Compare(ids[b]) < 0
	})
}

// InstancesPerSource - instances grouped by their factor source
type InstancesPerSource map[SourceID]Instances

// SourceIDs - the keys in ascending order
func (m InstancesPerSource) SourceIDs() []SourceID {
	ids := make([]SourceID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	SortSourceIDs(ids)
	return ids
}
