// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
)

// FactorInstancesCache - unused instances per factor source per path
type FactorInstancesCache struct {
	sync.RWMutex
	storage Snapshot
	log     *logger.L
}

// New - empty cache
func New() *FactorInstancesCache {
	return &FactorInstancesCache{
		storage: make(Snapshot),
		log:     logger.New("cache"),
	}
}

// NewWithStorage - cache holding the snapshot's instances
//
// every instance must belong to the source and path it is keyed by
// and no derivation path may appear twice
func NewWithStorage(snapshot Snapshot) (*FactorInstancesCache, error) {
	c := New()
	for id, paths := range snapshot {
		for path, instances := range paths {
			for _, i := range instances {
				if i.AgnosticPath() != path {
					return nil, fault.ErrSnapshotInvalid
				}
			}
			if _, err := c.insertForFactor(id, instances); nil != err {
				return nil, err
			}
		}
	}
	return c, nil
}

// InsertForFactor - add instances of one factor source
//
// fails without changing the cache if any instance belongs to
// another source or any derivation path is already cached; the
// result is true if the lowest new index of some path does not
// follow the highest cached one
func (c *FactorInstancesCache) InsertForFactor(id factor.SourceID, instances factor.Instances) (bool, error) {
	c.Lock()
	defer c.Unlock()

	return c.insertForFactor(id, instances)
}

func (c *FactorInstancesCache) insertForFactor(id factor.SourceID, instances factor.Instances) (bool, error) {
	for _, i := range instances {
		if i.SourceID != id {
			return false, fault.ErrFactorSourceIDMismatch
		}
	}
	if 0 == len(instances) {
		return false, nil
	}

	groups := instances.GroupByAgnosticPath()
	existing := c.storage[id]

	// check everything before changing anything
	for path, group := range groups {
		seen := make(map[derivation.DerivationPath]struct{}, len(existing[path])+len(group))
		for _, i := range existing[path] {
			seen[i.DerivationPath] = struct{}{}
		}
		for _, i := range group {
			if _, ok := seen[i.DerivationPath]; ok {
				c.log.Errorf("%s already cached for: %s", i.DerivationPath, id)
				return false, fault.ErrCacheAlreadyContainsFactorInstance
			}
			seen[i.DerivationPath] = struct{}{}
		}
	}

	if nil == existing {
		existing = make(map[derivation.IndexAgnosticPath]factor.Instances)
		c.storage[id] = existing
	}

	skipped := false
	for _, path := range sortedPaths(groups) {
		group := groups[path].Clone()
		group.Sort()

		present := existing[path]
		if max, ok := present.MaxIndex(); ok {
			next, err := max.CheckedAddOneToGlobal()
			if nil != err || next != group[0].Index() {
				c.log.Warnf("non contiguous insert for: %s  path: %s  cached max: %s  first new: %s", id, path, max, group[0].Index())
				skipped = true
			}
		}

		merged := make(factor.Instances, 0, len(present)+len(group))
		merged = append(merged, present...)
		merged = append(merged, group...)
		merged.Sort()
		existing[path] = merged
	}
	c.log.Debugf("inserted: %d instances for: %s", len(instances), id)
	return skipped, nil
}

// Insert - add instances for several presets and factor sources
//
// stops at the first error; earlier insertions are kept
func (c *FactorInstancesCache) Insert(perPreset InstancesPerPresetPerFactor) error {
	c.Lock()
	defer c.Unlock()

	for _, preset := range derivation.AllDerivationPresets() {
		perFactor, ok := perPreset[preset]
		if !ok {
			continue
		}
		for _, id := range perFactor.SourceIDs() {
			if _, err := c.insertForFactor(id, perFactor[id]); nil != err {
				return err
			}
		}
	}
	return nil
}

// Delete - remove exactly the given instances
//
// every instance must be cached and listed once, anything else means
// the caller's view of the cache has diverged and is an invariant
// violation
func (c *FactorInstancesCache) Delete(perPreset InstancesPerPresetPerFactor) {
	c.Lock()
	defer c.Unlock()

	type key struct {
		id   factor.SourceID
		path derivation.IndexAgnosticPath
	}
	removals := make(map[key]factor.Instances)
	listed := make(map[key]map[derivation.DerivationPath]struct{})

	for _, preset := range derivation.AllDerivationPresets() {
		perFactor := perPreset[preset]
		for _, id := range perFactor.SourceIDs() {
			for path, group := range perFactor[id].GroupByAgnosticPath() {
				k := key{id: id, path: path}
				if nil == listed[k] {
					listed[k] = make(map[derivation.DerivationPath]struct{})
				}
				for _, i := range group {
					if _, ok := listed[k][i.DerivationPath]; ok {
						fault.Panicf("cache delete: %s for: %s  listed more than once", i.DerivationPath, id)
					}
					listed[k][i.DerivationPath] = struct{}{}
				}
				removals[k] = append(removals[k], group...)
			}
		}
	}

	for k, remove := range removals {
		if !c.storage[k.id][k.path].IsSupersetOf(remove) {
			fault.Panicf("cache delete: instances for: %s  path: %s  are not all cached", k.id, k.path)
		}
	}

	n := 0
	for k, remove := range removals {
		c.storage[k.id][k.path] = c.storage[k.id][k.path].Subtracting(remove)
		n += len(remove)
	}
	c.prune()
	c.log.Debugf("deleted: %d instances", n)
}

// Prune - drop empty sets and empty factor source entries
func (c *FactorInstancesCache) Prune() {
	c.Lock()
	defer c.Unlock()

	c.prune()
}

func (c *FactorInstancesCache) prune() {
	for id, paths := range c.storage {
		for path, instances := range paths {
			if 0 == len(instances) {
				delete(paths, path)
			}
		}
		if 0 == len(paths) {
			delete(c.storage, id)
		}
	}
}

// MaxIndexFor - highest cached index for a factor source and path
func (c *FactorInstancesCache) MaxIndexFor(id factor.SourceID, path derivation.IndexAgnosticPath) (derivation.HDPathComponent, bool) {
	c.RLock()
	defer c.RUnlock()

	return c.storage[id][path].MaxIndex()
}

// GetMonoFactor - copy of the instances cached for a factor source
// and path, false if there are none
func (c *FactorInstancesCache) GetMonoFactor(id factor.SourceID, path derivation.IndexAgnosticPath) (factor.Instances, bool) {
	c.RLock()
	defer c.RUnlock()

	instances := c.storage[id][path]
	if 0 == len(instances) {
		return nil, false
	}
	return instances.Clone(), true
}

// PeekAllInstancesOfFactorSource - copy of everything cached for a
// factor source, false if there is nothing
func (c *FactorInstancesCache) PeekAllInstancesOfFactorSource(id factor.SourceID) (map[derivation.IndexAgnosticPath]factor.Instances, bool) {
	c.RLock()
	defer c.RUnlock()

	paths, ok := c.storage[id]
	if !ok {
		return nil, false
	}
	result := make(map[derivation.IndexAgnosticPath]factor.Instances, len(paths))
	for path, instances := range paths {
		result[path] = instances.Clone()
	}
	return result, true
}

// TotalNumberOfFactorInstances - count of every cached instance
func (c *FactorInstancesCache) TotalNumberOfFactorInstances() int {
	c.RLock()
	defer c.RUnlock()

	n := 0
	for _, paths := range c.storage {
		for _, instances := range paths {
			n += len(instances)
		}
	}
	return n
}

// IsEmpty - true if nothing is cached
func (c *FactorInstancesCache) IsEmpty() bool {
	return 0 == c.TotalNumberOfFactorInstances()
}

func sortedPaths(groups map[derivation.IndexAgnosticPath]factor.Instances) []derivation.IndexAgnosticPath {
	paths := make([]derivation.IndexAgnosticPath, 0, len(groups))
	for path := range groups {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(a, b int) bool {
		return paths[a].Less(paths[b])
	})
	return paths
}
