// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"encoding/json"

	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
)

// Snapshot - the cache contents keyed by factor source then path
type Snapshot map[factor.SourceID]map[derivation.IndexAgnosticPath]factor.Instances

// Clone - deep copy
func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	for id, paths := range s {
		p := make(map[derivation.IndexAgnosticPath]factor.Instances, len(paths))
		for path, instances := range paths {
			p[path] = instances.Clone()
		}
		c[id] = p
	}
	return c
}

// Serializable - the persisted form, instances without source ids
func (s Snapshot) Serializable() SerializableSnapshot {
	result := make(SerializableSnapshot, len(s))
	for id, paths := range s {
		p := make(map[derivation.IndexAgnosticPath][]factor.HDPublicKey, len(paths))
		for path, instances := range paths {
			p[path] = instances.HDPublicKeys()
		}
		result[id] = p
	}
	return result
}

// SerializableSnapshot - persisted form of a snapshot
//
//   {"<kind>:<hex body>": {"1H/525H/1460H/H?": [{"publicKey":…,"derivationPath":…}]}}
type SerializableSnapshot map[factor.SourceID]map[derivation.IndexAgnosticPath][]factor.HDPublicKey

// Snapshot - restore source ids, every key must match its path
func (s SerializableSnapshot) Snapshot() (Snapshot, error) {
	result := make(Snapshot, len(s))
	for id, paths := range s {
		p := make(map[derivation.IndexAgnosticPath]factor.Instances, len(paths))
		for path, keys := range paths {
			instances := make(factor.Instances, 0, len(keys))
			for _, key := range keys {
				if key.DerivationPath.AgnosticPath() != path {
					return nil, fault.ErrSnapshotInvalid
				}
				instances = append(instances, factor.NewInstance(id, key))
			}
			p[path] = instances
		}
		result[id] = p
	}
	return result, nil
}

// MarshalJSON - the cache contents in persisted form
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Serializable())
}

// UnmarshalJSON - inverse of MarshalJSON
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var serializable SerializableSnapshot
	if err := json.Unmarshal(data, &serializable); nil != err {
		return err
	}
	snapshot, err := serializable.Snapshot()
	if nil != err {
		return err
	}
	*s = snapshot
	return nil
}

// CloneSnapshot - copy of the current contents
func (c *FactorInstancesCache) CloneSnapshot() Snapshot {
	c.RLock()
	defer c.RUnlock()

	return c.storage.Clone()
}

// SerializableSnapshot - current contents in persisted form
func (c *FactorInstancesCache) SerializableSnapshot() SerializableSnapshot {
	c.RLock()
	defer c.RUnlock()

	return c.storage.Serializable()
}
