// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"encoding/json"
	"os"

	"github.com/bitmark-inc/walletbrain/util"
)

// SaveToFile - write the JSON snapshot, replacing the file atomically
func (c *FactorInstancesCache) SaveToFile(name string) error {
	data, err := json.MarshalIndent(c.SerializableSnapshot(), "", "  ")
	if nil != err {
		return err
	}
	err = util.WriteFileAtomically(name, data)
	if nil != err {
		c.log.Errorf("save to: %s  error: %s", name, err)
		return err
	}
	c.log.Infof("saved to: %s", name)
	return nil
}

// LoadFromFile - cache built from a JSON snapshot file
func LoadFromFile(name string) (*FactorInstancesCache, error) {
	data, err := os.ReadFile(name)
	if nil != err {
		return nil, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); nil != err {
		return nil, err
	}
	return NewWithStorage(snapshot)
}
