// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/storage"
)

// on disk form of one instance
type storedPublicKey struct {
	Curve factor.Curve `cbor:"curve"`
	Data  []byte       `cbor:"compressedData"`
}

type storedInstance struct {
	PublicKey      storedPublicKey `cbor:"publicKey"`
	DerivationPath string          `cbor:"derivationPath"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	fault.PanicIfError("cache: cbor encoder", err)
	decMode, err = cbor.DecOptions{}.DecMode()
	fault.PanicIfError("cache: cbor decoder", err)
}

// RecordKey - storage key of the instances of a factor source and path
//
//   "<kind>:<hex body>/<network>H/<entity kind>H/<key kind>H/<space>?"
func RecordKey(id factor.SourceID, path derivation.IndexAgnosticPath) []byte {
	return []byte(id.String() + "/" + path.String())
}

// ParseRecordKey - inverse of RecordKey
func ParseRecordKey(key []byte) (factor.SourceID, derivation.IndexAgnosticPath, error) {
	s := string(key)
	n := strings.IndexByte(s, '/')
	if n < 0 {
		return factor.SourceID{}, derivation.IndexAgnosticPath{}, fault.ErrSnapshotInvalid
	}
	id, err := factor.ParseSourceID(s[:n])
	if nil != err {
		return factor.SourceID{}, derivation.IndexAgnosticPath{}, err
	}
	path, err := derivation.ParseIndexAgnosticPath(s[n+1:])
	if nil != err {
		return factor.SourceID{}, derivation.IndexAgnosticPath{}, err
	}
	return id, path, nil
}

// PackRecord - CBOR array of the instances' keys and paths
func PackRecord(instances factor.Instances) ([]byte, error) {
	stored := make([]storedInstance, 0, len(instances))
	for _, i := range instances {
		stored = append(stored, storedInstance{
			PublicKey: storedPublicKey{
				Curve: i.PublicKey.Curve(),
				Data:  i.PublicKey.Bytes(),
			},
			DerivationPath: i.DerivationPath.String(),
		})
	}
	return encMode.Marshal(stored)
}

// UnpackRecord - instances of a record belonging to a factor source
func UnpackRecord(id factor.SourceID, data []byte) (factor.Instances, error) {
	var stored []storedInstance
	if err := decMode.Unmarshal(data, &stored); nil != err {
		return nil, err
	}
	instances := make(factor.Instances, 0, len(stored))
	for _, s := range stored {
		key, err := factor.NewPublicKey(s.PublicKey.Curve, s.PublicKey.Data)
		if nil != err {
			return nil, err
		}
		path, err := derivation.ParseDerivationPath(s.DerivationPath)
		if nil != err {
			return nil, err
		}
		instances = append(instances, factor.Instance{
			SourceID:       id,
			PublicKey:      key,
			DerivationPath: path,
		})
	}
	return instances, nil
}

// SaveTo - replace the pool's contents with the cache's in one batch
func (c *FactorInstancesCache) SaveTo(handle storage.Handle) error {
	snapshot := c.CloneSnapshot()

	elements := make([]storage.Element, 0)
	for id, paths := range snapshot {
		for path, instances := range paths {
			packed, err := PackRecord(instances)
			if nil != err {
				return err
			}
			elements = append(elements, storage.Element{
				Key:   RecordKey(id, path),
				Value: packed,
			})
		}
	}
	err := handle.Replace(elements)
	if nil != err {
		c.log.Errorf("save: %s", err)
		return err
	}
	c.log.Infof("saved: %d records", len(elements))
	return nil
}

// LoadFrom - cache built from the records of a pool
func LoadFrom(handle storage.Handle) (*FactorInstancesCache, error) {
	snapshot := make(Snapshot)
	err := handle.Map(func(key []byte, value []byte) error {
		id, path, err := ParseRecordKey(key)
		if nil != err {
			return err
		}
		instances, err := UnpackRecord(id, value)
		if nil != err {
			return err
		}
		paths, ok := snapshot[id]
		if !ok {
			paths = make(map[derivation.IndexAgnosticPath]factor.Instances)
			snapshot[id] = paths
		}
		paths[path] = instances
		return nil
	})
	if nil != err {
		return nil, err
	}
	return NewWithStorage(snapshot)
}
