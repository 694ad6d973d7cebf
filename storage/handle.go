// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/walletbrain/fault"
)

// Handle - the operations on a single pool
type Handle interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	Put(key []byte, value []byte)
	Delete(key []byte)
	Map(f func(key []byte, value []byte) error) error
	Replace(elements []Element) error
}

// PoolHandle - a prefixed range of the database
type PoolHandle struct {
	prefix   byte
	limit    []byte
	readOnly bool
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// from start up to the end of the pool
func (p *PoolHandle) rangeFrom(start []byte) *ldb_util.Range {
	return &ldb_util.Range{
		Start: start,
		Limit: p.limit,
	}
}

// run f on copies of every element from start, keys without prefix
func (p *PoolHandle) iterate(start []byte, f func(key []byte, value []byte) error) error {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil
	}

	iter := poolData.db.NewIterator(p.rangeFrom(start), nil)
	defer iter.Release()

	for iter.Next() {
		key := append([]byte{}, iter.Key()[1:]...)
		value := append([]byte{}, iter.Value()...)
		if err := f(key, value); nil != err {
			return err
		}
	}
	return iter.Error()
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		logger.Panic("pool.Put nil database")
		return
	}
	err := poolData.db.Put(p.prefixKey(key), value, nil)
	logger.PanicIfError("pool.Put", err)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		logger.Panic("pool.Delete nil database")
		return
	}
	err := poolData.db.Delete(p.prefixKey(key), nil)
	logger.PanicIfError("pool.Delete", err)
}

// Get - read a value for a given key
//
// returns nil if the key is not present
func (p *PoolHandle) Get(key []byte) []byte {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil
	}
	value, err := poolData.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return false
	}
	value, err := poolData.db.Has(p.prefixKey(key), nil)
	logger.PanicIfError("pool.Has", err)
	return value
}

// Map - run a function on all elements of the pool in key order
func (p *PoolHandle) Map(f func(key []byte, value []byte) error) error {
	return p.iterate([]byte{p.prefix}, f)
}

// Replace - atomically make the elements the only content of the pool
func (p *PoolHandle) Replace(elements []Element) error {
	poolData.Lock()
	defer poolData.Unlock()
	if nil == poolData.db {
		return fault.ErrNotInitialised
	}
	if p.readOnly {
		return fault.ErrReadOnly
	}

	batch := new(leveldb.Batch)

	iter := poolData.db.NewIterator(p.rangeFrom([]byte{p.prefix}), nil)
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return err
	}

	for _, e := range elements {
		batch.Put(p.prefixKey(e.Key), e.Value)
	}
	return poolData.db.Write(batch, nil)
}
