// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/walletbrain/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	FactorInstances *PoolHandle `prefix:"F"`
	TestData        *PoolHandle `prefix:"Z"`
}

// Pool - the set of exported pools
var Pool pools

// schema version record, outside every pool's range
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// schema of the cache records
const currentDBVersion = 0x100

// the open database
var poolData struct {
	sync.RWMutex
	db  *leveldb.DB
	log *logger.L
}

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Initialise - open the database and set up every pool
//
// a read only database must already exist and carry a version
func Initialise(database string, readOnly bool) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.db {
		return fault.ErrAlreadyInitialised
	}
	if nil == poolData.log {
		poolData.log = logger.New("storage")
	}
	log := poolData.log

	db, err := leveldb.OpenFile(database, &ldb_opt.Options{
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	})
	if nil != err {
		log.Errorf("open: %s  error: %s", database, err)
		return err
	}

	if err := checkVersion(db, readOnly); nil != err {
		log.Criticalf("database: %s  error: %s", database, err)
		db.Close()
		return err
	}

	if err := setupPools(readOnly); nil != err {
		db.Close()
		return err
	}

	poolData.db = db
	log.Infof("opened: %s  read only: %t", database, readOnly)
	return nil
}

// Finalise - close the database connection
func Finalise() {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.db {
		poolData.db.Close()
		poolData.db = nil
		poolData.log.Infof("closed")
	}
}

// reject newer or missing schemas, tag a new database as current
func checkVersion(db *leveldb.DB, readOnly bool) error {
	value, err := db.Get(versionKey, nil)
	switch {
	case leveldb.ErrNotFound == err && readOnly:
		return fault.ErrNotInitialised
	case leveldb.ErrNotFound == err:
		current := make([]byte, 4)
		binary.BigEndian.PutUint32(current, currentDBVersion)
		return db.Put(versionKey, current, nil)
	case nil != err:
		return err
	}

	if 4 != len(value) {
		return fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(value))
	}
	if version := binary.BigEndian.Uint32(value); version > currentDBVersion {
		return fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)
	}
	return nil
}

// give each pool field a handle for the range of its prefix tag
func setupPools(readOnly bool) error {
	poolType := reflect.TypeOf(Pool)
	poolValue := reflect.ValueOf(&Pool).Elem()

	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) || 0 == prefixTag[0] {
			return fmt.Errorf("pool: %s has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil) // to the end of the database
		if prefix < 0xff {
			limit = []byte{prefix + 1}
		}

		poolValue.Field(i).Set(reflect.ValueOf(&PoolHandle{
			prefix:   prefix,
			limit:    limit,
			readOnly: readOnly,
		}))
	}
	return nil
}
