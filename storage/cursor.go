// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/walletbrain/fault"
)

// returned by a page callback to stop iterating
var errPageFull = fault.ProcessError("page full")

// FetchCursor - pages through a pool in key order
type FetchCursor struct {
	pool *PoolHandle
	next []byte // prefixed key where the next page starts
}

// NewFetchCursor - cursor at the first key of the pool
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool: p,
		next: []byte{p.prefix},
	}
}

// Seek - continue from the first key at or after key
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.next = cursor.pool.prefixKey(key)
	return cursor
}

// Fetch - up to count elements from the cursor, then move past them
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.ErrInvalidCursor
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	results := make([]Element, 0, count)
	err := cursor.pool.iterate(cursor.next, func(key []byte, value []byte) error {
		results = append(results, Element{
			Key:   key,
			Value: value,
		})
		if len(results) >= count {
			return errPageFull
		}
		return nil
	})
	if errPageFull == err {
		err = nil
	}

	// the smallest key greater than the last one returned
	if n := len(results); n > 0 {
		cursor.next = append(cursor.pool.prefixKey(results[n-1].Key), 0x00)
	}
	return results, err
}

// Map - run a function on every element from the cursor to the end
// of the pool, stops at the first error
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	if nil == cursor {
		return fault.ErrInvalidCursor
	}
	return cursor.pool.iterate(cursor.next, f)
}
