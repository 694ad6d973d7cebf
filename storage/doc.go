// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// maintain the on-disk data store
//
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the avaiable tables.
//
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. factor id    = "<kind>:<hex body>" as text
// 4. path         = index agnostic path as text e.g. "1H/525H/1460H/H?"
// 5. *others*     = byte values of various length
//
// Factor instances:
//
//   F ++ factor id ++ "/" ++ path  - cached instances of one path
//                                    data: CBOR array of {publicKey, derivationPath}
//
// Testing:
//
//   Z ++ key                      - testing data
//
// Version:
//
//   0x00 ++ "VERSION"             - database version as big endian uint32
package storage
