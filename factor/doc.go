// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package factor - factor source identifiers and the public key
// material derived from them
//
// An Instance is immutable; its identity is its whole content.
// Instances of one source sharing one index agnostic path are
// expected to form an ascending run of indices without gaps.
package factor
