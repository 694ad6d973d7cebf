// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package provider - hands out fresh factor instances
//
// the cache is used first; any shortfall is derived in a single
// batch starting past both the profile's used indices and the
// cache's highest index, and the surplus refills the cache
package provider
