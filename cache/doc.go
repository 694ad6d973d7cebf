// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache - pre-derived factor instances not yet handed out
//
// instances are kept per factor source and index agnostic path, each
// set ordered by ascending index; a single lock guards the whole
// structure so callers never see a partial mutation
package cache
