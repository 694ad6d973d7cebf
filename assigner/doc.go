// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package assigner - the next derivation entity index a factor
// source may use, found by scanning a profile
//
// an index counts as used if any committed entity, any provisional
// security upgrade or the creating instance of a since securified
// entity holds it
package assigner
