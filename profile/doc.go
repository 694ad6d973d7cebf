// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package profile - the wallet's model of its entities
//
// Only what is needed to reason about spent derivation indices is
// modelled: per network accounts and personas, each either
// unsecured (controlled by a single veci instance) or securified
// (controlled by a matrix of instances plus an authentication
// signing instance), and optionally carrying a provisional
// configuration for a security upgrade that is not yet committed.
package profile
