// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package derivation - value types describing where a key lives in
// the hierarchical deterministic key tree
//
//  m / 44H / 1022H / network H / entity kind H / key kind H / index
//                    |___________________________________|   |
//                          IndexAgnosticPath + key space    HDPathComponent
//
// An IndexAgnosticPath is the tuple (network, entity kind, key kind,
// key space); it groups instances that only differ by index.  Each of
// the six DerivationPresets maps to exactly one IndexAgnosticPath per
// network.
//
// Index arithmetic is done in the global key space and never wraps.
package derivation
