// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package derive - the capability that turns derivation paths into
// public keys
//
// Real derivation may need a hardware device and the user, so one
// call carries every path of every factor source needed at once.
// Simulated is a deterministic stand in for tests and tooling; it is
// not a BIP32 implementation.
package derive
