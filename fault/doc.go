// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Conditions that can only arise from a logic error upstream are not
// errors: they panic with an InvariantViolation after logging to the
// PANIC channel.
package fault
