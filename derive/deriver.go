// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derive

import (
	"context"

	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
)

//go:generate mockgen -source=deriver.go -destination=mocks/deriver.go -package=mocks

// PathsPerFactorSource - what to derive, per factor source
type PathsPerFactorSource map[factor.SourceID][]derivation.DerivationPath

// Count - total number of paths
func (p PathsPerFactorSource) Count() int {
	n := 0
	for _, paths := range p {
		n += len(paths)
	}
	return n
}

// Deriver - derives public keys for paths of factor sources
//
// the result holds exactly one instance per requested path
type Deriver interface {
	Derive(ctx context.Context, request PathsPerFactorSource) (factor.InstancesPerSource, error)
}
