// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derive

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
)

// Memoised - remembers derived keys for a while so that repeated
// requests for the same path do not reach the device again
type Memoised struct {
	deriver Deriver
	memo    *gocache.Cache
	log     *logger.L
}

// NewMemoised - wrap a deriver, entries expire after expiry
func NewMemoised(deriver Deriver, expiry time.Duration) *Memoised {
	return &Memoised{
		deriver: deriver,
		memo:    gocache.New(expiry, 2*expiry),
		log:     logger.New("derive"),
	}
}

func memoKey(id factor.SourceID, path derivation.DerivationPath) string {
	return id.String() + "@" + path.String()
}

// Derive - answer from the memo, forward only the misses
func (m *Memoised) Derive(ctx context.Context, request PathsPerFactorSource) (factor.InstancesPerSource, error) {
	misses := make(PathsPerFactorSource)
	for id, paths := range request {
		for _, path := range paths {
			if _, found := m.memo.Get(memoKey(id, path)); !found {
				misses[id] = append(misses[id], path)
			}
		}
	}

	if len(misses) > 0 {
		derived, err := m.deriver.Derive(ctx, misses)
		if nil != err {
			return nil, err
		}
		for _, instances := range derived {
			for _, instance := range instances {
				m.memo.SetDefault(memoKey(instance.SourceID, instance.DerivationPath), instance.PublicKey)
			}
		}
	}
	m.log.Debugf("memo hits: %d  misses: %d", request.Count()-misses.Count(), misses.Count())

	result := make(factor.InstancesPerSource, len(request))
	for id, paths := range request {
		instances := make(factor.Instances, 0, len(paths))
		for _, path := range paths {
			key, found := m.memo.Get(memoKey(id, path))
			if !found {
				return nil, fault.ErrDerivationMismatch
			}
			instances = append(instances, factor.Instance{
				SourceID:       id,
				PublicKey:      key.(factor.PublicKey),
				DerivationPath: path,
			})
		}
		result[id] = instances
	}
	return result, nil
}
