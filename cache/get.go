// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
)

// Get - decide what the cache can hand out and what must be derived
//
// every preset is considered, not only the requested ones: a
// requested preset short of its quantity asks for enough to also
// refill the cache, and any other preset below the filling quantity
// asks for its refill, so that one derivation round trip covers all
func (c *FactorInstancesCache) Get(ids []factor.SourceID, quantified []derivation.QuantifiedDerivationPreset, network chain.NetworkID) (Outcome, error) {
	if !chain.Valid(network) {
		return Outcome{}, fault.ErrInvalidNetwork
	}
	requested, err := requestedQuantities(quantified)
	if nil != err {
		return Outcome{}, err
	}

	ids = uniqueSourceIDs(ids)

	c.RLock()
	defer c.RUnlock()

	satisfied := make(InstancesPerPresetPerFactor)
	quantities := make(QuantitiesPerPresetPerFactor)
	allSatisfied := true

	for _, preset := range derivation.AllDerivationPresets() {
		path := preset.IndexAgnosticPath(network)
		fill := preset.CacheFillingQuantity()
		target, isRequested := requested[preset]

		for _, id := range ids {
			cached := c.storage[id][path]
			count := len(cached)

			switch {
			case isRequested && count >= target:
				use := cached[:target].Clone()
				satisfied.add(preset, id, use)
				quantities.set(preset, id, InstancesWithQuantityToDerive{
					InstancesToUseFromCache: use,
				})

			case isRequested:
				allSatisfied = false
				quantities.set(preset, id, InstancesWithQuantityToDerive{
					InstancesToUseFromCache: cached.Clone(),
					QuantityToDerive:        fill - count + target,
				})

			case count < fill:
				quantities.set(preset, id, InstancesWithQuantityToDerive{
					QuantityToDerive: fill - count,
				})
			}
		}
	}

	if allSatisfied {
		return Outcome{satisfied: satisfied}, nil
	}
	c.log.Debugf("not satisfied: %d to derive on: %s", quantities.TotalQuantityToDerive(), network)
	return Outcome{notSatisfied: quantities}, nil
}

func requestedQuantities(quantified []derivation.QuantifiedDerivationPreset) (map[derivation.DerivationPreset]int, error) {
	requested := make(map[derivation.DerivationPreset]int, len(quantified))
	for _, q := range quantified {
		if !q.Preset.Valid() {
			return nil, fault.ErrInvalidDerivationPreset
		}
		if q.Quantity < 1 {
			return nil, fault.ErrInvalidQuantity
		}
		if _, ok := requested[q.Preset]; ok {
			return nil, fault.ErrDuplicateDerivationPreset
		}
		requested[q.Preset] = q.Quantity
	}
	return requested, nil
}

func uniqueSourceIDs(ids []factor.SourceID) []factor.SourceID {
	seen := make(map[factor.SourceID]struct{}, len(ids))
	unique := make([]factor.SourceID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
