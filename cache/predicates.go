// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
)

// IsFull - every preset holds at least its filling quantity
func (c *FactorInstancesCache) IsFull(network chain.NetworkID, id factor.SourceID) bool {
	all := derivation.AllDerivationPresets()
	quantified := make([]derivation.QuantifiedDerivationPreset, 0, len(all))
	for _, preset := range all {
		quantified = append(quantified, derivation.QuantifiedDerivationPreset{
			Preset:   preset,
			Quantity: preset.CacheFillingQuantity(),
		})
	}
	return c.IsSatisfied(network, id, quantified)
}

// IsSatisfied - the quantities can be served without derivation
func (c *FactorInstancesCache) IsSatisfied(network chain.NetworkID, id factor.SourceID, quantified []derivation.QuantifiedDerivationPreset) bool {
	outcome, err := c.Get([]factor.SourceID{id}, quantified, network)
	if nil != err {
		return false
	}
	return outcome.IsSatisfied()
}

// IsEntityCreationSatisfied - one entity of the kind can be created
// without derivation
func (c *FactorInstancesCache) IsEntityCreationSatisfied(network chain.NetworkID, id factor.SourceID, kind derivation.EntityKind) bool {
	preset, err := derivation.ForEntityCreation(kind)
	if nil != err {
		return false
	}
	return c.IsSatisfied(network, id, []derivation.QuantifiedDerivationPreset{{Preset: preset, Quantity: 1}})
}
