// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
)

// InstancesPerPresetPerFactor - instances per preset per factor source
type InstancesPerPresetPerFactor map[derivation.DerivationPreset]factor.InstancesPerSource

// Count - total number of instances
func (m InstancesPerPresetPerFactor) Count() int {
	n := 0
	for _, perFactor := range m {
		for _, instances := range perFactor {
			n += len(instances)
		}
	}
	return n
}

func (m InstancesPerPresetPerFactor) add(preset derivation.DerivationPreset, id factor.SourceID, instances factor.Instances) {
	perFactor, ok := m[preset]
	if !ok {
		perFactor = make(factor.InstancesPerSource)
		m[preset] = perFactor
	}
	perFactor[id] = append(perFactor[id], instances...)
}

// Add - append instances for a preset and factor source
func (m InstancesPerPresetPerFactor) Add(preset derivation.DerivationPreset, id factor.SourceID, instances factor.Instances) {
	if 0 == len(instances) {
		return
	}
	m.add(preset, id, instances)
}

// InstancesWithQuantityToDerive - what the cache can give and how
// many more must be derived
type InstancesWithQuantityToDerive struct {
	InstancesToUseFromCache factor.Instances
	QuantityToDerive        int
}

// QuantitiesPerPresetPerFactor - cache contribution and shortfall per
// preset per factor source
type QuantitiesPerPresetPerFactor map[derivation.DerivationPreset]map[factor.SourceID]InstancesWithQuantityToDerive

func (m QuantitiesPerPresetPerFactor) set(preset derivation.DerivationPreset, id factor.SourceID, value InstancesWithQuantityToDerive) {
	perFactor, ok := m[preset]
	if !ok {
		perFactor = make(map[factor.SourceID]InstancesWithQuantityToDerive)
		m[preset] = perFactor
	}
	perFactor[id] = value
}

// TotalQuantityToDerive - sum of all shortfalls
func (m QuantitiesPerPresetPerFactor) TotalQuantityToDerive() int {
	n := 0
	for _, perFactor := range m {
		for _, q := range perFactor {
			n += q.QuantityToDerive
		}
	}
	return n
}

// Outcome - result of a cache query
//
// satisfied: the instances to hand out for every requested preset,
// still cached until the consumer deletes them
//
// not satisfied: for every preset needing instances, what the cache
// can contribute and how many to derive in one batch
type Outcome struct {
	satisfied    InstancesPerPresetPerFactor
	notSatisfied QuantitiesPerPresetPerFactor
}

// IsSatisfied - true if no requested preset needs derivation
func (o Outcome) IsSatisfied() bool {
	return nil == o.notSatisfied
}

// Satisfied - the instances to hand out
func (o Outcome) Satisfied() (InstancesPerPresetPerFactor, bool) {
	if !o.IsSatisfied() {
		return nil, false
	}
	return o.satisfied, true
}

// NotSatisfied - the partial instances and quantities to derive
func (o Outcome) NotSatisfied() (QuantitiesPerPresetPerFactor, bool) {
	if o.IsSatisfied() {
		return nil, false
	}
	return o.notSatisfied, true
}
