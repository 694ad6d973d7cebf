// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package provider

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/walletbrain/cache"
	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/derive"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/profile"
	"github.com/bitmark-inc/walletbrain/ratelimit"
)

// Provider - serialises consumers of one cache
//
// issued holds the highest index handed out per factor source and
// path, so instances given to a caller that has not yet recorded them
// in the profile are never derived again
type Provider struct {
	sync.Mutex
	cache   *cache.FactorInstancesCache
	deriver derive.Deriver
	profile *profile.Profile
	issued  map[factor.SourceID]map[derivation.IndexAgnosticPath]derivation.HDPathComponent
	limiter *rate.Limiter
	log     *logger.L
}

// New - provider over a cache and a deriver
//
// the profile may be nil; the limiter throttles derivation
func New(c *cache.FactorInstancesCache, deriver derive.Deriver, p *profile.Profile, limiter *rate.Limiter) *Provider {
	if nil == limiter {
		limiter = ratelimit.New(0, 0)
	}
	return &Provider{
		cache:   c,
		deriver: deriver,
		profile: p,
		issued:  make(map[factor.SourceID]map[derivation.IndexAgnosticPath]derivation.HDPathComponent),
		limiter: limiter,
		log:     logger.New("provider"),
	}
}

// SetProfile - analyse a newer profile on the next derivation
func (p *Provider) SetProfile(prof *profile.Profile) {
	p.Lock()
	defer p.Unlock()
	p.profile = prof
}

// Provide - instances for the requested presets of every factor
// source; handed out instances are no longer cached
func (p *Provider) Provide(ctx context.Context, network chain.NetworkID, ids []factor.SourceID, quantified []derivation.QuantifiedDerivationPreset) (cache.InstancesPerPresetPerFactor, error) {
	p.Lock()
	defer p.Unlock()

	outcome, err := p.cache.Get(ids, quantified, network)
	if nil != err {
		return nil, err
	}

	if satisfied, ok := outcome.Satisfied(); ok {
		p.cache.Delete(satisfied)
		p.recordIssued(satisfied)
		p.log.Debugf("from cache: %d instances", satisfied.Count())
		return satisfied, nil
	}

	quantities, _ := outcome.NotSatisfied()
	derived, err := p.derive(ctx, network, quantities)
	if nil != err {
		return nil, err
	}

	requested := make(map[derivation.DerivationPreset]int, len(quantified))
	for _, q := range quantified {
		requested[q.Preset] = q.Quantity
	}

	toUse := make(cache.InstancesPerPresetPerFactor)
	usedFromCache := make(cache.InstancesPerPresetPerFactor)
	toCache := make(cache.InstancesPerPresetPerFactor)

	for _, preset := range derivation.AllDerivationPresets() {
		target, isRequested := requested[preset]
		for id, q := range quantities[preset] {
			fresh := derived[preset][id]
			if !isRequested {
				toCache.Add(preset, id, fresh)
				continue
			}

			need := target - len(q.InstancesToUseFromCache)
			if need > len(fresh) {
				fault.Panicf("provider: %s for: %s  needs: %d  derived: %d", preset, id, need, len(fresh))
			}
			toUse.Add(preset, id, q.InstancesToUseFromCache)
			toUse.Add(preset, id, fresh[:need])
			usedFromCache.Add(preset, id, q.InstancesToUseFromCache)
			toCache.Add(preset, id, fresh[need:])
		}
	}

	// fresh paths lie past everything cached, so a failed refill
	// leaves the cached instances untouched
	if err := p.cache.Insert(toCache); nil != err {
		p.log.Errorf("refill: %s", err)
		return nil, err
	}
	p.cache.Delete(usedFromCache)
	p.recordIssued(toUse)
	p.log.Infof("provided: %d  from cache: %d  cached: %d", toUse.Count(), usedFromCache.Count(), toCache.Count())
	return toUse, nil
}

// ProvideForEntityCreation - the creating instance of a new entity
func (p *Provider) ProvideForEntityCreation(ctx context.Context, network chain.NetworkID, id factor.SourceID, kind derivation.EntityKind) (factor.Instance, error) {
	preset, err := derivation.ForEntityCreation(kind)
	if nil != err {
		return factor.Instance{}, err
	}
	result, err := p.Provide(ctx, network, []factor.SourceID{id}, []derivation.QuantifiedDerivationPreset{{Preset: preset, Quantity: 1}})
	if nil != err {
		return factor.Instance{}, err
	}
	instances := result[preset][id]
	if 1 != len(instances) {
		fault.Panicf("provider: entity creation for: %s  got: %d instances", id, len(instances))
	}
	return instances[0], nil
}

// FillCache - derive every preset up to its filling quantity, returns
// the number of instances derived
func (p *Provider) FillCache(ctx context.Context, network chain.NetworkID, ids []factor.SourceID) (int, error) {
	if !chain.Valid(network) {
		return 0, fault.ErrInvalidNetwork
	}

	p.Lock()
	defer p.Unlock()

	quantities := make(cache.QuantitiesPerPresetPerFactor)
	for _, preset := range derivation.AllDerivationPresets() {
		path := preset.IndexAgnosticPath(network)
		for _, id := range ids {
			cached, _ := p.cache.GetMonoFactor(id, path)
			if shortfall := preset.CacheFillingQuantity() - len(cached); shortfall > 0 {
				if nil == quantities[preset] {
					quantities[preset] = make(map[factor.SourceID]cache.InstancesWithQuantityToDerive)
				}
				quantities[preset][id] = cache.InstancesWithQuantityToDerive{QuantityToDerive: shortfall}
			}
		}
	}
	if 0 == quantities.TotalQuantityToDerive() {
		return 0, nil
	}

	derived, err := p.derive(ctx, network, quantities)
	if nil != err {
		return 0, err
	}
	if err := p.cache.Insert(derived); nil != err {
		return 0, err
	}
	n := derived.Count()
	p.log.Infof("filled: %d instances on: %s", n, network)
	return n, nil
}

// remember the highest index handed out per factor source and path
func (p *Provider) recordIssued(handedOut cache.InstancesPerPresetPerFactor) {
	for _, perFactor := range handedOut {
		for id, instances := range perFactor {
			paths := p.issued[id]
			if nil == paths {
				paths = make(map[derivation.IndexAgnosticPath]derivation.HDPathComponent)
				p.issued[id] = paths
			}
			for _, i := range instances {
				path := i.AgnosticPath()
				current, ok := paths[path]
				paths[path], _ = derivation.MaxComponent(current, ok, i.Index(), true)
			}
		}
	}
}
