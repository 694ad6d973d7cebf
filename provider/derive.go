// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package provider

import (
	"context"

	"github.com/bitmark-inc/walletbrain/assigner"
	"github.com/bitmark-inc/walletbrain/cache"
	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/derive"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/ratelimit"
)

// derive every shortfall in one call, results in the order of their
// indices per preset per factor source
func (p *Provider) derive(ctx context.Context, network chain.NetworkID, quantities cache.QuantitiesPerPresetPerFactor) (cache.InstancesPerPresetPerFactor, error) {
	a := assigner.New(network, p.profile)

	type planned struct {
		preset derivation.DerivationPreset
		id     factor.SourceID
		paths  []derivation.DerivationPath
	}
	plan := make([]planned, 0)
	request := make(derive.PathsPerFactorSource)

	for _, preset := range derivation.AllDerivationPresets() {
		agnostic := preset.IndexAgnosticPath(network)
		for id, q := range quantities[preset] {
			if q.QuantityToDerive <= 0 {
				continue
			}
			start, err := p.startIndex(a, id, agnostic)
			if nil != err {
				return nil, err
			}
			paths := make([]derivation.DerivationPath, 0, q.QuantityToDerive)
			for k := 0; k < q.QuantityToDerive; k += 1 {
				index, err := start.CheckedAddToGlobal(uint32(k))
				if nil != err {
					return nil, err
				}
				path, err := agnostic.WithIndex(index)
				if nil != err {
					return nil, err
				}
				paths = append(paths, path)
			}
			plan = append(plan, planned{preset: preset, id: id, paths: paths})
			request[id] = append(request[id], paths...)
		}
	}

	result := make(cache.InstancesPerPresetPerFactor)
	if 0 == len(plan) {
		return result, nil
	}

	if err := ratelimit.LimitN(ctx, p.limiter, request.Count()); nil != err {
		return nil, err
	}
	p.log.Debugf("deriving: %d keys for: %d factor sources", request.Count(), len(request))

	derived, err := p.deriver.Derive(ctx, request)
	if nil != err {
		p.log.Errorf("derive: %s", err)
		return nil, err
	}

	byPath, err := verify(request, derived)
	if nil != err {
		p.log.Errorf("derive: %s", err)
		return nil, err
	}

	for _, entry := range plan {
		instances := make(factor.Instances, 0, len(entry.paths))
		for _, path := range entry.paths {
			instances = append(instances, byPath[entry.id][path])
		}
		result.Add(entry.preset, entry.id, instances)
	}
	return result, nil
}

// first index to derive: past the profile's use, past the cache and
// past everything already handed out
func (p *Provider) startIndex(a *assigner.ProfileAnalyzingAssigner, id factor.SourceID, agnostic derivation.IndexAgnosticPath) (derivation.HDPathComponent, error) {
	start := agnostic.FirstIndex()

	next, ok, err := a.Next(id, agnostic)
	if nil != err {
		return derivation.HDPathComponent{}, err
	}
	start, _ = derivation.MaxComponent(start, true, next, ok)

	if max, ok := p.cache.MaxIndexFor(id, agnostic); ok {
		afterCache, err := max.CheckedAddOneToGlobal()
		if nil != err {
			return derivation.HDPathComponent{}, err
		}
		start, _ = derivation.MaxComponent(start, true, afterCache, true)
	}

	if max, ok := p.issued[id][agnostic]; ok {
		afterIssued, err := max.CheckedAddOneToGlobal()
		if nil != err {
			return derivation.HDPathComponent{}, err
		}
		start, _ = derivation.MaxComponent(start, true, afterIssued, true)
	}
	return start, nil
}

// exactly one instance of the right source per requested path
func verify(request derive.PathsPerFactorSource, derived factor.InstancesPerSource) (map[factor.SourceID]map[derivation.DerivationPath]factor.Instance, error) {
	byPath := make(map[factor.SourceID]map[derivation.DerivationPath]factor.Instance, len(request))
	for id, paths := range request {
		instances := derived[id]
		if len(instances) != len(paths) {
			return nil, fault.ErrDerivationMismatch
		}
		m := make(map[derivation.DerivationPath]factor.Instance, len(instances))
		for _, i := range instances {
			if i.SourceID != id {
				return nil, fault.ErrDerivationMismatch
			}
			m[i.DerivationPath] = i
		}
		for _, path := range paths {
			if _, ok := m[path]; !ok {
				return nil, fault.ErrDerivationMismatch
			}
		}
		byPath[id] = m
	}
	return byPath, nil
}
