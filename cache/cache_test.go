// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/walletbrain/cache"
	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/fixtures"
)

var mainnetVeci = derivation.AccountVeci.IndexAgnosticPath(chain.Mainnet)

func TestInsertRejectsWrongFactorSource(t *testing.T) {
	c := cache.New()

	instances := fixtures.InstancesAt(1, derivation.AccountVeci, chain.Mainnet, 0, 3)
	_, err := c.InsertForFactor(fixtures.SourceIDAt(0), instances)
	assert.Equal(t, fault.ErrFactorSourceIDMismatch, err, "wrong error")
	assert.True(t, c.IsEmpty(), "cache changed")
}

func TestInsertDuplicateLeavesCacheUnchanged(t *testing.T) {
	c := cache.New()
	id := fixtures.SourceIDAt(0)

	first := fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 0, 3)
	skipped, err := c.InsertForFactor(id, first)
	assert.Nil(t, err, "first insert")
	assert.False(t, skipped, "gap on empty cache")

	before := c.CloneSnapshot()

	// overlaps index 2 and also carries a valid mfa instance
	overlapping := fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 2, 3)
	overlapping = append(overlapping, fixtures.InstanceAt(0, derivation.AccountMfa, chain.Mainnet, 0))

	_, err = c.InsertForFactor(id, overlapping)
	assert.Equal(t, fault.ErrCacheAlreadyContainsFactorInstance, err, "duplicate accepted")
	assert.Equal(t, before, c.CloneSnapshot(), "cache changed by failed insert")

	_, err = c.InsertForFactor(id, factor.Instances{first[1]})
	assert.Equal(t, fault.ErrCacheAlreadyContainsFactorInstance, err, "identical instance accepted")
}

func TestInsertRejectsDuplicatesWithinOneCall(t *testing.T) {
	c := cache.New()
	i := fixtures.InstanceAt(0, derivation.AccountVeci, chain.Mainnet, 0)

	_, err := c.InsertForFactor(fixtures.SourceIDAt(0), factor.Instances{i, i})
	assert.Equal(t, fault.ErrCacheAlreadyContainsFactorInstance, err, "wrong error")
	assert.True(t, c.IsEmpty(), "cache changed")
}

func TestInsertReportsGap(t *testing.T) {
	c := cache.New()
	id := fixtures.SourceIDAt(0)

	_, err := c.InsertForFactor(id, fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 0, 2))
	assert.Nil(t, err, "first insert")

	skipped, err := c.InsertForFactor(id, fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 2, 2))
	assert.Nil(t, err, "contiguous insert")
	assert.False(t, skipped, "contiguous reported as gap")

	skipped, err = c.InsertForFactor(id, fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 10, 1))
	assert.Nil(t, err, "gap is not an error")
	assert.True(t, skipped, "gap not reported")

	max, ok := c.MaxIndexFor(id, mainnetVeci)
	assert.True(t, ok, "no max")
	assert.Equal(t, derivation.Hardened(10), max, "wrong max")
}

func TestInsertKeepsAscendingOrder(t *testing.T) {
	c := cache.New()
	id := fixtures.SourceIDAt(0)
	all := fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 0, 4)

	_, err := c.InsertForFactor(id, factor.Instances{all[3], all[2]})
	assert.Nil(t, err, "first insert")
	_, err = c.InsertForFactor(id, factor.Instances{all[1], all[0]})
	assert.Nil(t, err, "second insert")

	cached, ok := c.GetMonoFactor(id, mainnetVeci)
	assert.True(t, ok, "nothing cached")
	assert.Equal(t, all, cached, "not ascending")
}

func TestGetSatisfiedBoundary(t *testing.T) {
	c := cacheWith(t, presetCounts{5, 0, 0, 0, 0, 0})
	id := fixtures.SourceIDAt(0)
	cached := fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 0, 5)

	for _, q := range []int{1, 3, 5} {
		outcome, err := c.Get([]factor.SourceID{id}, []derivation.QuantifiedDerivationPreset{quantified(derivation.AccountVeci, q)}, chain.Mainnet)
		assert.Nil(t, err, "%d: get", q)
		satisfied, ok := outcome.Satisfied()
		assert.True(t, ok, "%d: not satisfied", q)
		assert.Equal(t, cached[:q], satisfied[derivation.AccountVeci][id], "%d: not lowest first", q)
		assert.Equal(t, q, satisfied.Count(), "%d: other presets handed out", q)
	}

	// nothing was removed by get
	assert.Equal(t, 5, c.TotalNumberOfFactorInstances(), "get mutated the cache")

	outcome, err := c.Get([]factor.SourceID{id}, []derivation.QuantifiedDerivationPreset{quantified(derivation.AccountVeci, 6)}, chain.Mainnet)
	assert.Nil(t, err, "get")
	assert.False(t, outcome.IsSatisfied(), "satisfied with too few")

	quantities, ok := outcome.NotSatisfied()
	assert.True(t, ok, "not satisfied")

	veci := quantities[derivation.AccountVeci][id]
	assert.Equal(t, cached, veci.InstancesToUseFromCache, "cached instances not offered")
	assert.Equal(t, derivation.CacheFillingQuantity-5+6, veci.QuantityToDerive, "wrong quantity")

	// every other preset is topped up
	for _, preset := range derivation.AllDerivationPresets()[1:] {
		q := quantities[preset][id]
		assert.Equal(t, 0, len(q.InstancesToUseFromCache), "%s: handed out", preset)
		assert.Equal(t, derivation.CacheFillingQuantity, q.QuantityToDerive, "%s: refill", preset)
	}
}

func TestGetSkipsFullPresets(t *testing.T) {
	fill := derivation.CacheFillingQuantity
	c := cacheWith(t, presetCounts{0, fill, fill, fill, fill, fill - 1})
	id := fixtures.SourceIDAt(0)

	outcome, err := c.Get([]factor.SourceID{id}, []derivation.QuantifiedDerivationPreset{quantified(derivation.AccountVeci, 1)}, chain.Mainnet)
	assert.Nil(t, err, "get")
	quantities, ok := outcome.NotSatisfied()
	assert.True(t, ok, "satisfied from empty cache")

	assert.Equal(t, fill+1, quantities[derivation.AccountVeci][id].QuantityToDerive, "requested preset")
	assert.Equal(t, 1, quantities[derivation.IdentityRola][id].QuantityToDerive, "nearly full preset")
	for _, preset := range []derivation.DerivationPreset{derivation.AccountMfa, derivation.AccountRola, derivation.IdentityVeci, derivation.IdentityMfa} {
		_, present := quantities[preset]
		assert.False(t, present, "%s: full preset included", preset)
	}
	assert.Equal(t, fill+2, quantities.TotalQuantityToDerive(), "total")
}

func TestGetIsPerNetwork(t *testing.T) {
	c := cacheWith(t, presetCounts{5, 0, 0, 0, 0, 0})
	id := fixtures.SourceIDAt(0)

	outcome, err := c.Get([]factor.SourceID{id}, []derivation.QuantifiedDerivationPreset{quantified(derivation.AccountVeci, 1)}, chain.Stokenet)
	assert.Nil(t, err, "get")
	assert.False(t, outcome.IsSatisfied(), "mainnet instances used for stokenet")
}

func TestGetRejectsBadRequests(t *testing.T) {
	c := cache.New()
	ids := []factor.SourceID{fixtures.SourceIDAt(0)}

	_, err := c.Get(ids, []derivation.QuantifiedDerivationPreset{quantified(derivation.AccountVeci, 1), quantified(derivation.AccountVeci, 2)}, chain.Mainnet)
	assert.Equal(t, fault.ErrDuplicateDerivationPreset, err, "duplicate preset")

	_, err = c.Get(ids, []derivation.QuantifiedDerivationPreset{quantified(derivation.AccountMfa, 0)}, chain.Mainnet)
	assert.Equal(t, fault.ErrInvalidQuantity, err, "zero quantity")

	_, err = c.Get(ids, []derivation.QuantifiedDerivationPreset{quantified(derivation.DerivationPreset(99), 1)}, chain.Mainnet)
	assert.Equal(t, fault.ErrInvalidDerivationPreset, err, "bad preset")

	_, err = c.Get(ids, nil, chain.NetworkID(0x77))
	assert.Equal(t, fault.ErrInvalidNetwork, err, "bad network")
}

func TestGetManyFactorSources(t *testing.T) {
	c := cacheWith(t, presetCounts{2, 0, 0, 0, 0, 0})
	ids := []factor.SourceID{fixtures.SourceIDAt(0), fixtures.SourceIDAt(1), fixtures.SourceIDAt(0)}

	outcome, err := c.Get(ids, []derivation.QuantifiedDerivationPreset{quantified(derivation.AccountVeci, 2)}, chain.Mainnet)
	assert.Nil(t, err, "get")
	quantities, ok := outcome.NotSatisfied()
	assert.True(t, ok, "second source has nothing")

	assert.Equal(t, 2, len(quantities[derivation.AccountVeci][fixtures.SourceIDAt(0)].InstancesToUseFromCache), "first source cached")
	assert.Equal(t, 0, quantities[derivation.AccountVeci][fixtures.SourceIDAt(0)].QuantityToDerive, "first source derive")
	assert.Equal(t, derivation.CacheFillingQuantity+2, quantities[derivation.AccountVeci][fixtures.SourceIDAt(1)].QuantityToDerive, "second source derive")
}

func TestDeleteThenPrune(t *testing.T) {
	c := cacheWith(t, presetCounts{3, 1, 0, 0, 0, 0})
	id := fixtures.SourceIDAt(0)

	before, _ := c.GetMonoFactor(id, mainnetVeci)
	remove := factor.Instances{before[0]}

	toDelete := make(cache.InstancesPerPresetPerFactor)
	toDelete.Add(derivation.AccountVeci, id, remove)
	c.Delete(toDelete)

	after, ok := c.GetMonoFactor(id, mainnetVeci)
	assert.True(t, ok, "all deleted")
	assert.Equal(t, before.Subtracting(remove), after, "wrong remainder")

	// delete the only mfa instance, its path must disappear
	mfa, _ := c.GetMonoFactor(id, derivation.AccountMfa.IndexAgnosticPath(chain.Mainnet))
	toDelete = make(cache.InstancesPerPresetPerFactor)
	toDelete.Add(derivation.AccountMfa, id, mfa)
	c.Delete(toDelete)

	_, ok = c.GetMonoFactor(id, derivation.AccountMfa.IndexAgnosticPath(chain.Mainnet))
	assert.False(t, ok, "empty set kept")
	paths, _ := c.PeekAllInstancesOfFactorSource(id)
	assert.Equal(t, 1, len(paths), "empty path retained")

	// delete everything, the factor source must disappear
	toDelete = make(cache.InstancesPerPresetPerFactor)
	toDelete.Add(derivation.AccountVeci, id, after)
	c.Delete(toDelete)
	assert.Equal(t, cache.Snapshot{}, c.CloneSnapshot(), "empty collections retained")
	assert.True(t, c.IsEmpty(), "not empty")

	c.Prune()
	assert.True(t, c.IsEmpty(), "prune is not idempotent")
}

func TestDeleteAbsentPanics(t *testing.T) {
	c := cacheWith(t, presetCounts{2, 0, 0, 0, 0, 0})
	id := fixtures.SourceIDAt(0)

	toDelete := make(cache.InstancesPerPresetPerFactor)
	toDelete.Add(derivation.AccountVeci, id, fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 1, 2))

	defer func() {
		r := recover()
		assert.NotNil(t, r, "no panic")
		_, ok := r.(fault.InvariantViolation)
		assert.True(t, ok, "wrong panic value: %v", r)

		// nothing was removed before the panic
		assert.Equal(t, 2, c.TotalNumberOfFactorInstances(), "partial delete")
	}()
	c.Delete(toDelete)
}

func TestDeleteListedTwicePanics(t *testing.T) {
	id := fixtures.SourceIDAt(0)
	first := fixtures.InstancesAt(0, derivation.AccountVeci, chain.Mainnet, 0, 1)

	twiceInGroup := make(cache.InstancesPerPresetPerFactor)
	twiceInGroup.Add(derivation.AccountVeci, id, first)
	twiceInGroup.Add(derivation.AccountVeci, id, first)

	underTwoPresets := make(cache.InstancesPerPresetPerFactor)
	underTwoPresets.Add(derivation.AccountVeci, id, first)
	underTwoPresets.Add(derivation.AccountMfa, id, first)

	for _, toDelete := range []cache.InstancesPerPresetPerFactor{twiceInGroup, underTwoPresets} {
		c := cacheWith(t, presetCounts{2, 0, 0, 0, 0, 0})
		func() {
			defer func() {
				r := recover()
				assert.NotNil(t, r, "no panic")
				_, ok := r.(fault.InvariantViolation)
				assert.True(t, ok, "wrong panic value: %v", r)
				assert.Equal(t, 2, c.TotalNumberOfFactorInstances(), "partial delete")
			}()
			c.Delete(toDelete)
		}()
	}
}

// cache with veci 1, mfa 2, rola 1 for accounts and
// veci 1, mfa 2, rola 3 for identities
func TestCacheScenario(t *testing.T) {
	c := cacheWith(t, presetCounts{1, 2, 1, 1, 2, 3})
	id := fixtures.SourceIDAt(0)

	assert.True(t, c.IsEntityCreationSatisfied(chain.Mainnet, id, derivation.Account), "account creation")
	assert.True(t, c.IsEntityCreationSatisfied(chain.Mainnet, id, derivation.Identity), "identity creation")
	assert.False(t, c.IsEntityCreationSatisfied(chain.Stokenet, id, derivation.Account), "stokenet creation")

	assert.True(t, c.IsSatisfied(chain.Mainnet, id, []derivation.QuantifiedDerivationPreset{
		quantified(derivation.AccountVeci, 1),
		quantified(derivation.AccountMfa, 2),
	}), "veci 1 mfa 2")
	assert.False(t, c.IsSatisfied(chain.Mainnet, id, []derivation.QuantifiedDerivationPreset{
		quantified(derivation.AccountVeci, 2),
	}), "veci 2")
	assert.True(t, c.IsSatisfied(chain.Mainnet, id, []derivation.QuantifiedDerivationPreset{
		quantified(derivation.IdentityRola, 3),
	}), "identity rola 3")

	assert.False(t, c.IsFull(chain.Mainnet, id), "full")
	assert.Equal(t, 10, c.TotalNumberOfFactorInstances(), "total")
}

func TestIsFull(t *testing.T) {
	fill := derivation.CacheFillingQuantity
	c := cacheWith(t, presetCounts{fill, fill, fill, fill, fill, fill})
	assert.True(t, c.IsFull(chain.Mainnet, fixtures.SourceIDAt(0)), "not full")
	assert.False(t, c.IsFull(chain.Mainnet, fixtures.SourceIDAt(1)), "other source full")
}

func TestConcurrentInserts(t *testing.T) {
	c := cache.New()
	id := fixtures.SourceIDAt(0)

	const workers = 8
	const each = 5

	wg := sync.WaitGroup{}
	errors := make(chan error, workers)
	for w := 0; w < workers; w += 1 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			instances := fixtures.InstancesAt(0, derivation.AccountMfa, chain.Mainnet, uint32(w*each), each)
			_, err := c.InsertForFactor(id, instances)
			errors <- err
		}(w)
	}
	wg.Wait()
	close(errors)

	for err := range errors {
		assert.Nil(t, err, "insert")
	}

	cached, ok := c.GetMonoFactor(id, derivation.AccountMfa.IndexAgnosticPath(chain.Mainnet))
	assert.True(t, ok, "nothing cached")
	assert.Equal(t, workers*each, len(cached), "wrong count")
	assert.True(t, cached.IsContiguous(), "not contiguous")
}
