// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assigner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/walletbrain/assigner"
	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/fixtures"
	"github.com/bitmark-inc/walletbrain/profile"
)

func path(preset derivation.DerivationPreset) derivation.IndexAgnosticPath {
	return preset.IndexAgnosticPath(chain.Mainnet)
}

func assertNext(t *testing.T, a *assigner.ProfileAnalyzingAssigner, id factor.SourceID, preset derivation.DerivationPreset, expected derivation.HDPathComponent, title string) {
	next, ok, err := a.Next(id, path(preset))
	assert.Nil(t, err, "%s: error", title)
	assert.True(t, ok, "%s: unused", title)
	assert.Equal(t, expected, next, "%s: wrong next", title)
}

func assertUnused(t *testing.T, a *assigner.ProfileAnalyzingAssigner, id factor.SourceID, preset derivation.DerivationPreset, title string) {
	_, ok, err := a.Next(id, path(preset))
	assert.Nil(t, err, "%s: error", title)
	assert.False(t, ok, "%s: used", title)
}

func TestSingleAccount(t *testing.T) {
	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(2, fixtures.AccountAt(0)))

	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountVeci, derivation.Hardened(1), "source 0")
	assertUnused(t, a, fixtures.SourceIDAt(1), derivation.AccountVeci, "source 1")
	assertUnused(t, a, fixtures.SourceIDAt(0), derivation.IdentityVeci, "identity")
	assertUnused(t, a, fixtures.SourceIDAt(0), derivation.AccountMfa, "mfa")
}

func TestContiguousAccounts(t *testing.T) {
	for _, n := range []uint32{0, 1, 5, 20} {
		entities := make([]profile.Entity, 0, n+1)
		for i := uint32(0); i <= n; i += 1 {
			entities = append(entities, fixtures.AccountAt(i))
		}
		a := assigner.New(chain.Mainnet, fixtures.ProfileOf(1, entities...))
		assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountVeci, derivation.Hardened(n+1), "contiguous")
	}
}

func TestNoProfile(t *testing.T) {
	a := assigner.New(chain.Mainnet, nil)
	for _, preset := range derivation.AllDerivationPresets() {
		assertUnused(t, a, fixtures.SourceIDAt(0), preset, preset.String())
	}
}

func TestNetworkDiscrepancy(t *testing.T) {
	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(1, fixtures.AccountAt(0)))
	for _, preset := range derivation.AllDerivationPresets() {
		_, _, err := a.Next(fixtures.SourceIDAt(0), preset.IndexAgnosticPath(chain.Stokenet))
		assert.Equal(t, fault.ErrNetworkDiscrepancy, err, "%s: wrong error", preset)
	}

	empty := assigner.New(chain.Stokenet, nil)
	_, _, err := empty.Next(fixtures.SourceIDAt(0), path(derivation.AccountVeci))
	assert.Equal(t, fault.ErrNetworkDiscrepancy, err, "no profile")
}

func TestOtherNetworkIgnored(t *testing.T) {
	veci := fixtures.InstanceAt(0, derivation.AccountVeci, chain.Stokenet, 4)
	e, err := profile.NewUnsecuredEntity("Stokenet", veci)
	assert.Nil(t, err, "entity")

	p := fixtures.ProfileOf(1, fixtures.AccountAt(0), e)

	assertNext(t, assigner.New(chain.Mainnet, p), fixtures.SourceIDAt(0), derivation.AccountVeci, derivation.Hardened(1), "mainnet")

	stokenet := assigner.New(chain.Stokenet, p)
	next, ok, err := stokenet.Next(fixtures.SourceIDAt(0), derivation.AccountVeci.IndexAgnosticPath(chain.Stokenet))
	assert.Nil(t, err, "stokenet error")
	assert.True(t, ok, "stokenet unused")
	assert.Equal(t, derivation.Hardened(5), next, "stokenet next")
}

func TestUnhardenedPathRejected(t *testing.T) {
	a := assigner.New(chain.Mainnet, nil)
	unhardened := derivation.IndexAgnosticPath{
		Network:    chain.Mainnet,
		EntityKind: derivation.Account,
		KeyKind:    derivation.TransactionSigning,
		KeySpace:   derivation.UnsecurifiedUnhardened,
	}
	_, _, err := a.Next(fixtures.SourceIDAt(0), unhardened)
	assert.Equal(t, fault.ErrInvalidIndexAgnosticPath, err, "wrong error")
}

func TestProvisionalCountsAsUsed(t *testing.T) {
	e := fixtures.AccountAt(0)
	e.SecurityState.Unsecured.Provisional = fixtures.Provisional(
		fixtures.InstancesAt(0, derivation.AccountMfa, chain.Mainnet, 7, 1),
		fixtures.InstanceAt(0, derivation.AccountRola, chain.Mainnet, 3),
	)
	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(1, e))

	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountMfa, derivation.SecurifiedIndex(8), "provisional mfa")
	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountRola, derivation.SecurifiedIndex(4), "provisional rola")
	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountVeci, derivation.Hardened(1), "veci")

	// shield chosen but nothing derived yet
	e.SecurityState.Unsecured.Provisional.Kind = profile.ShieldSelected
	a = assigner.New(chain.Mainnet, fixtures.ProfileOf(1, e))
	assertUnused(t, a, fixtures.SourceIDAt(0), derivation.AccountMfa, "shield selected")
}

func TestSecurifiedKeepsVeciUsed(t *testing.T) {
	veci := fixtures.InstanceAt(0, derivation.IdentityVeci, chain.Mainnet, 7)
	e := fixtures.Securified("Persona",
		fixtures.InstancesAt(0, derivation.IdentityMfa, chain.Mainnet, 0, 1),
		fixtures.InstanceAt(0, derivation.IdentityRola, chain.Mainnet, 0),
		&veci,
	)
	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(1, fixtures.IdentityAt(2), e))

	assertNext(t, a, fixtures.SourceIDAt(0), derivation.IdentityVeci, derivation.Hardened(8), "historical veci")
	assertNext(t, a, fixtures.SourceIDAt(0), derivation.IdentityMfa, derivation.SecurifiedIndex(1), "mfa")
	assertNext(t, a, fixtures.SourceIDAt(0), derivation.IdentityRola, derivation.SecurifiedIndex(1), "rola")
	assertUnused(t, a, fixtures.SourceIDAt(0), derivation.AccountMfa, "account mfa")
}

func TestMfaOfAnyRole(t *testing.T) {
	rola := fixtures.InstanceAt(1, derivation.AccountRola, chain.Mainnet, 0)
	e := fixtures.Securified("Shielded",
		fixtures.InstancesAt(0, derivation.AccountMfa, chain.Mainnet, 0, 1),
		rola,
		nil,
	)
	matrix := &e.SecurityState.Securified.SecurityStructure.Matrix
	matrix.Recovery.OverrideFactors = factor.Instances{fixtures.InstanceAt(1, derivation.AccountMfa, chain.Mainnet, 11)}
	matrix.Confirmation.ThresholdFactors = factor.Instances{fixtures.InstanceAt(0, derivation.AccountMfa, chain.Mainnet, 4)}

	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(2, e))

	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountMfa, derivation.SecurifiedIndex(5), "confirmation role")
	assertNext(t, a, fixtures.SourceIDAt(1), derivation.AccountMfa, derivation.SecurifiedIndex(12), "recovery role")
	assertNext(t, a, fixtures.SourceIDAt(1), derivation.AccountRola, derivation.SecurifiedIndex(1), "rola")
	assertUnused(t, a, fixtures.SourceIDAt(0), derivation.AccountRola, "rola of other source")
	assertUnused(t, a, fixtures.SourceIDAt(0), derivation.AccountVeci, "no veci")
}

func TestSecurifiedWithProvisionalUpgrade(t *testing.T) {
	e := fixtures.Securified("Shielded",
		fixtures.InstancesAt(0, derivation.AccountMfa, chain.Mainnet, 0, 2),
		fixtures.InstanceAt(0, derivation.AccountRola, chain.Mainnet, 2),
		nil,
	)
	e.SecurityState.Securified.Provisional = fixtures.Provisional(
		fixtures.InstancesAt(0, derivation.AccountMfa, chain.Mainnet, 9, 1),
		fixtures.InstanceAt(0, derivation.AccountRola, chain.Mainnet, 5),
	)
	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(1, e))

	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountRola, derivation.SecurifiedIndex(6), "provisional rola")
	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountMfa, derivation.SecurifiedIndex(10), "provisional mfa")

	// committed instances higher than the provisional ones
	e.SecurityState.Securified.Provisional = fixtures.Provisional(
		fixtures.InstancesAt(0, derivation.AccountMfa, chain.Mainnet, 0, 0),
		fixtures.InstanceAt(0, derivation.AccountRola, chain.Mainnet, 1),
	)
	a = assigner.New(chain.Mainnet, fixtures.ProfileOf(1, e))
	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountRola, derivation.SecurifiedIndex(3), "committed rola")
	assertNext(t, a, fixtures.SourceIDAt(0), derivation.AccountMfa, derivation.SecurifiedIndex(2), "committed mfa")
}

func TestNextOverflow(t *testing.T) {
	e, err := profile.NewUnsecuredEntity("Last", fixtures.InstanceAt(0, derivation.AccountVeci, chain.Mainnet, 1<<30-1))
	assert.Nil(t, err, "entity")

	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(1, e))
	_, ok, err := a.Next(fixtures.SourceIDAt(0), path(derivation.AccountVeci))
	assert.Equal(t, fault.ErrIndexOverflow, err, "overflow not reported")
	assert.False(t, ok, "overflowed index returned")
}

func TestMaxDispatch(t *testing.T) {
	a := assigner.New(chain.Mainnet, fixtures.ProfileOf(1, fixtures.AccountAt(3), fixtures.IdentityAt(6)))

	max, ok := a.Max(derivation.AccountVeci, fixtures.SourceIDAt(0))
	assert.True(t, ok, "account veci")
	assert.Equal(t, derivation.Hardened(3), max, "account veci max")

	max, ok = a.Max(derivation.IdentityVeci, fixtures.SourceIDAt(0))
	assert.True(t, ok, "identity veci")
	assert.Equal(t, derivation.Hardened(6), max, "identity veci max")

	_, ok = a.Max(derivation.DerivationPreset(42), fixtures.SourceIDAt(0))
	assert.False(t, ok, "invalid preset")
}
