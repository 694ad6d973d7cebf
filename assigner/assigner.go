// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assigner

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/profile"
)

// ProfileAnalyzingAssigner - read only after New, safe for concurrent use
type ProfileAnalyzingAssigner struct {
	network chain.NetworkID

	unsecurifiedAccounts   []profile.UnsecurifiedEntity
	securifiedAccounts     []profile.SecurifiedEntity
	unsecurifiedIdentities []profile.UnsecurifiedEntity
	securifiedIdentities   []profile.SecurifiedEntity

	log *logger.L
}

// New - partition the network's entities of a profile
//
// a nil profile gives an assigner for which nothing is used
func New(network chain.NetworkID, p *profile.Profile) *ProfileAnalyzingAssigner {
	a := &ProfileAnalyzingAssigner{
		network: network,
		log:     logger.New("assigner"),
	}
	if nil == p {
		return a
	}
	n, ok := p.Network(network)
	if !ok {
		return a
	}

	var err error
	a.unsecurifiedAccounts, err = n.UnsecurifiedEntities(derivation.Account)
	fault.PanicIfError("assigner: unsecurified accounts", err)
	a.securifiedAccounts, err = n.SecurifiedEntities(derivation.Account)
	fault.PanicIfError("assigner: securified accounts", err)
	a.unsecurifiedIdentities, err = n.UnsecurifiedEntities(derivation.Identity)
	fault.PanicIfError("assigner: unsecurified identities", err)
	a.securifiedIdentities, err = n.SecurifiedEntities(derivation.Identity)
	fault.PanicIfError("assigner: securified identities", err)

	a.log.Debugf("network: %s  accounts: %d+%d  identities: %d+%d",
		network,
		len(a.unsecurifiedAccounts), len(a.securifiedAccounts),
		len(a.unsecurifiedIdentities), len(a.securifiedIdentities),
	)
	return a
}

// Network - the network the assigner answers for
func (a *ProfileAnalyzingAssigner) Network() chain.NetworkID {
	return a.network
}

// Next - one past the highest index the factor source used for the
// path, false if it never used the path
func (a *ProfileAnalyzingAssigner) Next(id factor.SourceID, path derivation.IndexAgnosticPath) (derivation.HDPathComponent, bool, error) {
	if path.Network != a.network {
		return derivation.HDPathComponent{}, false, fault.ErrNetworkDiscrepancy
	}
	preset, err := derivation.PresetFromIndexAgnosticPath(path)
	if nil != err {
		return derivation.HDPathComponent{}, false, err
	}

	max, ok := a.Max(preset, id)
	if !ok {
		return derivation.HDPathComponent{}, false, nil
	}
	next, err := max.CheckedAddOneToGlobal()
	if nil != err {
		a.log.Errorf("next after: %s  for: %s  error: %s", max, id, err)
		return derivation.HDPathComponent{}, false, err
	}
	return next, true, nil
}

// Max - highest index of the preset used by the factor source
func (a *ProfileAnalyzingAssigner) Max(preset derivation.DerivationPreset, id factor.SourceID) (derivation.HDPathComponent, bool) {
	switch preset {
	case derivation.AccountVeci:
		return a.MaxAccountVeci(id)
	case derivation.AccountMfa:
		return a.MaxAccountMfa(id)
	case derivation.AccountRola:
		return a.MaxAccountRola(id)
	case derivation.IdentityVeci:
		return a.MaxIdentityVeci(id)
	case derivation.IdentityMfa:
		return a.MaxIdentityMfa(id)
	case derivation.IdentityRola:
		return a.MaxIdentityRola(id)
	default:
		return derivation.HDPathComponent{}, false
	}
}

// highest index among the candidates of the factor source on the
// preset's path
func (a *ProfileAnalyzingAssigner) maxOf(preset derivation.DerivationPreset, id factor.SourceID, candidates factor.Instances) (derivation.HDPathComponent, bool) {
	path := preset.IndexAgnosticPath(a.network)
	max := derivation.HDPathComponent{}
	found := false
	for _, i := range candidates {
		if i.SourceID != id || i.AgnosticPath() != path {
			continue
		}
		max, found = derivation.MaxComponent(max, found, i.Index(), true)
	}
	return max, found
}
