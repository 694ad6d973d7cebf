// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assigner

import (
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/profile"
)

// MaxAccountVeci - highest account creating index
func (a *ProfileAnalyzingAssigner) MaxAccountVeci(id factor.SourceID) (derivation.HDPathComponent, bool) {
	return a.maxOf(derivation.AccountVeci, id, veciInstances(a.unsecurifiedAccounts, a.securifiedAccounts))
}

// MaxIdentityVeci - highest persona creating index
func (a *ProfileAnalyzingAssigner) MaxIdentityVeci(id factor.SourceID) (derivation.HDPathComponent, bool) {
	return a.maxOf(derivation.IdentityVeci, id, veciInstances(a.unsecurifiedIdentities, a.securifiedIdentities))
}

// MaxAccountMfa - highest account transaction signing index of any
// role, committed or provisional
func (a *ProfileAnalyzingAssigner) MaxAccountMfa(id factor.SourceID) (derivation.HDPathComponent, bool) {
	return a.maxOf(derivation.AccountMfa, id, mfaInstances(a.unsecurifiedAccounts, a.securifiedAccounts))
}

// MaxIdentityMfa - highest persona transaction signing index of any
// role, committed or provisional
func (a *ProfileAnalyzingAssigner) MaxIdentityMfa(id factor.SourceID) (derivation.HDPathComponent, bool) {
	return a.maxOf(derivation.IdentityMfa, id, mfaInstances(a.unsecurifiedIdentities, a.securifiedIdentities))
}

// MaxAccountRola - highest account authentication signing index,
// committed or provisional
func (a *ProfileAnalyzingAssigner) MaxAccountRola(id factor.SourceID) (derivation.HDPathComponent, bool) {
	return a.maxOf(derivation.AccountRola, id, rolaInstances(a.unsecurifiedAccounts, a.securifiedAccounts))
}

// MaxIdentityRola - highest persona authentication signing index,
// committed or provisional
func (a *ProfileAnalyzingAssigner) MaxIdentityRola(id factor.SourceID) (derivation.HDPathComponent, bool) {
	return a.maxOf(derivation.IdentityRola, id, rolaInstances(a.unsecurifiedIdentities, a.securifiedIdentities))
}

// creating instances, including those of securified entities
func veciInstances(unsecurified []profile.UnsecurifiedEntity, securified []profile.SecurifiedEntity) factor.Instances {
	result := make(factor.Instances, 0, len(unsecurified)+len(securified))
	for _, u := range unsecurified {
		result = append(result, u.Control.TransactionSigning)
	}
	for _, s := range securified {
		if veci, ok := s.Veci(); ok {
			result = append(result, veci)
		}
	}
	return result
}

// every matrix instance, committed and provisional
func mfaInstances(unsecurified []profile.UnsecurifiedEntity, securified []profile.SecurifiedEntity) factor.Instances {
	result := make(factor.Instances, 0)
	for _, u := range unsecurified {
		if derived := u.Control.Provisional.DerivedInstances(); nil != derived {
			result = append(result, derived.Matrix.AllFactorInstances()...)
		}
	}
	for _, s := range securified {
		result = append(result, s.Control.SecurityStructure.Matrix.AllFactorInstances()...)
		if derived := s.Control.Provisional.DerivedInstances(); nil != derived {
			result = append(result, derived.Matrix.AllFactorInstances()...)
		}
	}
	return result
}

// authentication signing instances, committed and provisional
func rolaInstances(unsecurified []profile.UnsecurifiedEntity, securified []profile.SecurifiedEntity) factor.Instances {
	result := make(factor.Instances, 0)
	for _, u := range unsecurified {
		if derived := u.Control.Provisional.DerivedInstances(); nil != derived {
			result = append(result, derived.AuthenticationSigning)
		}
	}
	for _, s := range securified {
		result = append(result, s.Control.SecurityStructure.AuthenticationSigning)
		if derived := s.Control.Provisional.DerivedInstances(); nil != derived {
			result = append(result, derived.AuthenticationSigning)
		}
	}
	return result
}
