// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package profile

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
)

// RoleWithFactorInstances - the instances of one role of a matrix
type RoleWithFactorInstances struct {
	Threshold        uint8            `json:"threshold"`
	ThresholdFactors factor.Instances `json:"thresholdFactors"`
	OverrideFactors  factor.Instances `json:"overrideFactors"`
}

// AllFactorInstances - threshold then override instances
func (r RoleWithFactorInstances) AllFactorInstances() factor.Instances {
	all := make(factor.Instances, 0, len(r.ThresholdFactors)+len(r.OverrideFactors))
	all = append(all, r.ThresholdFactors...)
	return append(all, r.OverrideFactors...)
}

// MatrixOfFactorInstances - primary, recovery and confirmation roles
type MatrixOfFactorInstances struct {
	Primary      RoleWithFactorInstances `json:"primaryRole"`
	Recovery     RoleWithFactorInstances `json:"recoveryRole"`
	Confirmation RoleWithFactorInstances `json:"confirmationRole"`
}

// AllFactorInstances - instances of every role
func (m MatrixOfFactorInstances) AllFactorInstances() factor.Instances {
	all := m.Primary.AllFactorInstances()
	all = append(all, m.Recovery.AllFactorInstances()...)
	return append(all, m.Confirmation.AllFactorInstances()...)
}

// SecurityStructureOfFactorInstances - a shield applied to one entity
type SecurityStructureOfFactorInstances struct {
	SecurityStructureID   uuid.UUID               `json:"securityStructureId"`
	Matrix                MatrixOfFactorInstances `json:"matrixOfFactors"`
	AuthenticationSigning factor.Instance         `json:"authenticationSigningFactorInstance"`
}

// ProvisionalKind - how far a provisional upgrade has progressed
type ProvisionalKind uint8

// provisional stages
const (
	ShieldSelected ProvisionalKind = iota
	FactorInstancesDerived
	TransactionQueued
	provisionalLimit
)

var provisionalNames = [provisionalLimit]string{
	ShieldSelected:         "shieldSelected",
	FactorInstancesDerived: "factorInstancesDerived",
	TransactionQueued:      "transactionQueued",
}

func (k ProvisionalKind) String() string {
	if k >= provisionalLimit {
		return "provisional(" + strconv.Itoa(int(k)) + ")"
	}
	return provisionalNames[k]
}

// MarshalText - stage name
func (k ProvisionalKind) MarshalText() ([]byte, error) {
	if k >= provisionalLimit {
		return nil, fault.ErrSnapshotInvalid
	}
	return []byte(provisionalNames[k]), nil
}

// UnmarshalText - stage from name
func (k *ProvisionalKind) UnmarshalText(text []byte) error {
	for n := ShieldSelected; n < provisionalLimit; n += 1 {
		if provisionalNames[n] == string(text) {
			*k = n
			return nil
		}
	}
	return fault.ErrSnapshotInvalid
}

// ProvisionalConfig - a security upgrade that has not been committed
//
// once instances are derived they are spent even though the
// entity's committed state does not reference them yet
type ProvisionalConfig struct {
	Kind          ProvisionalKind                     `json:"discriminator"`
	ShieldID      uuid.UUID                           `json:"shieldId"`
	Instances     *SecurityStructureOfFactorInstances `json:"factorInstances,omitempty"`
	TransactionID string                              `json:"transactionId,omitempty"`
}

// DerivedInstances - the provisional instances, nil if none derived
func (p *ProvisionalConfig) DerivedInstances() *SecurityStructureOfFactorInstances {
	if nil == p || ShieldSelected == p.Kind {
		return nil
	}
	return p.Instances
}

// UnsecuredControl - an entity controlled by its veci
type UnsecuredControl struct {
	TransactionSigning factor.Instance    `json:"transactionSigning"`
	Provisional        *ProvisionalConfig `json:"provisionalSecurifiedConfig,omitempty"`
}

// SecurifiedControl - an entity controlled by a shield
//
// Veci is the instance the entity was created with, if it was
// created unsecurified
type SecurifiedControl struct {
	AccessControllerAddress string                             `json:"accessControllerAddress"`
	SecurityStructure       SecurityStructureOfFactorInstances `json:"securityStructure"`
	Veci                    *factor.Instance                   `json:"veci,omitempty"`
	Provisional             *ProvisionalConfig                 `json:"provisionalSecurifiedConfig,omitempty"`
}

// SecurityState - exactly one of the two must be set
type SecurityState struct {
	Unsecured  *UnsecuredControl  `json:"unsecured,omitempty"`
	Securified *SecurifiedControl `json:"securified,omitempty"`
}

// IsSecurified - true if controlled by a shield
func (s SecurityState) IsSecurified() bool {
	return nil != s.Securified
}

// Provisional - the provisional config of either state
func (s SecurityState) Provisional() *ProvisionalConfig {
	switch {
	case nil != s.Securified:
		return s.Securified.Provisional
	case nil != s.Unsecured:
		return s.Unsecured.Provisional
	default:
		return nil
	}
}

func (s SecurityState) valid() bool {
	return (nil == s.Unsecured) != (nil == s.Securified)
}
