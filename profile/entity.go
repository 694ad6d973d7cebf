// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package profile

import (
	"github.com/zeebo/blake3"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/util"
)

// bytes of the key digest in an address
const addressDigestLength = 26

// Address - the on-ledger address of an entity
type Address string

// NewAddress - address of an entity created from a public key
//
//   <account|identity>_<network>1<base58 digest>
func NewAddress(kind derivation.EntityKind, network chain.NetworkID, key factor.PublicKey) Address {
	digest := blake3.Sum256(key.Bytes())
	return Address(kind.String() + "_" + network.String() + "1" + util.ToBase58(digest[:addressDigestLength]))
}

// Entity - an account or a persona
type Entity struct {
	Address       Address               `json:"address"`
	Kind          derivation.EntityKind `json:"kind"`
	NetworkID     chain.NetworkID       `json:"networkID"`
	DisplayName   string                `json:"displayName"`
	SecurityState SecurityState         `json:"securityState"`
}

// NewUnsecuredEntity - entity created from its veci
func NewUnsecuredEntity(displayName string, veci factor.Instance) (Entity, error) {
	path := veci.AgnosticPath()
	preset, err := derivation.PresetFromIndexAgnosticPath(path)
	if nil != err {
		return Entity{}, err
	}
	if derivation.AccountVeci != preset && derivation.IdentityVeci != preset {
		return Entity{}, fault.ErrInvalidDerivationPreset
	}
	return Entity{
		Address:     NewAddress(path.EntityKind, path.Network, veci.PublicKey),
		Kind:        path.EntityKind,
		NetworkID:   path.Network,
		DisplayName: displayName,
		SecurityState: SecurityState{
			Unsecured: &UnsecuredControl{TransactionSigning: veci},
		},
	}, nil
}

// UnsecurifiedEntity - an entity known to be unsecured
type UnsecurifiedEntity struct {
	Entity  Entity
	Control UnsecuredControl
}

// NewUnsecurifiedEntity - view of an unsecured entity
func NewUnsecurifiedEntity(e Entity) (UnsecurifiedEntity, error) {
	if !e.SecurityState.valid() || nil == e.SecurityState.Unsecured {
		return UnsecurifiedEntity{}, fault.ErrNotUnsecurified
	}
	veci := e.SecurityState.Unsecured.TransactionSigning
	if veci.DerivationPath.Network() != e.NetworkID {
		return UnsecurifiedEntity{}, fault.ErrNetworkDiscrepancy
	}
	if veci.DerivationPath.EntityKind() != e.Kind {
		return UnsecurifiedEntity{}, fault.ErrWrongEntityKind
	}
	return UnsecurifiedEntity{Entity: e, Control: *e.SecurityState.Unsecured}, nil
}

// SecurifiedEntity - an entity known to be securified
type SecurifiedEntity struct {
	Entity  Entity
	Control SecurifiedControl
}

// NewSecurifiedEntity - view of a securified entity
func NewSecurifiedEntity(e Entity) (SecurifiedEntity, error) {
	if !e.SecurityState.valid() || nil == e.SecurityState.Securified {
		return SecurifiedEntity{}, fault.ErrNotSecurified
	}
	control := e.SecurityState.Securified
	auth := control.SecurityStructure.AuthenticationSigning
	if auth.DerivationPath.Network() != e.NetworkID {
		return SecurifiedEntity{}, fault.ErrNetworkDiscrepancy
	}
	if auth.DerivationPath.EntityKind() != e.Kind {
		return SecurifiedEntity{}, fault.ErrWrongEntityKind
	}
	return SecurifiedEntity{Entity: e, Control: *control}, nil
}

// Veci - the instance the entity was created with, if known
func (s SecurifiedEntity) Veci() (factor.Instance, bool) {
	if nil == s.Control.Veci {
		return factor.Instance{}, false
	}
	return *s.Control.Veci, true
}
