// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package profile

import (
	"github.com/google/uuid"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
)

// Network - the entities of one network
type Network struct {
	ID       chain.NetworkID `json:"networkID"`
	Accounts []Entity        `json:"accounts"`
	Personas []Entity        `json:"personas"`
}

// Profile - the wallet's entities across networks
type Profile struct {
	ID            uuid.UUID         `json:"id"`
	FactorSources []factor.SourceID `json:"factorSources"`
	Networks      []Network         `json:"networks"`
}

// New - empty profile with a fresh id
func New(factorSources ...factor.SourceID) *Profile {
	return &Profile{
		ID:            uuid.New(),
		FactorSources: factorSources,
	}
}

// Network - the network's entities, if any
func (p *Profile) Network(id chain.NetworkID) (*Network, bool) {
	for i := range p.Networks {
		if id == p.Networks[i].ID {
			return &p.Networks[i], true
		}
	}
	return nil, false
}

// AddEntity - append an account or persona to its network
func (p *Profile) AddEntity(e Entity) error {
	if !chain.Valid(e.NetworkID) {
		return fault.ErrInvalidNetwork
	}
	if !e.SecurityState.valid() {
		return fault.ErrInvalidSecurityState
	}

	n, ok := p.Network(e.NetworkID)
	if !ok {
		p.Networks = append(p.Networks, Network{ID: e.NetworkID})
		n = &p.Networks[len(p.Networks)-1]
	}
	for _, existing := range n.all() {
		if existing.Address == e.Address {
			return fault.ErrSnapshotInvalid
		}
	}

	switch e.Kind {
	case derivation.Account:
		n.Accounts = append(n.Accounts, e)
	case derivation.Identity:
		n.Personas = append(n.Personas, e)
	default:
		return fault.ErrInvalidEntityKind
	}
	return nil
}

// ReplaceEntity - swap the entity with the same address
func (p *Profile) ReplaceEntity(e Entity) error {
	n, ok := p.Network(e.NetworkID)
	if !ok {
		return fault.ErrInvalidNetwork
	}
	list := n.Accounts
	if derivation.Identity == e.Kind {
		list = n.Personas
	}
	for i := range list {
		if list[i].Address == e.Address {
			list[i] = e
			return nil
		}
	}
	return fault.ErrSnapshotInvalid
}

// Entities - accounts or personas of a network
func (n *Network) Entities(kind derivation.EntityKind) []Entity {
	if derivation.Identity == kind {
		return n.Personas
	}
	return n.Accounts
}

func (n *Network) all() []Entity {
	all := make([]Entity, 0, len(n.Accounts)+len(n.Personas))
	all = append(all, n.Accounts...)
	return append(all, n.Personas...)
}

// UnsecurifiedEntities - entities of a kind still controlled by a veci
func (n *Network) UnsecurifiedEntities(kind derivation.EntityKind) ([]UnsecurifiedEntity, error) {
	result := make([]UnsecurifiedEntity, 0)
	for _, e := range n.Entities(kind) {
		if e.SecurityState.IsSecurified() {
			continue
		}
		u, err := NewUnsecurifiedEntity(e)
		if nil != err {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

// SecurifiedEntities - entities of a kind controlled by a shield
func (n *Network) SecurifiedEntities(kind derivation.EntityKind) ([]SecurifiedEntity, error) {
	result := make([]SecurifiedEntity, 0)
	for _, e := range n.Entities(kind) {
		if !e.SecurityState.IsSecurified() {
			continue
		}
		s, err := NewSecurifiedEntity(e)
		if nil != err {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

// Validate - check a profile read from outside
//
// every network is listed once, every entity is held under its own
// network and kind, and its controlling instances are on the same
// network and for the same kind
func (p *Profile) Validate() error {
	seen := make(map[chain.NetworkID]struct{}, len(p.Networks))
	for i := range p.Networks {
		n := &p.Networks[i]
		if !chain.Valid(n.ID) {
			return fault.ErrInvalidNetwork
		}
		if _, ok := seen[n.ID]; ok {
			return fault.ErrDuplicateNetwork
		}
		seen[n.ID] = struct{}{}

		for _, kind := range []derivation.EntityKind{derivation.Account, derivation.Identity} {
			for _, e := range n.Entities(kind) {
				if e.Kind != kind {
					return fault.ErrWrongEntityKind
				}
				if e.NetworkID != n.ID {
					return fault.ErrNetworkDiscrepancy
				}
				if !e.SecurityState.valid() {
					return fault.ErrInvalidSecurityState
				}
			}
			if _, err := n.UnsecurifiedEntities(kind); nil != err {
				return err
			}
			if _, err := n.SecurifiedEntities(kind); nil != err {
				return err
			}
		}
	}
	return nil
}
