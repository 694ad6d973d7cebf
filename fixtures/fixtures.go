// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/derive"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/profile"
)

// SeedAt - seed of the i'th sample factor source
func SeedAt(i int) []byte {
	seed := sha3.Sum256([]byte("sample factor source " + strconv.Itoa(i)))
	return seed[:]
}

// SourceIDAt - id of the i'th sample factor source
func SourceIDAt(i int) factor.SourceID {
	id, err := derive.SimulatedSourceID(factor.Device, SeedAt(i))
	fault.PanicIfError("fixtures.SourceIDAt", err)
	return id
}

// NewDeriver - simulated deriver knowing sample sources 0..n-1
func NewDeriver(n int) *derive.Simulated {
	d := derive.NewSimulated()
	for i := 0; i < n; i += 1 {
		_, err := d.AddSource(factor.Device, SeedAt(i))
		fault.PanicIfError("fixtures.NewDeriver", err)
	}
	return d
}

// PathAt - path of a preset at a local index
func PathAt(preset derivation.DerivationPreset, network chain.NetworkID, local uint32) derivation.DerivationPath {
	index, err := derivation.NewHDPathComponent(preset.KeySpace(), local)
	fault.PanicIfError("fixtures.PathAt", err)
	path, err := preset.IndexAgnosticPath(network).WithIndex(index)
	fault.PanicIfError("fixtures.PathAt", err)
	return path
}

// InstanceAt - instance of a sample source for a preset at a local index
func InstanceAt(source int, preset derivation.DerivationPreset, network chain.NetworkID, local uint32) factor.Instance {
	path := PathAt(preset, network, local)
	return factor.Instance{
		SourceID:       SourceIDAt(source),
		PublicKey:      derive.SimulatedPublicKey(SeedAt(source), path),
		DerivationPath: path,
	}
}

// InstancesAt - count instances with consecutive indices from local
func InstancesAt(source int, preset derivation.DerivationPreset, network chain.NetworkID, local uint32, count int) factor.Instances {
	instances := make(factor.Instances, 0, count)
	for i := 0; i < count; i += 1 {
		instances = append(instances, InstanceAt(source, preset, network, local+uint32(i)))
	}
	return instances
}

// AccountAt - mainnet account of source 0 created with veci index i
func AccountAt(i uint32) profile.Entity {
	return unsecured("Account "+strconv.Itoa(int(i)), InstanceAt(0, derivation.AccountVeci, chain.Mainnet, i))
}

// IdentityAt - mainnet persona of source 0 created with veci index i
func IdentityAt(i uint32) profile.Entity {
	return unsecured("Persona "+strconv.Itoa(int(i)), InstanceAt(0, derivation.IdentityVeci, chain.Mainnet, i))
}

func unsecured(name string, veci factor.Instance) profile.Entity {
	e, err := profile.NewUnsecuredEntity(name, veci)
	fault.PanicIfError("fixtures.unsecured", err)
	return e
}

// StructureOf - security structure with mfa as primary threshold
// factors and rola for authentication signing
func StructureOf(mfa factor.Instances, rola factor.Instance) *profile.SecurityStructureOfFactorInstances {
	return &profile.SecurityStructureOfFactorInstances{
		SecurityStructureID: uuid.New(),
		Matrix: profile.MatrixOfFactorInstances{
			Primary: profile.RoleWithFactorInstances{
				Threshold:        uint8(len(mfa)),
				ThresholdFactors: mfa,
			},
		},
		AuthenticationSigning: rola,
	}
}

// Securified - securified entity controlled by the instances
func Securified(name string, mfa factor.Instances, rola factor.Instance, veci *factor.Instance) profile.Entity {
	path := rola.DerivationPath
	return profile.Entity{
		Address:     profile.NewAddress(path.EntityKind(), path.Network(), rola.PublicKey),
		Kind:        path.EntityKind(),
		NetworkID:   path.Network(),
		DisplayName: name,
		SecurityState: profile.SecurityState{
			Securified: &profile.SecurifiedControl{
				AccessControllerAddress: "accesscontroller_" + path.Network().String() + "1" + rola.PublicKey.String()[:16],
				SecurityStructure:       *StructureOf(mfa, rola),
				Veci:                    veci,
			},
		},
	}
}

// Provisional - provisional config with derived instances
func Provisional(mfa factor.Instances, rola factor.Instance) *profile.ProvisionalConfig {
	structure := StructureOf(mfa, rola)
	return &profile.ProvisionalConfig{
		Kind:      profile.FactorInstancesDerived,
		ShieldID:  structure.SecurityStructureID,
		Instances: structure,
	}
}

// ProfileOf - profile of sample sources 0..n-1 with the entities
func ProfileOf(n int, entities ...profile.Entity) *profile.Profile {
	ids := make([]factor.SourceID, 0, n)
	for i := 0; i < n; i += 1 {
		ids = append(ids, SourceIDAt(i))
	}
	p := profile.New(ids...)
	for _, e := range entities {
		fault.PanicIfError("fixtures.ProfileOf", p.AddEntity(e))
	}
	return p
}
