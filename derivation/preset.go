// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derivation

import (
	"strconv"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/fault"
)

// DerivationPreset - the supported shapes of index agnostic path
//
//   veci: virtual entity creating instance, unsecurified hardened
//   mfa:  transaction signing instance of a security shield, securified
//   rola: authentication signing instance of a security shield, securified
type DerivationPreset uint8

// all presets, in canonical order
const (
	AccountVeci DerivationPreset = iota
	AccountMfa
	AccountRola
	IdentityVeci
	IdentityMfa
	IdentityRola
	presetLimit
)

// CacheFillingQuantity - the number of instances of each preset the
// cache tries to hold per factor source
const CacheFillingQuantity = 30

type presetInfo struct {
	name       string
	entityKind EntityKind
	keyKind    KeyKind
	keySpace   KeySpace
	fill       int
}

var presets = [presetLimit]presetInfo{
	AccountVeci:  {"accountVeci", Account, TransactionSigning, UnsecurifiedHardened, CacheFillingQuantity},
	AccountMfa:   {"accountMfa", Account, TransactionSigning, Securified, CacheFillingQuantity},
	AccountRola:  {"accountRola", Account, AuthenticationSigning, Securified, CacheFillingQuantity},
	IdentityVeci: {"identityVeci", Identity, TransactionSigning, UnsecurifiedHardened, CacheFillingQuantity},
	IdentityMfa:  {"identityMfa", Identity, TransactionSigning, Securified, CacheFillingQuantity},
	IdentityRola: {"identityRola", Identity, AuthenticationSigning, Securified, CacheFillingQuantity},
}

// AllDerivationPresets - every preset in canonical order
func AllDerivationPresets() []DerivationPreset {
	all := make([]DerivationPreset, 0, presetLimit)
	for p := AccountVeci; p < presetLimit; p += 1 {
		all = append(all, p)
	}
	return all
}

// Valid - true for a known preset
func (p DerivationPreset) Valid() bool {
	return p < presetLimit
}

// String - preset name
func (p DerivationPreset) String() string {
	if !p.Valid() {
		return "preset(" + strconv.Itoa(int(p)) + ")"
	}
	return presets[p].name
}

// EntityKind - the kind of entity the preset is for
func (p DerivationPreset) EntityKind() EntityKind {
	return presets[p].entityKind
}

// KeyKind - the kind of key the preset derives
func (p DerivationPreset) KeyKind() KeyKind {
	return presets[p].keyKind
}

// KeySpace - the key space of the preset's indices
func (p DerivationPreset) KeySpace() KeySpace {
	return presets[p].keySpace
}

// CacheFillingQuantity - target pool size for this preset
func (p DerivationPreset) CacheFillingQuantity() int {
	return presets[p].fill
}

// IndexAgnosticPath - the path this preset maps to on a network
func (p DerivationPreset) IndexAgnosticPath(network chain.NetworkID) IndexAgnosticPath {
	info := presets[p]
	return IndexAgnosticPath{
		Network:    network,
		EntityKind: info.entityKind,
		KeyKind:    info.keyKind,
		KeySpace:   info.keySpace,
	}
}

// PresetFromIndexAgnosticPath - inverse of IndexAgnosticPath
//
// only fails for paths that match no preset
func PresetFromIndexAgnosticPath(path IndexAgnosticPath) (DerivationPreset, error) {
	for p := AccountVeci; p < presetLimit; p += 1 {
		info := presets[p]
		if info.entityKind == path.EntityKind && info.keyKind == path.KeyKind && info.keySpace == path.KeySpace {
			return p, nil
		}
	}
	return 0, fault.ErrInvalidIndexAgnosticPath
}

// ForEntityCreation - the preset used to create a new entity of the kind
func ForEntityCreation(kind EntityKind) (DerivationPreset, error) {
	switch kind {
	case Account:
		return AccountVeci, nil
	case Identity:
		return IdentityVeci, nil
	default:
		return 0, fault.ErrInvalidEntityKind
	}
}

// MarshalText - preset name
func (p DerivationPreset) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fault.ErrInvalidDerivationPreset
	}
	return []byte(presets[p].name), nil
}

// UnmarshalText - preset from its name
func (p *DerivationPreset) UnmarshalText(text []byte) error {
	parsed, err := ParseDerivationPreset(string(text))
	if nil != err {
		return err
	}
	*p = parsed
	return nil
}

// ParseDerivationPreset - preset from its name
func ParseDerivationPreset(name string) (DerivationPreset, error) {
	for p := AccountVeci; p < presetLimit; p += 1 {
		if presets[p].name == name {
			return p, nil
		}
	}
	return 0, fault.ErrInvalidDerivationPreset
}

// QuantifiedDerivationPreset - a preset and how many instances of it
type QuantifiedDerivationPreset struct {
	Preset   DerivationPreset
	Quantity int
}
