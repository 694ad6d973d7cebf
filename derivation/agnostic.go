// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derivation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/fault"
)

const agnosticIndexMarker = "?"

// IndexAgnosticPath - a derivation path without its index
//
// comparable, so it is used directly as a map key; the text form is
// a durable cache key and must stay bit-exact:
//
//   1H/525H/1460H/H?   mainnet account transaction signing, hardened
//   1H/525H/1678H/S?   mainnet account authentication signing, securified
type IndexAgnosticPath struct {
	Network    chain.NetworkID
	EntityKind EntityKind
	KeyKind    KeyKind
	KeySpace   KeySpace
}

// String - compact text form
func (p IndexAgnosticPath) String() string {
	return fmt.Sprintf("%dH/%dH/%dH/%s%s", p.Network, p.EntityKind, p.KeyKind, p.KeySpace.suffix(), agnosticIndexMarker)
}

// WithIndex - a full derivation path
//
// fails if index is in a different key space
func (p IndexAgnosticPath) WithIndex(index HDPathComponent) (DerivationPath, error) {
	if index.KeySpace() != p.KeySpace {
		return DerivationPath{}, fault.ErrIndexOutOfRange
	}
	return DerivationPath{agnostic: p, index: index}, nil
}

// FirstIndex - local index zero in the path's key space
func (p IndexAgnosticPath) FirstIndex() HDPathComponent {
	return HDPathComponent{keySpace: p.KeySpace}
}

// ParseIndexAgnosticPath - inverse of String
func ParseIndexAgnosticPath(s string) (IndexAgnosticPath, error) {
	parts := strings.Split(s, "/")
	if 4 != len(parts) {
		return IndexAgnosticPath{}, fault.ErrInvalidIndexAgnosticPath
	}

	values := [3]uint32{}
	for i := 0; i < 3; i += 1 {
		if !strings.HasSuffix(parts[i], hardenedSuffix) {
			return IndexAgnosticPath{}, fault.ErrInvalidIndexAgnosticPath
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(parts[i], hardenedSuffix), 10, 32)
		if nil != err {
			return IndexAgnosticPath{}, fault.ErrInvalidIndexAgnosticPath
		}
		values[i] = uint32(n)
	}

	network, err := chain.FromUint32(values[0])
	if nil != err {
		return IndexAgnosticPath{}, err
	}
	entityKind, err := EntityKindFromUint32(values[1])
	if nil != err {
		return IndexAgnosticPath{}, err
	}
	keyKind, err := KeyKindFromUint32(values[2])
	if nil != err {
		return IndexAgnosticPath{}, err
	}

	var keySpace KeySpace
	switch parts[3] {
	case hardenedSuffix + agnosticIndexMarker:
		keySpace = UnsecurifiedHardened
	case securifiedSuffix + agnosticIndexMarker:
		keySpace = Securified
	case agnosticIndexMarker:
		keySpace = UnsecurifiedUnhardened
	default:
		return IndexAgnosticPath{}, fault.ErrInvalidIndexAgnosticPath
	}

	return IndexAgnosticPath{
		Network:    network,
		EntityKind: entityKind,
		KeyKind:    keyKind,
		KeySpace:   keySpace,
	}, nil
}

// MarshalText - so the path can key a JSON object
func (p IndexAgnosticPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText - from the compact text form
func (p *IndexAgnosticPath) UnmarshalText(text []byte) error {
	parsed, err := ParseIndexAgnosticPath(string(text))
	if nil != err {
		return err
	}
	*p = parsed
	return nil
}

// Less - a total order, used for deterministic iteration
func (p IndexAgnosticPath) Less(other IndexAgnosticPath) bool {
	if p.Network != other.Network {
		return p.Network < other.Network
	}
	if p.EntityKind != other.EntityKind {
		return p.EntityKind < other.EntityKind
	}
	if p.KeyKind != other.KeyKind {
		return p.KeyKind < other.KeyKind
	}
	return p.KeySpace < other.KeySpace
}
