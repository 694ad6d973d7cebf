// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derivation

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/fault"
)

// fixed CAP26 prefix
const (
	purpose  uint32 = 44
	coinType uint32 = 1022

	cap26Scheme = "cap26"
)

// DerivationPath - a CAP26 path
//
//   m/44H/1022H/<network>H/<entity kind>H/<key kind>H/<index>
type DerivationPath struct {
	agnostic IndexAgnosticPath
	index    HDPathComponent
}

// NewDerivationPath - path from its parts
func NewDerivationPath(network chain.NetworkID, entityKind EntityKind, keyKind KeyKind, index HDPathComponent) (DerivationPath, error) {
	if !chain.Valid(network) {
		return DerivationPath{}, fault.ErrInvalidNetwork
	}
	if _, err := EntityKindFromUint32(uint32(entityKind)); nil != err {
		return DerivationPath{}, err
	}
	if _, err := KeyKindFromUint32(uint32(keyKind)); nil != err {
		return DerivationPath{}, err
	}
	agnostic := IndexAgnosticPath{
		Network:    network,
		EntityKind: entityKind,
		KeyKind:    keyKind,
		KeySpace:   index.KeySpace(),
	}
	return DerivationPath{agnostic: agnostic, index: index}, nil
}

// AgnosticPath - the path without its index
func (p DerivationPath) AgnosticPath() IndexAgnosticPath {
	return p.agnostic
}

// Index - the last component
func (p DerivationPath) Index() HDPathComponent {
	return p.index
}

func (p DerivationPath) Network() chain.NetworkID {
	return p.agnostic.Network
}

func (p DerivationPath) EntityKind() EntityKind {
	return p.agnostic.EntityKind
}

func (p DerivationPath) KeyKind() KeyKind {
	return p.agnostic.KeyKind
}

// String - the canonical path
func (p DerivationPath) String() string {
	b := strings.Builder{}
	b.WriteString("m")
	for _, n := range []uint32{purpose, coinType, uint32(p.agnostic.Network), uint32(p.agnostic.EntityKind), uint32(p.agnostic.KeyKind)} {
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(n), 10))
		b.WriteString(hardenedSuffix)
	}
	b.WriteString("/")
	b.WriteString(p.index.String())
	return b.String()
}

// ParseDerivationPath - inverse of String
func ParseDerivationPath(s string) (DerivationPath, error) {
	parts := strings.Split(s, "/")
	if 7 != len(parts) || "m" != parts[0] {
		return DerivationPath{}, fault.ErrInvalidDerivationPath
	}

	values := [5]uint32{}
	for i := 0; i < 5; i += 1 {
		c, err := ParseHDPathComponent(parts[i+1])
		if nil != err {
			return DerivationPath{}, err
		}
		if UnsecurifiedHardened != c.KeySpace() {
			return DerivationPath{}, fault.ErrInvalidDerivationPath
		}
		values[i] = c.Local()
	}
	if purpose != values[0] || coinType != values[1] {
		return DerivationPath{}, fault.ErrInvalidDerivationPath
	}

	network, err := chain.FromUint32(values[2])
	if nil != err {
		return DerivationPath{}, err
	}
	index, err := ParseHDPathComponent(parts[6])
	if nil != err {
		return DerivationPath{}, err
	}
	return NewDerivationPath(network, EntityKind(values[3]), KeyKind(values[4]), index)
}

type pathJSON struct {
	Scheme string `json:"scheme"`
	Path   string `json:"path"`
}

// MarshalJSON - {"scheme":"cap26","path":"m/..."}
func (p DerivationPath) MarshalJSON() ([]byte, error) {
	return json.Marshal(pathJSON{Scheme: cap26Scheme, Path: p.String()})
}

// UnmarshalJSON - inverse of MarshalJSON
func (p *DerivationPath) UnmarshalJSON(data []byte) error {
	var j pathJSON
	if err := json.Unmarshal(data, &j); nil != err {
		return err
	}
	if cap26Scheme != j.Scheme {
		return fault.ErrInvalidDerivationPath
	}
	parsed, err := ParseDerivationPath(j.Path)
	if nil != err {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText - the canonical path, used by binary encoders
func (p DerivationPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText - inverse of MarshalText
func (p *DerivationPath) UnmarshalText(text []byte) error {
	parsed, err := ParseDerivationPath(string(text))
	if nil != err {
		return err
	}
	*p = parsed
	return nil
}
