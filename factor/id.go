// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factor

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bitmark-inc/walletbrain/fault"
)

// SourceKind - the kind of a factor source
type SourceKind uint8

// known factor source kinds
const (
	Device SourceKind = iota
	LedgerHQHardwareWallet
	OffDeviceMnemonic
	ArculusCard
	Password
	kindLimit
)

var kindNames = [kindLimit]string{
	Device:                 "device",
	LedgerHQHardwareWallet: "ledgerHQHardwareWallet",
	OffDeviceMnemonic:      "offDeviceMnemonic",
	ArculusCard:            "arculusCard",
	Password:               "password",
}

// String - discriminator used in the text form of a source id
func (k SourceKind) String() string {
	if k >= kindLimit {
		return "unknown"
	}
	return kindNames[k]
}

// ParseSourceKind - kind from its discriminator
func ParseSourceKind(s string) (SourceKind, error) {
	for k := Device; k < kindLimit; k += 1 {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return 0, fault.ErrInvalidFactorSourceKind
}

// IDBodyLength - bytes in the hash body of a source id
const IDBodyLength = 32

// SourceID - identifies a factor source by kind and hash
//
// comparable, used as a map key; text form is "<kind>:<hex body>"
type SourceID struct {
	Kind SourceKind
	Body [IDBodyLength]byte
}

// NewSourceIDFromHash - id whose body is the blake3 hash of data,
// typically the public key of the source's root
func NewSourceIDFromHash(kind SourceKind, data []byte) (SourceID, error) {
	if kind >= kindLimit {
		return SourceID{}, fault.ErrInvalidFactorSourceKind
	}
	if 0 == len(data) {
		return SourceID{}, fault.ErrKeyLength
	}
	return SourceID{Kind: kind, Body: blake3.Sum256(data)}, nil
}

// String - "<kind>:<hex body>"
func (id SourceID) String() string {
	return id.Kind.String() + ":" + hex.EncodeToString(id.Body[:])
}

// Compare - order by kind then body
func (id SourceID) Compare(other SourceID) int {
	switch {
	case id.Kind < other.Kind:
		return -1
	case id.Kind > other.Kind:
		return 1
	default:
		return bytes.Compare(id.Body[:], other.Body[:])
	}
}

// ParseSourceID - inverse of String
func ParseSourceID(s string) (SourceID, error) {
	n := strings.IndexByte(s, ':')
	if n < 0 {
		return SourceID{}, fault.ErrInvalidFactorSourceID
	}
	kind, err := ParseSourceKind(s[:n])
	if nil != err {
		return SourceID{}, err
	}
	body, err := hex.DecodeString(s[n+1:])
	if nil != err || IDBodyLength != len(body) {
		return SourceID{}, fault.ErrInvalidFactorSourceID
	}
	id := SourceID{Kind: kind}
	copy(id.Body[:], body)
	return id, nil
}

// MarshalText - so the id can key a JSON object
func (id SourceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText - from the text form
func (id *SourceID) UnmarshalText(text []byte) error {
	parsed, err := ParseSourceID(string(text))
	if nil != err {
		return err
	}
	*id = parsed
	return nil
}
