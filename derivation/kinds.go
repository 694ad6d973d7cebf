// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derivation

import (
	"strconv"

	"github.com/bitmark-inc/walletbrain/fault"
)

// EntityKind - the CAP26 entity kind, its value is the path component
type EntityKind uint32

// entity kinds
const (
	Account  EntityKind = 525
	Identity EntityKind = 618
)

// KeyKind - the CAP26 key kind, its value is the path component
type KeyKind uint32

// key kinds
const (
	TransactionSigning    KeyKind = 1460
	AuthenticationSigning KeyKind = 1678
)

// EntityKindFromUint32 - validate a path component
func EntityKindFromUint32(value uint32) (EntityKind, error) {
	switch EntityKind(value) {
	case Account, Identity:
		return EntityKind(value), nil
	default:
		return 0, fault.ErrInvalidEntityKind
	}
}

// KeyKindFromUint32 - validate a path component
func KeyKindFromUint32(value uint32) (KeyKind, error) {
	switch KeyKind(value) {
	case TransactionSigning, AuthenticationSigning:
		return KeyKind(value), nil
	default:
		return 0, fault.ErrInvalidKeyKind
	}
}

func (k EntityKind) String() string {
	switch k {
	case Account:
		return "account"
	case Identity:
		return "identity"
	default:
		return "entity(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k KeyKind) String() string {
	switch k {
	case TransactionSigning:
		return "transactionSigning"
	case AuthenticationSigning:
		return "authenticationSigning"
	default:
		return "key(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText - entity kind by name
func (k EntityKind) MarshalText() ([]byte, error) {
	switch k {
	case Account, Identity:
		return []byte(k.String()), nil
	default:
		return nil, fault.ErrInvalidEntityKind
	}
}

// UnmarshalText - entity kind from name
func (k *EntityKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "account":
		*k = Account
	case "identity", "persona":
		*k = Identity
	default:
		return fault.ErrInvalidEntityKind
	}
	return nil
}
