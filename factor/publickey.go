// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factor

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/bitmark-inc/walletbrain/fault"
)

// Curve - the elliptic curve of a public key
type Curve uint8

// supported curves
const (
	Curve25519 Curve = iota
	Secp256k1
)

// compressed key lengths
const (
	curve25519KeyLength = 32
	secp256k1KeyLength  = 33
)

func (c Curve) String() string {
	switch c {
	case Curve25519:
		return "curve25519"
	case Secp256k1:
		return "secp256k1"
	default:
		return "unknown"
	}
}

func (c Curve) keyLength() int {
	if Secp256k1 == c {
		return secp256k1KeyLength
	}
	return curve25519KeyLength
}

// PublicKey - opaque compressed public key bytes
type PublicKey struct {
	curve Curve
	data  string
}

// NewPublicKey - validates the compressed length for the curve
func NewPublicKey(curve Curve, compressed []byte) (PublicKey, error) {
	if curve > Secp256k1 {
		return PublicKey{}, fault.ErrInvalidPublicKey
	}
	if curve.keyLength() != len(compressed) {
		return PublicKey{}, fault.ErrKeyLength
	}
	return PublicKey{curve: curve, data: string(compressed)}, nil
}

// Curve - curve of the key
func (k PublicKey) Curve() Curve {
	return k.curve
}

// Bytes - a copy of the compressed key
func (k PublicKey) Bytes() []byte {
	return []byte(k.data)
}

// Equal - same curve and bytes
func (k PublicKey) Equal(other PublicKey) bool {
	return k.curve == other.curve && k.data == other.data
}

// String - hex of the compressed key
func (k PublicKey) String() string {
	return hex.EncodeToString([]byte(k.data))
}

// IsZero - true for the zero value
func (k PublicKey) IsZero() bool {
	return 0 == len(k.data)
}

type publicKeyJSON struct {
	Curve          string `json:"curve"`
	CompressedData string `json:"compressedData"`
}

// MarshalJSON - {"curve":"curve25519","compressedData":"<hex>"}
func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicKeyJSON{
		Curve:          k.curve.String(),
		CompressedData: k.String(),
	})
}

// UnmarshalJSON - inverse of MarshalJSON
func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var j publicKeyJSON
	if err := json.Unmarshal(data, &j); nil != err {
		return err
	}
	var curve Curve
	switch j.Curve {
	case "curve25519":
		curve = Curve25519
	case "secp256k1":
		curve = Secp256k1
	default:
		return fault.ErrInvalidPublicKey
	}
	compressed, err := hex.DecodeString(j.CompressedData)
	if nil != err {
		return fault.ErrInvalidPublicKey
	}
	parsed, err := NewPublicKey(curve, compressed)
	if nil != err {
		return err
	}
	*k = parsed
	return nil
}

// Compare - byte order, for deterministic output only
func (k PublicKey) Compare(other PublicKey) int {
	if k.curve != other.curve {
		if k.curve < other.curve {
			return -1
		}
		return 1
	}
	return bytes.Compare([]byte(k.data), []byte(other.data))
}
