// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derivation

import (
	"strconv"
	"strings"

	"github.com/bitmark-inc/walletbrain/fault"
)

// KeySpace - which range of the global key space an index lives in
type KeySpace uint8

// the key spaces
const (
	UnsecurifiedUnhardened KeySpace = iota
	UnsecurifiedHardened
	Securified
)

// global key space layout
const (
	GlobalOffsetHardened   uint32 = 1 << 31
	GlobalOffsetSecurified uint32 = 1<<31 + 1<<30

	maxLocalUnhardened uint32 = 1<<31 - 1
	maxLocalHardened   uint32 = 1<<30 - 1
)

// suffixes of the text forms
const (
	hardenedSuffix   = "H"
	securifiedSuffix = "S"
)

// IsSecurified - true for the securified key space
func (k KeySpace) IsSecurified() bool {
	return Securified == k
}

// IsHardened - securified indices are always hardened
func (k KeySpace) IsHardened() bool {
	return UnsecurifiedUnhardened != k
}

func (k KeySpace) offset() uint32 {
	switch k {
	case UnsecurifiedHardened:
		return GlobalOffsetHardened
	case Securified:
		return GlobalOffsetSecurified
	default:
		return 0
	}
}

func (k KeySpace) maxLocal() uint32 {
	if UnsecurifiedUnhardened == k {
		return maxLocalUnhardened
	}
	return maxLocalHardened
}

func (k KeySpace) suffix() string {
	switch k {
	case UnsecurifiedHardened:
		return hardenedSuffix
	case Securified:
		return securifiedSuffix
	default:
		return ""
	}
}

// String - human readable key space
func (k KeySpace) String() string {
	switch k {
	case UnsecurifiedUnhardened:
		return "unsecurified"
	case UnsecurifiedHardened:
		return "unsecurified(hardened)"
	case Securified:
		return "securified"
	default:
		return "keyspace(" + strconv.Itoa(int(k)) + ")"
	}
}

// HDPathComponent - an index tagged with its key space
//
// the zero value is unhardened index 0
type HDPathComponent struct {
	keySpace KeySpace
	local    uint32
}

// NewHDPathComponent - component from an index local to a key space
func NewHDPathComponent(keySpace KeySpace, local uint32) (HDPathComponent, error) {
	if keySpace > Securified {
		return HDPathComponent{}, fault.ErrIndexOutOfRange
	}
	if local > keySpace.maxLocal() {
		return HDPathComponent{}, fault.ErrIndexOutOfRange
	}
	return HDPathComponent{keySpace: keySpace, local: local}, nil
}

// Hardened - unsecurified hardened component, panics if out of range
//
// only for constants and tests
func Hardened(local uint32) HDPathComponent {
	c, err := NewHDPathComponent(UnsecurifiedHardened, local)
	fault.PanicIfError("derivation.Hardened", err)
	return c
}

// SecurifiedIndex - securified component, panics if out of range
//
// only for constants and tests
func SecurifiedIndex(local uint32) HDPathComponent {
	c, err := NewHDPathComponent(Securified, local)
	fault.PanicIfError("derivation.SecurifiedIndex", err)
	return c
}

// FromGlobalKeySpace - every uint32 is a valid global index
func FromGlobalKeySpace(global uint32) HDPathComponent {
	switch {
	case global >= GlobalOffsetSecurified:
		return HDPathComponent{keySpace: Securified, local: global - GlobalOffsetSecurified}
	case global >= GlobalOffsetHardened:
		return HDPathComponent{keySpace: UnsecurifiedHardened, local: global - GlobalOffsetHardened}
	default:
		return HDPathComponent{keySpace: UnsecurifiedUnhardened, local: global}
	}
}

// KeySpace - the key space of the component
func (c HDPathComponent) KeySpace() KeySpace {
	return c.keySpace
}

// Local - index within the key space
func (c HDPathComponent) Local() uint32 {
	return c.local
}

// Global - index mapped into the global key space
func (c HDPathComponent) Global() uint32 {
	return c.keySpace.offset() + c.local
}

// Compare - order by global index: -1, 0, +1
func (c HDPathComponent) Compare(other HDPathComponent) int {
	a, b := c.Global(), other.Global()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CheckedAddToGlobal - add n in the global key space
//
// fails rather than wrapping or spilling into the next key space
func (c HDPathComponent) CheckedAddToGlobal(n uint32) (HDPathComponent, error) {
	global := c.Global()
	sum := global + n
	if sum < global {
		return HDPathComponent{}, fault.ErrIndexOverflow
	}
	next := FromGlobalKeySpace(sum)
	if next.keySpace != c.keySpace {
		return HDPathComponent{}, fault.ErrIndexOverflow
	}
	return next, nil
}

// CheckedAddOneToGlobal - the next index in the same key space
func (c HDPathComponent) CheckedAddOneToGlobal() (HDPathComponent, error) {
	return c.CheckedAddToGlobal(1)
}

// String - local index with key space suffix: 5, 5H or 5S
func (c HDPathComponent) String() string {
	return strconv.FormatUint(uint64(c.local), 10) + c.keySpace.suffix()
}

// ParseHDPathComponent - inverse of String, also accepts ' for H
func ParseHDPathComponent(s string) (HDPathComponent, error) {
	keySpace := UnsecurifiedUnhardened
	switch {
	case strings.HasSuffix(s, securifiedSuffix), strings.HasSuffix(s, "^"):
		keySpace = Securified
		s = s[:len(s)-1]
	case strings.HasSuffix(s, hardenedSuffix), strings.HasSuffix(s, "'"):
		keySpace = UnsecurifiedHardened
		s = s[:len(s)-1]
	}
	local, err := strconv.ParseUint(s, 10, 32)
	if nil != err {
		return HDPathComponent{}, fault.ErrInvalidDerivationPath
	}
	return NewHDPathComponent(keySpace, uint32(local))
}

// MaxComponent - the larger of two optional components
func MaxComponent(a HDPathComponent, aOK bool, b HDPathComponent, bOK bool) (HDPathComponent, bool) {
	switch {
	case aOK && bOK:
		if a.Compare(b) >= 0 {
			return a, true
		}
		return b, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return HDPathComponent{}, false
	}
}
