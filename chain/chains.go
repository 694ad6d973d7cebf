// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"strconv"
	"strings"

	"github.com/bitmark-inc/walletbrain/fault"
)

// NetworkID - the numeric identifier of a network, also the value of
// the network component of every derivation path on that network
type NetworkID uint8

// all known networks
const (
	Mainnet   NetworkID = 0x01
	Stokenet  NetworkID = 0x02
	Adapanet  NetworkID = 0x0a
	Nebunet   NetworkID = 0x0b
	Kisharnet NetworkID = 0x0c
	Ansharnet NetworkID = 0x0d
	Zabanet   NetworkID = 0x0e
	Enkinet   NetworkID = 0x21
	Hammunet  NetworkID = 0x22
	Nergalnet NetworkID = 0x23
	Mardunet  NetworkID = 0x24
	Simulator NetworkID = 0xf2
)

// names of all networks
var names = map[NetworkID]string{
	Mainnet:   "mainnet",
	Stokenet:  "stokenet",
	Adapanet:  "adapanet",
	Nebunet:   "nebunet",
	Kisharnet: "kisharnet",
	Ansharnet: "ansharnet",
	Zabanet:   "zabanet",
	Enkinet:   "enkinet",
	Hammunet:  "hammunet",
	Nergalnet: "nergalnet",
	Mardunet:  "mardunet",
	Simulator: "simulator",
}

// Valid - validate a network id
func Valid(id NetworkID) bool {
	_, ok := names[id]
	return ok
}

// FromName - network from its name or decimal id
func FromName(name string) (NetworkID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range names {
		if n == name {
			return id, nil
		}
	}
	n, err := strconv.ParseUint(name, 10, 8)
	if nil != err || !Valid(NetworkID(n)) {
		return 0, fault.ErrInvalidNetwork
	}
	return NetworkID(n), nil
}

// FromUint32 - network from a derivation path component value
func FromUint32(value uint32) (NetworkID, error) {
	if value > 0xff || !Valid(NetworkID(value)) {
		return 0, fault.ErrInvalidNetwork
	}
	return NetworkID(value), nil
}

// String - the network name
func (id NetworkID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return "network(" + strconv.Itoa(int(id)) + ")"
}

// MarshalText - network as its name
func (id NetworkID) MarshalText() ([]byte, error) {
	if !Valid(id) {
		return nil, fault.ErrInvalidNetwork
	}
	return []byte(names[id]), nil
}

// UnmarshalText - network from its name
func (id *NetworkID) UnmarshalText(text []byte) error {
	n, err := FromName(string(text))
	if nil != err {
		return err
	}
	*id = n
	return nil
}
