// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/fault"
)

func TestFromName(t *testing.T) {
	items := []struct {
		name string
		id   chain.NetworkID
	}{
		{"mainnet", chain.Mainnet},
		{"Stokenet", chain.Stokenet},
		{" simulator ", chain.Simulator},
		{"1", chain.Mainnet},
		{"242", chain.Simulator},
	}
	for i, item := range items {
		id, err := chain.FromName(item.name)
		assert.Nil(t, err, "%d: error", i)
		assert.Equal(t, item.id, id, "%d: wrong network", i)
	}

	for _, name := range []string{"", "bitmark", "3", "300"} {
		_, err := chain.FromName(name)
		assert.Equal(t, fault.ErrInvalidNetwork, err, "name: %q", name)
	}
}

func TestTextRoundTrip(t *testing.T) {
	text, err := chain.Stokenet.MarshalText()
	assert.Nil(t, err, "marshal")
	assert.Equal(t, "stokenet", string(text), "wrong text")

	var id chain.NetworkID
	err = id.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, chain.Stokenet, id, "wrong network")

	_, err = chain.NetworkID(3).MarshalText()
	assert.Equal(t, fault.ErrInvalidNetwork, err, "invalid network marshalled")
}

func TestFromUint32(t *testing.T) {
	id, err := chain.FromUint32(14)
	assert.Nil(t, err, "error")
	assert.Equal(t, chain.Zabanet, id, "wrong network")

	_, err = chain.FromUint32(0x101)
	assert.Equal(t, fault.ErrInvalidNetwork, err, "overflowing network accepted")
}
