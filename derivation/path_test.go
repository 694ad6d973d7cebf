// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derivation_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/fault"
)

func TestIndexAgnosticPathText(t *testing.T) {
	items := []struct {
		path derivation.IndexAgnosticPath
		text string
	}{
		{derivation.AccountVeci.IndexAgnosticPath(chain.Mainnet), "1H/525H/1460H/H?"},
		{derivation.AccountMfa.IndexAgnosticPath(chain.Mainnet), "1H/525H/1460H/S?"},
		{derivation.AccountRola.IndexAgnosticPath(chain.Mainnet), "1H/525H/1678H/S?"},
		{derivation.IdentityVeci.IndexAgnosticPath(chain.Stokenet), "2H/618H/1460H/H?"},
		{derivation.IdentityMfa.IndexAgnosticPath(chain.Stokenet), "2H/618H/1460H/S?"},
		{derivation.IdentityRola.IndexAgnosticPath(chain.Simulator), "242H/618H/1678H/S?"},
	}

	for i, item := range items {
		assert.Equal(t, item.text, item.path.String(), "%d: wrong text", i)
		parsed, err := derivation.ParseIndexAgnosticPath(item.text)
		assert.Nil(t, err, "%d: parse error", i)
		assert.Equal(t, item.path, parsed, "%d: parse mismatch", i)
	}
}

func TestIndexAgnosticPathParseErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"1H/525H/1460H",
		"1/525H/1460H/H?",
		"1H/525H/1460H/H",
		"1H/999H/1460H/H?",
		"1H/525H/1461H/S?",
		"3H/525H/1460H/S?",
		"1H/525H/1460H/X?",
	} {
		_, err := derivation.ParseIndexAgnosticPath(s)
		assert.NotNil(t, err, "accepted: %q", s)
	}
}

func TestIndexAgnosticPathAsJSONKey(t *testing.T) {
	m := map[derivation.IndexAgnosticPath]int{
		derivation.AccountVeci.IndexAgnosticPath(chain.Mainnet): 1,
		derivation.AccountMfa.IndexAgnosticPath(chain.Mainnet):  2,
	}
	b, err := json.Marshal(m)
	assert.Nil(t, err, "marshal")
	assert.Equal(t, `{"1H/525H/1460H/H?":1,"1H/525H/1460H/S?":2}`, string(b), "wrong json")

	var back map[derivation.IndexAgnosticPath]int
	err = json.Unmarshal(b, &back)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, m, back, "round trip")
}

func TestDerivationPath(t *testing.T) {
	path, err := derivation.NewDerivationPath(chain.Mainnet, derivation.Account, derivation.TransactionSigning, derivation.Hardened(3))
	assert.Nil(t, err, "error")
	assert.Equal(t, "m/44H/1022H/1H/525H/1460H/3H", path.String(), "wrong text")
	assert.Equal(t, derivation.AccountVeci.IndexAgnosticPath(chain.Mainnet), path.AgnosticPath(), "wrong agnostic path")

	b, err := json.Marshal(path)
	assert.Nil(t, err, "marshal")
	assert.Equal(t, `{"scheme":"cap26","path":"m/44H/1022H/1H/525H/1460H/3H"}`, string(b), "wrong json")

	var back derivation.DerivationPath
	err = json.Unmarshal(b, &back)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, path, back, "round trip")

	securified, err := derivation.ParseDerivationPath("m/44H/1022H/2H/618H/1678H/9S")
	assert.Nil(t, err, "parse")
	assert.Equal(t, derivation.IdentityRola.IndexAgnosticPath(chain.Stokenet), securified.AgnosticPath(), "wrong agnostic path")
	assert.Equal(t, derivation.SecurifiedIndex(9), securified.Index(), "wrong index")
}

func TestDerivationPathParseErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"m/44H/1022H/1H/525H/1460H",
		"m/44H/1023H/1H/525H/1460H/0H",
		"m/44/1022H/1H/525H/1460H/0H",
		"x/44H/1022H/1H/525H/1460H/0H",
		"m/44H/1022H/1H/525H/1460H/0Q",
	} {
		_, err := derivation.ParseDerivationPath(s)
		assert.NotNil(t, err, "accepted: %q", s)
	}

	var p derivation.DerivationPath
	err := json.Unmarshal([]byte(`{"scheme":"bip44","path":"m/44H/1022H/1H/525H/1460H/0H"}`), &p)
	assert.Equal(t, fault.ErrInvalidDerivationPath, err, "wrong scheme accepted")
}

func TestWithIndexKeySpace(t *testing.T) {
	agnostic := derivation.AccountMfa.IndexAgnosticPath(chain.Mainnet)

	_, err := agnostic.WithIndex(derivation.Hardened(0))
	assert.Equal(t, fault.ErrIndexOutOfRange, err, "key space mismatch accepted")

	path, err := agnostic.WithIndex(agnostic.FirstIndex())
	assert.Nil(t, err, "error")
	assert.Equal(t, "m/44H/1022H/1H/525H/1460H/0S", path.String(), "wrong path")
}
