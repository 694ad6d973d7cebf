// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/walletbrain/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/file.json", util.EnsureAbsolute("/data", "file.json"), "relative")
	assert.Equal(t, "/other/file.json", util.EnsureAbsolute("/data", "/other/file.json"), "absolute")
	assert.Equal(t, "/data/file.json", util.EnsureAbsolute("/data", "sub/../file.json"), "cleaned")
}

func TestBase58(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0xfe, 0xff}
	encoded := util.ToBase58(data)
	assert.Equal(t, data, util.FromBase58(encoded), "round trip")
	assert.Equal(t, []byte{}, util.FromBase58("0OIl"), "invalid characters")
}

func TestWriteFileAtomically(t *testing.T) {
	dir, err := ioutil.TempDir("", "util-test")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "out.json")
	assert.Nil(t, util.WriteFileAtomically(name, []byte("one")), "first write")
	assert.Nil(t, util.WriteFileAtomically(name, []byte("two")), "second write")

	data, err := ioutil.ReadFile(name)
	assert.Nil(t, err, "read")
	assert.Equal(t, "two", string(data), "wrong content")

	entries, err := ioutil.ReadDir(dir)
	assert.Nil(t, err, "read dir")
	assert.Equal(t, 1, len(entries), "temporary file left behind")
}
