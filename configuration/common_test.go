// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
)

const testingDirName = "testing"

// Test main entrypoint
func TestMain(m *testing.M) {
	if err := setup(); nil != err {
		os.Exit(1)
	}
	result := m.Run()
	teardown()
	os.Exit(result)
}

// configure for testing
func setup() error {
	os.RemoveAll(testingDirName)
	os.Mkdir(testingDirName, 0o700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	return logger.Initialise(logging)
}

// post test cleanup
func teardown() {
	logger.Finalise()
	os.RemoveAll(testingDirName)
}
