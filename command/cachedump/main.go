// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletbrain/cache"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// colours
const (
	keyColour   = "\033[1;36m"
	countColour = "\033[1;33m"
	rangeColour = "\033[1;34m"
	endColour   = "\033[0m"
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "list", HasArg: getoptions.NO_ARGUMENT, Short: 'l'},
		{Long: "colour", HasArg: getoptions.NO_ARGUMENT, Short: 'g'},
		{Long: "raw", HasArg: getoptions.NO_ARGUMENT, Short: 'r'},
		{Long: "file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'f'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["list"]) > 0 {

		// this will be a struct type
		poolType := reflect.TypeOf(storage.Pool)

		// print all available tags
		fmt.Printf(" tags:\n")
		for i := 0; i < poolType.NumField(); i += 1 {
			fieldInfo := poolType.Field(i)
			prefixTag := fieldInfo.Tag.Get("prefix")
			fmt.Printf("       %s → %s\n", prefixTag, fieldInfo.Name)
		}
		return
	}

	if len(options["help"]) > 0 || 1 != len(options["file"]) {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--colour] [--raw] [--count=N] --file=FILE [--list] [factor-source-id]", program)
	}

	colour := len(options["colour"]) > 0
	raw := len(options["raw"]) > 0
	verbose := len(options["verbose"]) > 0

	count := 100
	if len(options["count"]) > 0 {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err {
			exitwithstatus.Message("%s: convert count error: %s", program, err)
		}
		if count < 1 {
			exitwithstatus.Message("%s: invalid count: %d", program, count)
		}
	}

	filename := options["file"][0]
	if verbose {
		fmt.Printf("read cache records from file: %q\n", filename)
	}

	// keys start with the factor source id
	prefix := []byte(nil)
	if len(arguments) > 0 {
		prefix = []byte(arguments[0])
	}

	logging := logger.Configuration{
		Directory: ".",
		File:      "cachedump.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	if err = logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	fault.Initialise()
	defer fault.Finalise()

	// start of main processing
	err = storage.Initialise(filename, storage.ReadOnly)
	if nil != err {
		exitwithstatus.Message("%s: storage setup failed with error: %s", program, err)
	}
	defer storage.Finalise()

	cursor := storage.Pool.FactorInstances.NewFetchCursor()
	if len(prefix) > 0 {
		cursor.Seek(prefix)
	}

	data, err := cursor.Fetch(count)
	if nil != err {
		exitwithstatus.Message("%s: error on Fetch: %s", program, err)
	}

	ck := ""
	cc := ""
	cr := ""
	ce := ""
	if colour {
		ck = keyColour
		cc = countColour
		cr = rangeColour
		ce = endColour
	}

	total := 0
	for i, e := range data {
		id, path, err := cache.ParseRecordKey(e.Key)
		if nil != err {
			fmt.Printf("%d: invalid key: %x  error: %s\n", i, e.Key, err)
			continue
		}
		instances, err := cache.UnpackRecord(id, e.Value)
		if nil != err {
			fmt.Printf("%d: %sKey: %s%s  invalid record: %s\n", i, ck, path, ce, err)
			continue
		}
		total += len(instances)

		fmt.Printf("%d: %sKey: %s/%s%s\n", i, ck, id, path, ce)
		if 0 == len(instances) {
			fmt.Printf("%d: %sCount: 0%s\n", i, cc, ce)
		} else {
			first := instances[0].Index()
			last := instances[len(instances)-1].Index()
			fmt.Printf("%d: %sCount: %d%s  %sRange: %s … %s%s\n", i, cc, len(instances), ce, cr, first, last, ce)
		}
		if raw {
			fmt.Printf("%d: Val: %x\n", i, e.Value)
		}
	}
	fmt.Printf("records: %d  instances: %d\n", len(data), total)
}
