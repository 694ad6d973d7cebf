// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/walletbrain/cache"
	"github.com/bitmark-inc/walletbrain/configuration"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/profile"
	"github.com/bitmark-inc/walletbrain/provider"
)

type metadata struct {
	config      *configuration.Configuration
	cache       *cache.FactorInstancesCache
	profile     *profile.Profile
	profileFile string
	provider    *provider.Provider
	sources     []factor.SourceID
	verbose     bool
	e           io.Writer
	w           io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	app := cli.NewApp()
	app.Name = "walletcache"
	app.Usage = "inspect and refill a persisted factor instances cache"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: "walletcache.conf",
			Usage: " configuration `FILE`",
		},
		cli.StringSliceFlag{
			Name:  "define, d",
			Usage: " set a configuration variable `KEY=VALUE`",
		},
		cli.StringFlag{
			Name:  "profile, p",
			Value: "",
			Usage: " analyse profile JSON `FILE` when choosing indices",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "show",
			Usage:  "print the cached instances as a JSON snapshot",
			Action: runShow,
		},
		{
			Name:   "status",
			Usage:  "instance counts per factor source and preset",
			Action: runStatus,
		},
		{
			Name:      "fill",
			Usage:     "derive every preset up to its cache filling quantity",
			ArgsUsage: "\n   (default is every configured factor source)",
			Flags: []cli.Flag{
				cli.StringSliceFlag{
					Name:  "source, s",
					Usage: " factor source `ID`",
				},
			},
			Action: runFill,
		},
		{
			Name:      "create",
			Usage:     "create an unsecured entity and add it to the profile",
			ArgsUsage: "\n   (* = required, needs --profile)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: " entity display `NAME`",
				},
				cli.StringFlag{
					Name:  "source, s",
					Value: "",
					Usage: "*factor source `ID`",
				},
				cli.StringFlag{
					Name:  "kind, k",
					Value: "account",
					Usage: " entity `KIND` [account|identity]",
				},
			},
			Action: runCreate,
		},
		{
			Name:      "next",
			Usage:     "next free index of a preset for a factor source",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "source, s",
					Value: "",
					Usage: "*factor source `ID`",
				},
				cli.StringFlag{
					Name:  "preset, r",
					Value: "",
					Usage: "*derivation `PRESET`",
				},
			},
			Action: runNext,
		},
		{
			Name:  "export",
			Usage: "write the cache to a JSON snapshot file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: " snapshot `FILE` (default from configuration)",
				},
			},
			Action: runExport,
		},
		{
			Name:  "import",
			Usage: "replace the cache with a JSON snapshot file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: " snapshot `FILE` (default from configuration)",
				},
			},
			Action: runImport,
		},
		{
			Name:  "version",
			Usage: "display walletcache version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = setup
	app.After = teardown

	if err := app.Run(os.Args); nil != err {
		exitwithstatus.Message("%s: error: %s", app.Name, err)
	}
}
