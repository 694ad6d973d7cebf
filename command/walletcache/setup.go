// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/walletbrain/cache"
	"github.com/bitmark-inc/walletbrain/configuration"
	"github.com/bitmark-inc/walletbrain/derive"
	"github.com/bitmark-inc/walletbrain/fault"
	"github.com/bitmark-inc/walletbrain/profile"
	"github.com/bitmark-inc/walletbrain/provider"
	"github.com/bitmark-inc/walletbrain/ratelimit"
	"github.com/bitmark-inc/walletbrain/storage"
	"github.com/bitmark-inc/walletbrain/util"
)

// read the configuration, open the database and load the cache
func setup(c *cli.Context) error {

	e := c.App.ErrWriter
	w := c.App.Writer
	verbose := c.GlobalBool("verbose")

	// to suppress reading config file if certain commands
	command := c.Args().Get(0)
	if "" == command || "version" == command || "help" == command || "h" == command {
		return nil
	}

	variables := make(map[string]string)
	for _, d := range c.GlobalStringSlice("define") {
		kv := strings.SplitN(d, "=", 2)
		if 2 != len(kv) || "" == kv[0] {
			return fmt.Errorf("define: %q is not KEY=VALUE", d)
		}
		variables[kv[0]] = kv[1]
	}

	file := c.GlobalString("config")
	if verbose {
		fmt.Fprintf(e, "reading config file: %s\n", file)
	}
	config, err := configuration.GetConfiguration(file, variables)
	if nil != err {
		return err
	}

	if err := logger.Initialise(config.Logging); nil != err {
		return err
	}
	fault.Initialise()
	log := logger.New("main")
	log.Infof("version: %s  network: %s", version, config.Network)

	deriver, sources, err := config.Deriver()
	if nil != err {
		fault.Finalise()
		logger.Finalise()
		return err
	}

	// create starts a new profile if the file does not exist yet
	profileFile := c.GlobalString("profile")
	var prof *profile.Profile
	if "" != profileFile {
		if util.EnsureFileExists(profileFile) {
			prof, err = readProfile(profileFile)
			if nil != err {
				fault.Finalise()
				logger.Finalise()
				return err
			}
		} else {
			prof = profile.New(sources...)
		}
		log.Infof("profile: %s", profileFile)
	}

	if err := storage.Initialise(config.DatabaseFile(), storage.ReadWrite); nil != err {
		fault.Finalise()
		logger.Finalise()
		return err
	}

	instances, err := cache.LoadFrom(storage.Pool.FactorInstances)
	if nil != err {
		storage.Finalise()
		fault.Finalise()
		logger.Finalise()
		return err
	}
	log.Infof("loaded: %d instances", instances.TotalNumberOfFactorInstances())

	memoised := derive.NewMemoised(deriver, config.Derivation.Expiry())
	limiter := ratelimit.New(config.Derivation.RatePerSecond, config.Derivation.Burst)

	if verbose {
		fmt.Fprintf(e, "database: %s\n", config.DatabaseFile())
		fmt.Fprintf(e, "factor sources: %d\n", len(sources))
	}

	c.App.Metadata["config"] = &metadata{
		config:      config,
		cache:       instances,
		profile:     prof,
		profileFile: profileFile,
		provider:    provider.New(instances, memoised, prof, limiter),
		sources:     sources,
		verbose:     verbose,
		e:           e,
		w:           w,
	}
	return nil
}

// close everything setup opened
func teardown(c *cli.Context) error {
	if _, ok := c.App.Metadata["config"].(*metadata); !ok {
		return nil
	}
	storage.Finalise()
	fault.Finalise()
	logger.Finalise()
	return nil
}

func readProfile(name string) (*profile.Profile, error) {
	data, err := os.ReadFile(name)
	if nil != err {
		return nil, err
	}
	p := &profile.Profile{}
	if err := json.Unmarshal(data, p); nil != err {
		return nil, err
	}
	if err := p.Validate(); nil != err {
		return nil, fmt.Errorf("profile: %q: %s", name, err)
	}
	return p, nil
}

func writeProfile(name string, p *profile.Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if nil != err {
		return err
	}
	return util.WriteFileAtomically(name, append(data, '\n'))
}
