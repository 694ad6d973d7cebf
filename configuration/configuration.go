// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletbrain/chain"
	"github.com/bitmark-inc/walletbrain/derive"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file
	defaultNetwork       = "mainnet"

	defaultLevelDBDirectory = "data"
	defaultSnapshotFile     = "cache.json"

	defaultRatePerSecond = 0 // unlimited
	defaultBurst         = 0
	defaultMemoExpiry    = 600 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "walletcache.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// DerivationType - throttling and memoisation of key derivation
type DerivationType struct {
	RatePerSecond float64 `gluamapper:"rate_per_second" json:"rate_per_second"`
	Burst         int     `gluamapper:"burst" json:"burst"`
	MemoExpiry    int     `gluamapper:"memo_expiry" json:"memo_expiry"`
}

// Expiry - memo expiry as a duration
func (d DerivationType) Expiry() time.Duration {
	return time.Duration(d.MemoExpiry) * time.Second
}

// SourceType - a simulated factor source, seed is hex
type SourceType struct {
	Kind string `gluamapper:"kind" json:"kind"`
	Seed string `gluamapper:"seed" json:"seed"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	Network       string               `gluamapper:"network" json:"network"`
	Database      DatabaseType         `gluamapper:"database" json:"database"`
	SnapshotFile  string               `gluamapper:"snapshot_file" json:"snapshot_file"`
	Derivation    DerivationType       `gluamapper:"derivation" json:"derivation"`
	Sources       []SourceType         `gluamapper:"factor_sources" json:"factor_sources"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read decode and verify the configuration
func GetConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		Network:       defaultNetwork,
		SnapshotFile:  defaultSnapshotFile,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      "", // depends on network
		},

		Derivation: DerivationType{
			RatePerSecond: defaultRatePerSecond,
			Burst:         defaultBurst,
			MemoExpiry:    defaultMemoExpiry,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	options.Network = strings.ToLower(options.Network)
	if _, err := chain.FromName(options.Network); nil != err {
		return nil, fmt.Errorf("network: %q is not supported", options.Network)
	}

	if "" == options.Database.Name {
		options.Database.Name = options.Network + ".leveldb"
	}

	if options.Derivation.RatePerSecond < 0 || options.Derivation.Burst < 0 {
		return nil, fmt.Errorf("derivation: rate: %g  burst: %d must not be negative", options.Derivation.RatePerSecond, options.Derivation.Burst)
	}
	if options.Derivation.MemoExpiry <= 0 {
		return nil, fmt.Errorf("derivation: memo expiry: %d must be positive", options.Derivation.MemoExpiry)
	}

	for i, s := range options.Sources {
		if _, _, err := s.decode(); nil != err {
			return nil, fmt.Errorf("factor source[%d]: %s", i, err)
		}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.SnapshotFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// create these if they do not exist
	mustExist := []string{
		options.Database.Directory,
		options.Logging.Directory,
	}
	for _, d := range mustExist {
		if err := os.MkdirAll(d, 0o700); nil != err {
			return nil, err
		}
	}

	return options, nil
}

// NetworkID - the validated network
func (c *Configuration) NetworkID() chain.NetworkID {
	id, _ := chain.FromName(c.Network)
	return id
}

// DatabaseFile - full path of the leveldb
func (c *Configuration) DatabaseFile() string {
	return filepath.Join(c.Database.Directory, c.Database.Name)
}

// Deriver - simulated deriver holding every configured factor source
func (c *Configuration) Deriver() (*derive.Simulated, []factor.SourceID, error) {
	d := derive.NewSimulated()
	ids := make([]factor.SourceID, 0, len(c.Sources))
	for _, s := range c.Sources {
		kind, seed, err := s.decode()
		if nil != err {
			return nil, nil, err
		}
		id, err := d.AddSource(kind, seed)
		if nil != err {
			return nil, nil, err
		}
		ids = append(ids, id)
	}
	return d, ids, nil
}

func (s SourceType) decode() (factor.SourceKind, []byte, error) {
	kind, err := factor.ParseSourceKind(s.Kind)
	if nil != err {
		return 0, nil, err
	}
	seed, err := hex.DecodeString(s.Seed)
	if nil != err {
		return 0, nil, err
	}
	if len(seed) < derive.SeedLength {
		return 0, nil, fmt.Errorf("seed: %d bytes is shorter than: %d", len(seed), derive.SeedLength)
	}
	return kind, seed, nil
}
