// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/walletbrain/factor"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// parse the given ids, or return the defaults if none were given
func sourceIDs(given []string, defaults []factor.SourceID) ([]factor.SourceID, error) {
	if 0 == len(given) {
		return defaults, nil
	}
	ids := make([]factor.SourceID, 0, len(given))
	for _, s := range given {
		id, err := factor.ParseSourceID(s)
		if nil != err {
			return nil, fmt.Errorf("source: %q: %s", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func snapshotFile(c *cli.Context, m *metadata) string {
	if name := c.String("file"); "" != name {
		return name
	}
	return m.config.SnapshotFile
}
