// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factor

import (
	"fmt"

	"github.com/bitmark-inc/walletbrain/derivation"
)

// HDPublicKey - a public key and the path it was derived at
type HDPublicKey struct {
	PublicKey      PublicKey                 `json:"publicKey"`
	DerivationPath derivation.DerivationPath `json:"derivationPath"`
}

// Instance - public key material derived from a factor source
type Instance struct {
	SourceID       SourceID                  `json:"factorSourceID"`
	PublicKey      PublicKey                 `json:"publicKey"`
	DerivationPath derivation.DerivationPath `json:"derivationPath"`
}

// NewInstance - instance from a source and a derived key
func NewInstance(sourceID SourceID, key HDPublicKey) Instance {
	return Instance{
		SourceID:       sourceID,
		PublicKey:      key.PublicKey,
		DerivationPath: key.DerivationPath,
	}
}

// HDPublicKey - the instance without its source id
func (i Instance) HDPublicKey() HDPublicKey {
	return HDPublicKey{
		PublicKey:      i.PublicKey,
		DerivationPath: i.DerivationPath,
	}
}

// AgnosticPath - the instance's path without index
func (i Instance) AgnosticPath() derivation.IndexAgnosticPath {
	return i.DerivationPath.AgnosticPath()
}

// Index - last component of the instance's path
func (i Instance) Index() derivation.HDPathComponent {
	return i.DerivationPath.Index()
}

// String - for logging
func (i Instance) String() string {
	return fmt.Sprintf("%s@%s", i.SourceID, i.DerivationPath)
}
