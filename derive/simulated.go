// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derive

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/fault"
)

// SeedLength - minimum bytes of a simulated factor source seed
const SeedLength = 16

// Simulated - deterministic deriver keyed by per source seeds
type Simulated struct {
	sync.RWMutex
	seeds map[factor.SourceID][]byte
	log   *logger.L
}

// NewSimulated - deriver with no sources
func NewSimulated() *Simulated {
	return &Simulated{
		seeds: make(map[factor.SourceID][]byte),
		log:   logger.New("derive"),
	}
}

// AddSource - register a seed, returns the id of its source
func (s *Simulated) AddSource(kind factor.SourceKind, seed []byte) (factor.SourceID, error) {
	id, err := SimulatedSourceID(kind, seed)
	if nil != err {
		return factor.SourceID{}, err
	}

	s.Lock()
	defer s.Unlock()

	s.seeds[id] = append([]byte{}, seed...)
	s.log.Debugf("added source: %s", id)
	return id, nil
}

// Derive - one instance per requested path
func (s *Simulated) Derive(ctx context.Context, request PathsPerFactorSource) (factor.InstancesPerSource, error) {
	s.RLock()
	defer s.RUnlock()

	result := make(factor.InstancesPerSource, len(request))
	for id, paths := range request {
		seed, ok := s.seeds[id]
		if !ok {
			return nil, fault.ErrUnknownFactorSource
		}
		instances := make(factor.Instances, 0, len(paths))
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			instances = append(instances, factor.Instance{
				SourceID:       id,
				PublicKey:      SimulatedPublicKey(seed, path),
				DerivationPath: path,
			})
		}
		result[id] = instances
	}
	s.log.Debugf("derived: %d keys for %d sources", request.Count(), len(request))
	return result, nil
}

// SimulatedSourceID - id of the source with the seed
func SimulatedSourceID(kind factor.SourceKind, seed []byte) (factor.SourceID, error) {
	if len(seed) < SeedLength {
		return factor.SourceID{}, fault.ErrKeyLength
	}
	root := SimulatedPublicKey(seed, derivation.DerivationPath{})
	return factor.NewSourceIDFromHash(kind, root.Bytes())
}

// SimulatedPublicKey - ed25519 key seeded by sha3(seed || path)
func SimulatedPublicKey(seed []byte, path derivation.DerivationPath) factor.PublicKey {
	h := sha3.New256()
	h.Write(seed)
	h.Write([]byte(path.String()))
	keySeed := h.Sum(nil)

	private := ed25519.NewKeyFromSeed(keySeed)
	public := private.Public().(ed25519.PublicKey)

	key, err := factor.NewPublicKey(factor.Curve25519, public)
	fault.PanicIfError("derive.SimulatedPublicKey", err)
	return key
}
