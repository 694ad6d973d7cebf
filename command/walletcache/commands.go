// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/walletbrain/assigner"
	"github.com/bitmark-inc/walletbrain/cache"
	"github.com/bitmark-inc/walletbrain/derivation"
	"github.com/bitmark-inc/walletbrain/factor"
	"github.com/bitmark-inc/walletbrain/profile"
	"github.com/bitmark-inc/walletbrain/storage"
)

type presetStatus struct {
	Path  derivation.IndexAgnosticPath `json:"path"`
	Count int                          `json:"count"`
	First string                       `json:"first,omitempty"`
	Last  string                       `json:"last,omitempty"`
	Full  bool                         `json:"full"`
}

type sourceStatus struct {
	FactorSourceID factor.SourceID         `json:"factorSourceID"`
	Full           bool                    `json:"full"`
	Total          int                     `json:"total"`
	Presets        map[string]presetStatus `json:"presets"`
}

type nextIndex struct {
	Preset      derivation.DerivationPreset  `json:"preset"`
	Path        derivation.IndexAgnosticPath `json:"path"`
	ProfileNext string                       `json:"profileNext,omitempty"`
	CacheMax    string                       `json:"cacheMax,omitempty"`
	Next        derivation.DerivationPath    `json:"next"`
}

func runShow(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	return printJson(m.w, m.cache.SerializableSnapshot())
}

func runStatus(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	network := m.config.NetworkID()

	result := make([]sourceStatus, 0, len(m.sources))
	for _, id := range m.sources {
		s := sourceStatus{
			FactorSourceID: id,
			Full:           m.cache.IsFull(network, id),
			Presets:        make(map[string]presetStatus),
		}
		for _, preset := range derivation.AllDerivationPresets() {
			path := preset.IndexAgnosticPath(network)
			instances, _ := m.cache.GetMonoFactor(id, path)
			p := presetStatus{
				Path:  path,
				Count: len(instances),
				Full:  len(instances) >= preset.CacheFillingQuantity(),
			}
			if len(instances) > 0 {
				p.First = instances[0].Index().String()
				p.Last = instances[len(instances)-1].Index().String()
			}
			s.Total += p.Count
			s.Presets[preset.String()] = p
		}
		result = append(result, s)
	}
	return printJson(m.w, result)
}

func runFill(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	ids, err := sourceIDs(c.StringSlice("source"), m.sources)
	if nil != err {
		return err
	}
	if 0 == len(ids) {
		return fmt.Errorf("no factor sources configured")
	}

	n, err := m.provider.FillCache(context.Background(), m.config.NetworkID(), ids)
	if nil != err {
		return err
	}
	if err := m.cache.SaveTo(storage.Pool.FactorInstances); nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "derived: %d instances\n", n)
	}
	return printJson(m.w, map[string]int{"derived": n, "cached": m.cache.TotalNumberOfFactorInstances()})
}

func runCreate(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	if nil == m.profile {
		return fmt.Errorf("create: the entity must be recorded, give a --profile file")
	}

	id, err := factor.ParseSourceID(c.String("source"))
	if nil != err {
		return err
	}
	var kind derivation.EntityKind
	if err := kind.UnmarshalText([]byte(c.String("kind"))); nil != err {
		return err
	}

	instance, err := m.provider.ProvideForEntityCreation(context.Background(), m.config.NetworkID(), id, kind)
	if nil != err {
		return err
	}

	name := c.String("name")
	if "" == name {
		name = kind.String() + " " + instance.Index().String()
	}
	entity, err := profile.NewUnsecuredEntity(name, instance)
	if nil != err {
		return err
	}
	if err := m.profile.AddEntity(entity); nil != err {
		return err
	}

	// the cache is saved first: if the profile cannot be written the
	// instance is skipped, never handed out twice
	if err := m.cache.SaveTo(storage.Pool.FactorInstances); nil != err {
		return err
	}
	if err := writeProfile(m.profileFile, m.profile); nil != err {
		return err
	}
	m.provider.SetProfile(m.profile)
	if m.verbose {
		fmt.Fprintf(m.e, "created: %s  with: %s\n", entity.Address, instance.DerivationPath)
	}
	return printJson(m.w, entity)
}

func runNext(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	network := m.config.NetworkID()

	id, err := factor.ParseSourceID(c.String("source"))
	if nil != err {
		return err
	}
	preset, err := derivation.ParseDerivationPreset(c.String("preset"))
	if nil != err {
		return err
	}
	path := preset.IndexAgnosticPath(network)

	result := nextIndex{
		Preset: preset,
		Path:   path,
	}

	next := path.FirstIndex()
	profileNext, ok, err := assigner.New(network, m.profile).Next(id, path)
	if nil != err {
		return err
	}
	if ok {
		result.ProfileNext = profileNext.String()
		next, _ = derivation.MaxComponent(next, true, profileNext, true)
	}
	if max, ok := m.cache.MaxIndexFor(id, path); ok {
		result.CacheMax = max.String()
		afterCache, err := max.CheckedAddOneToGlobal()
		if nil != err {
			return err
		}
		next, _ = derivation.MaxComponent(next, true, afterCache, true)
	}

	result.Next, err = path.WithIndex(next)
	if nil != err {
		return err
	}
	return printJson(m.w, result)
}

func runExport(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	name := snapshotFile(c, m)
	if err := m.cache.SaveToFile(name); nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "exported: %d instances to: %s\n", m.cache.TotalNumberOfFactorInstances(), name)
	}
	return nil
}

func runImport(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	name := snapshotFile(c, m)
	imported, err := cache.LoadFromFile(name)
	if nil != err {
		return err
	}
	if err := imported.SaveTo(storage.Pool.FactorInstances); nil != err {
		return err
	}
	m.cache = imported
	if m.verbose {
		fmt.Fprintf(m.e, "imported: %d instances from: %s\n", imported.TotalNumberOfFactorInstances(), name)
	}
	return nil
}
