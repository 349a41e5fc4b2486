// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pion/logging"
)

// Generate builds a record from the manifest's root dependencies and the
// specifications the resolver selected. The output does not depend on the
// order of either input.
func Generate(manifest []Dependency, specs []Specification, opts Options) (*Lockfile, error) {
	opts = opts.WithDefaults()
	log := opts.LoggerFactory.NewLogger(loggerScope)

	for _, dep := range manifest {
		if err := dep.Validate(); err != nil {
			return nil, err
		}
	}

	pods, err := generatePods(specs, log)
	if err != nil {
		return nil, err
	}
	sources, err := generateExternalSources(manifest)
	if err != nil {
		return nil, err
	}
	checksums, err := generateChecksums(specs, opts.ReadFile, log)
	if err != nil {
		return nil, err
	}

	data := Data{
		Pods:            pods,
		Dependencies:    generateDependencies(manifest),
		ExternalSources: sources,
		SpecChecksums:   checksums,
		Version:         opts.ToolVersion,
	}
	log.Infof("generated lock: %d pods, %d dependencies, %d external sources",
		len(data.Pods), len(data.Dependencies), len(data.ExternalSources))

	return &Lockfile{data: data}, nil
}

// generatePods merges specifications sharing an identity, for example one
// pod resolved once per target, so their dependency lists are unioned.
func generatePods(specs []Specification, log logging.LeveledLogger) ([]PodEntry, error) {
	merged := map[string][]string{}
	for _, spec := range specs {
		id := spec.Identity()
		if _, ok := merged[id]; ok {
			log.Debugf("merging duplicate specification %s", id)
		}
		deps := spec.DependencyStrings()
		for _, raw := range deps {
			if _, err := ParseDependency(raw); err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
		}
		merged[id] = append(merged[id], deps...)
	}

	byName := make(map[string]string, len(merged))
	for _, id := range slices.Sorted(maps.Keys(merged)) {
		name, _, err := SplitIdentity(id)
		if err != nil {
			return nil, err
		}
		if other, ok := byName[name]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrConflictingVersions, other, id)
		}
		byName[name] = id
	}
	if len(byName) == 0 {
		return nil, nil
	}

	pods := make([]PodEntry, 0, len(byName))
	for _, name := range sortedFold(slices.Collect(maps.Keys(byName))) {
		id := byName[name]
		pods = append(pods, PodEntry{Identity: id, Dependencies: dedupeSorted(merged[id])})
	}

	return pods, nil
}

func generateDependencies(manifest []Dependency) []string {
	declared := make([]string, 0, len(manifest))
	for _, dep := range manifest {
		declared = append(declared, dep.String())
	}

	return dedupeSorted(declared)
}

// generateExternalSources keys every external dependency's source by its root
// name, so "A/Core" from a path contributes an entry for "A".
func generateExternalSources(manifest []Dependency) (map[string]map[string]string, error) {
	var sources map[string]map[string]string
	for _, dep := range manifest {
		if !dep.IsExternal() {
			continue
		}
		root := dep.RootName()
		if prev, ok := sources[root]; ok {
			if !maps.Equal(prev, dep.Source) {
				return nil, fmt.Errorf("%w: %q", ErrConflictingSources, root)
			}

			continue
		}
		if sources == nil {
			sources = map[string]map[string]string{}
		}
		sources[root] = maps.Clone(dep.Source)
	}

	return sources, nil
}

// generateChecksums records one checksum per root. Subspecifications share
// their root's source so they must hash to the same value.
func generateChecksums(
	specs []Specification,
	readFile func(string) ([]byte, error),
	log logging.LeveledLogger,
) (map[string]string, error) {
	var checksums map[string]string
	byPath := map[string]string{}
	for _, spec := range specs {
		path := spec.SourcePath()
		if path == "" {
			log.Debugf("%s has no source file, skipping checksum", spec.Identity())

			continue
		}

		sum, ok := byPath[path]
		if !ok {
			raw, err := readFile(path)
			if err != nil {
				return nil, fmt.Errorf("checksum %s: %w", spec.Identity(), err)
			}
			sum = ChecksumOf(raw)
			byPath[path] = sum
		}

		root := spec.RootName()
		if prev, ok := checksums[root]; ok && prev != sum {
			return nil, fmt.Errorf("%w: %q", ErrChecksumMismatch, root)
		}
		if checksums == nil {
			checksums = map[string]string{}
		}
		checksums[root] = sum
	}

	return checksums, nil
}

// compareFold orders case-insensitively, falling back to byte order so the
// result is total.
func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}

	return strings.Compare(a, b)
}

func sortedFold(values []string) []string {
	slices.SortFunc(values, compareFold)

	return values
}

// dedupeSorted sorts and removes duplicates; it returns nil for empty input.
func dedupeSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := sortedFold(slices.Clone(values))

	return slices.Compact(out)
}
