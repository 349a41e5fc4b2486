// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"fmt"
	"slices"
)

// Changes classifies every dependency name found in a record or a manifest.
// Each name appears in exactly one list; lists are sorted.
type Changes struct {
	Added     []string
	Changed   []string
	Removed   []string
	Unchanged []string
}

// Names returns every classified name.
func (c Changes) Names() []string {
	names := slices.Concat(c.Added, c.Changed, c.Removed, c.Unchanged)

	return sortedFold(names)
}

// Empty reports whether nothing was added, changed or removed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

// CompatibilityFunc reports whether a manifest dependency is still satisfied
// by its locked counterpart.
type CompatibilityFunc func(manifest, locked Dependency) bool

type DiffOptions struct {
	// Compatible defaults to Dependency.CompatibleWith.
	Compatible CompatibilityFunc
}

// DetectChanges compares the dependencies locked by lock against the ones the
// manifest declares now. A nil lock means nothing was installed yet.
//
// A name is unchanged when the manifest dependency is compatible with the
// locked one, not only when both are equal.
func DetectChanges(lock *Lockfile, manifest []Dependency, opts DiffOptions) (Changes, error) {
	compatible := opts.Compatible
	if compatible == nil {
		compatible = Dependency.CompatibleWith
	}

	var names []string
	locked := map[string]Dependency{}
	if lock != nil {
		for _, dep := range lock.Dependencies() {
			if _, ok := locked[dep.Name]; ok {
				continue
			}
			pinned, err := lock.DependencyToLockPodNamed(dep.Name)
			if err != nil {
				return Changes{}, fmt.Errorf("detect changes: %w", err)
			}
			locked[dep.Name] = pinned
			names = append(names, dep.Name)
		}
	}

	declared := map[string]Dependency{}
	for _, dep := range manifest {
		if _, ok := declared[dep.Name]; ok {
			continue
		}
		declared[dep.Name] = dep
		names = append(names, dep.Name)
	}

	var changes Changes
	for _, name := range dedupeSorted(names) {
		lockedDep, isLocked := locked[name]
		manifestDep, isDeclared := declared[name]
		switch {
		case !isLocked:
			changes.Added = append(changes.Added, name)
		case !isDeclared:
			changes.Removed = append(changes.Removed, name)
		case compatible(manifestDep, lockedDep):
			changes.Unchanged = append(changes.Unchanged, name)
		default:
			changes.Changed = append(changes.Changed, name)
		}
	}

	return changes, nil
}
