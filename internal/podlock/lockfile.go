// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Data is the raw content of a lock file.
type Data struct {
	Pods            []PodEntry
	Dependencies    []string
	ExternalSources map[string]map[string]string
	SpecChecksums   map[string]string
	Version         string
}

// PodEntry is one PODS item: "name (version)" and the declarations it
// depends on. Entries without dependencies are written as bare strings.
type PodEntry struct {
	Identity     string
	Dependencies []string
}

func (d Data) clone() Data {
	out := Data{
		Dependencies:  slices.Clone(d.Dependencies),
		SpecChecksums: maps.Clone(d.SpecChecksums),
		Version:       d.Version,
	}
	if d.Pods != nil {
		out.Pods = make([]PodEntry, len(d.Pods))
		for i, pod := range d.Pods {
			out.Pods[i] = PodEntry{Identity: pod.Identity, Dependencies: slices.Clone(pod.Dependencies)}
		}
	}
	if d.ExternalSources != nil {
		out.ExternalSources = make(map[string]map[string]string, len(d.ExternalSources))
		for name, src := range d.ExternalSources {
			out.ExternalSources[name] = maps.Clone(src)
		}
	}

	return out
}

func (d Data) equal(o Data) bool {
	if d.Version != o.Version ||
		!slices.Equal(d.Dependencies, o.Dependencies) ||
		!maps.Equal(d.SpecChecksums, o.SpecChecksums) {
		return false
	}
	podsEqual := slices.EqualFunc(d.Pods, o.Pods, func(a, b PodEntry) bool {
		return a.Identity == b.Identity && slices.Equal(a.Dependencies, b.Dependencies)
	})
	if !podsEqual {
		return false
	}

	return maps.EqualFunc(d.ExternalSources, o.ExternalSources, func(a, b map[string]string) bool {
		return maps.Equal(a, b)
	})
}

// Lockfile is a loaded or generated lock record. Its data never changes after
// construction; derived views are computed on first use and safe for
// concurrent callers.
type Lockfile struct {
	data Data

	mu   sync.Mutex
	path string

	podsOnce    sync.Once
	podNames    []string
	podVersions map[string]string

	depsOnce sync.Once
	deps     []Dependency
}

func New(data Data) *Lockfile {
	return &Lockfile{data: data.clone()}
}

// Data returns a copy of the raw record.
func (l *Lockfile) Data() Data {
	return l.data.clone()
}

// Path is the file the record was loaded from or last written to.
func (l *Lockfile) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.path
}

func (l *Lockfile) setPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.path = path
}

// ToolVersion is the version of the tool that generated the record.
func (l *Lockfile) ToolVersion() string {
	return l.data.Version
}

func (l *Lockfile) Equal(other *Lockfile) bool {
	if l == nil || other == nil {
		return l == other
	}

	return l.data.equal(other.data)
}

// PodNames returns the names of all locked pods in file order.
func (l *Lockfile) PodNames() []string {
	l.computePods()

	return slices.Clone(l.podNames)
}

// PodVersions maps every locked pod name to its version.
func (l *Lockfile) PodVersions() map[string]string {
	l.computePods()

	return maps.Clone(l.podVersions)
}

// Version returns the locked version of a pod. A root name matches its
// subspecs and a subspec matches its root when it has no entry of its own.
func (l *Lockfile) Version(name string) (string, bool) {
	l.computePods()

	if v, ok := l.podVersions[name]; ok {
		return v, true
	}
	for _, pod := range l.podNames {
		if RootName(pod) != name {
			continue
		}
		if v, ok := l.podVersions[pod]; ok {
			return v, true
		}
	}
	if root := RootName(name); root != name {
		if v, ok := l.podVersions[root]; ok {
			return v, true
		}
	}

	return "", false
}

// Checksum returns the recorded checksum for a root name.
func (l *Lockfile) Checksum(name string) (string, bool) {
	sum, ok := l.data.SpecChecksums[name]

	return sum, ok
}

func (l *Lockfile) computePods() {
	l.podsOnce.Do(func() {
		l.podVersions = make(map[string]string, len(l.data.Pods))
		for _, pod := range l.data.Pods {
			name, version, err := SplitIdentity(pod.Identity)
			if err != nil {
				l.podNames = append(l.podNames, pod.Identity)

				continue
			}
			l.podNames = append(l.podNames, name)
			l.podVersions[name] = version
		}
	})
}

// Dependencies returns the dependencies the manifest declared when the record
// was generated, with their external sources attached. Transitive
// dependencies are not included.
func (l *Lockfile) Dependencies() []Dependency {
	l.depsOnce.Do(func() {
		for _, raw := range l.data.Dependencies {
			dep, err := ParseDependency(raw)
			if err != nil {
				continue
			}
			if src, ok := l.data.ExternalSources[dep.RootName()]; ok {
				dep.Source = maps.Clone(src)
			}
			l.deps = append(l.deps, dep)
		}
	})

	return cloneDependencies(l.deps)
}

// DependencyToLockPodNamed returns the declared dependency for name with its
// requirement pinned to the locked version, so an install reuses the exact
// version instead of re-resolving the range.
func (l *Lockfile) DependencyToLockPodNamed(name string) (Dependency, error) {
	deps := l.Dependencies()
	idx := slices.IndexFunc(deps, func(d Dependency) bool { return d.Name == name })
	if idx < 0 {
		idx = slices.IndexFunc(deps, func(d Dependency) bool { return d.RootName() == name })
	}
	if idx < 0 {
		return Dependency{}, fmt.Errorf("%w: %q", ErrUnknownDependency, name)
	}

	version, ok := l.Version(name)
	if !ok {
		return Dependency{}, fmt.Errorf("%w: %q", ErrUnknownVersion, name)
	}

	locked := deps[idx]
	locked.Requirement = "= " + version

	return locked, nil
}
