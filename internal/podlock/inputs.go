// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// The manifest and resolution files stand in for the manifest parser and the
// resolver so the command line tools can run on plain YAML input.

type manifestFile struct {
	Dependencies []manifestEntry `yaml:"dependencies"`
}

type manifestEntry struct {
	Name        string            `yaml:"name"`
	Requirement string            `yaml:"requirement,omitempty"`
	Head        bool              `yaml:"head,omitempty"`
	Source      map[string]string `yaml:"source,omitempty"`
}

type resolutionFile struct {
	Specs []resolutionEntry `yaml:"specs"`
}

type resolutionEntry struct {
	Name         string   `yaml:"name"`
	Version      string   `yaml:"version"`
	Dependencies []string `yaml:"dependencies,omitempty"`
	Path         string   `yaml:"path,omitempty"`
}

var (
	errEntryMissingName    = errors.New("entry missing name")
	errEntryMissingVersion = errors.New("entry missing version")
	errHeadWithSource      = errors.New("head dependency cannot have an external source")
)

// ReadManifest reads the dependencies declared in a manifest file.
func ReadManifest(path string) ([]Dependency, error) {
	var m manifestFile
	if err := readYAML(path, &m); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	deps := make([]Dependency, 0, len(m.Dependencies))
	for i, entry := range m.Dependencies {
		if entry.Name == "" {
			return nil, fmt.Errorf("parse manifest: dependency %d: %w", i, errEntryMissingName)
		}
		if entry.Head && entry.Source != nil {
			return nil, fmt.Errorf("parse manifest: %s: %w", entry.Name, errHeadWithSource)
		}
		dep := Dependency{
			Name:        entry.Name,
			Requirement: entry.Requirement,
			Head:        entry.Head,
			Source:      entry.Source,
		}
		if err := dep.Validate(); err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		deps = append(deps, dep)
	}

	return deps, nil
}

// ReadResolution reads the specifications selected by the resolver. Relative
// source paths are taken relative to the resolution file.
func ReadResolution(path string) ([]Specification, error) {
	var r resolutionFile
	if err := readYAML(path, &r); err != nil {
		return nil, fmt.Errorf("read resolution: %w", err)
	}

	base := filepath.Dir(path)
	specs := make([]Specification, 0, len(r.Specs))
	for i, entry := range r.Specs {
		if entry.Name == "" {
			return nil, fmt.Errorf("parse resolution: spec %d: %w", i, errEntryMissingName)
		}
		if entry.Version == "" {
			return nil, fmt.Errorf("parse resolution: %s: %w", entry.Name, errEntryMissingVersion)
		}
		spec := Spec{
			Name:         entry.Name,
			Version:      entry.Version,
			Dependencies: entry.Dependencies,
			Path:         entry.Path,
		}
		if _, _, err := SplitIdentity(spec.Identity()); err != nil {
			return nil, fmt.Errorf("parse resolution: %w", err)
		}
		for _, raw := range spec.Dependencies {
			if _, err := ParseDependency(raw); err != nil {
				return nil, fmt.Errorf("parse resolution: %s: %w", spec.Identity(), err)
			}
		}
		if spec.Path != "" && !filepath.IsAbs(spec.Path) {
			spec.Path = filepath.Join(base, spec.Path)
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

func readYAML(path string, v any) error {
	safePath, err := cleanStatePath(path)
	if err != nil {
		return err
	}

	f, err := os.Open(safePath) //nolint:gosec // path is cleaned above
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", safePath, err)
	}

	return nil
}
