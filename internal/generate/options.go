// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package generate implements the command that writes a lock file from a
// manifest and a resolution.
package generate

import (
	"io"
	"os"

	"github.com/pion/podlock/internal/podlock"
)

type Options struct {
	ManifestPath   string
	ResolutionPath string
	LockPath       string
	ToolVersion    string
	DryRun         bool
	Verbose        bool
	Out            io.Writer
}

func DefaultOptions() Options {
	return Options{
		ManifestPath:   podlock.DefaultManifestPath(),
		ResolutionPath: podlock.DefaultResolutionPath(),
		LockPath:       podlock.DefaultLockPath(),
		ToolVersion:    podlock.ToolVersion,
		Out:            os.Stdout,
	}
}

func (o Options) WithDefaults() Options {
	def := DefaultOptions()

	if o.ManifestPath == "" {
		o.ManifestPath = def.ManifestPath
	}
	if o.ResolutionPath == "" {
		o.ResolutionPath = def.ResolutionPath
	}
	if o.LockPath == "" {
		o.LockPath = def.LockPath
	}
	if o.ToolVersion == "" {
		o.ToolVersion = def.ToolVersion
	}
	if o.Out == nil {
		o.Out = def.Out
	}

	return o
}
