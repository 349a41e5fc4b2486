// Package check compares a lock file with the manifest's current
// dependencies.
package check

import (
	"io"
	"os"

	"github.com/pion/podlock/internal/podlock"
)

type Options struct {
	ManifestPath string
	LockPath     string
	Strict       bool
	Verbose      bool
	Out          io.Writer
}

func DefaultOptions() Options {
	return Options{
		ManifestPath: podlock.DefaultManifestPath(),
		LockPath:     podlock.DefaultLockPath(),
		Out:          os.Stdout,
	}
}

func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.ManifestPath == "" {
		o.ManifestPath = def.ManifestPath
	}
	if o.LockPath == "" {
		o.LockPath = def.LockPath
	}
	if o.Out == nil {
		o.Out = def.Out
	}

	return o
}
