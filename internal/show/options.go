// Package show prints the content of a lock file.
package show

import (
	"io"
	"os"

	"github.com/pion/podlock/internal/podlock"
)

type Options struct {
	LockPath string
	// Pin lists dependencies to print pinned to their locked versions
	// instead of the pod table.
	Pin     []string
	Verbose bool
	Out     io.Writer
}

func DefaultOptions() Options {
	return Options{
		LockPath: podlock.DefaultLockPath(),
		Out:      os.Stdout,
	}
}

func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.LockPath == "" {
		o.LockPath = def.LockPath
	}
	if o.Out == nil {
		o.Out = def.Out
	}

	return o
}
