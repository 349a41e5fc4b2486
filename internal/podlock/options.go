// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"os"

	"github.com/pion/logging"
)

const loggerScope = "podlock"

type Options struct {
	// ToolVersion is stamped into generated records.
	ToolVersion   string
	LoggerFactory logging.LoggerFactory
	// ReadFile reads lock files and specification sources.
	ReadFile func(name string) ([]byte, error)
}

func DefaultOptions() Options {
	return Options{
		ToolVersion:   ToolVersion,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
		ReadFile:      os.ReadFile,
	}
}

func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.ToolVersion == "" {
		o.ToolVersion = def.ToolVersion
	}
	if o.LoggerFactory == nil {
		o.LoggerFactory = def.LoggerFactory
	}
	if o.ReadFile == nil {
		o.ReadFile = def.ReadFile
	}

	return o
}

// NewLoggerFactory returns the factory used by the command line tools. Logs go
// to stderr at info level, debug when verbose.
func NewLoggerFactory(verbose bool) logging.LoggerFactory {
	factory := logging.NewDefaultLoggerFactory()
	factory.Writer = os.Stderr
	factory.DefaultLogLevel = logging.LogLevelInfo
	if verbose {
		factory.DefaultLogLevel = logging.LogLevelDebug
	}

	return factory
}
