// Package podlock records resolved dependency graphs in a lock file and
// compares them against the dependencies a manifest declares.
package podlock

import "path/filepath"

// ToolVersion is stamped into every generated lock file.
const ToolVersion = "1.0.0"

const (
	DefaultStateDir       = "."
	DefaultLockFile       = "pods.lock"
	DefaultManifestFile   = "pods.yaml"
	DefaultResolutionFile = "resolution.yaml"
)

func DefaultLockPath() string {
	return filepath.Join(DefaultStateDir, DefaultLockFile)
}

func DefaultManifestPath() string {
	return filepath.Join(DefaultStateDir, DefaultManifestFile)
}

func DefaultResolutionPath() string {
	return filepath.Join(DefaultStateDir, DefaultResolutionFile)
}
