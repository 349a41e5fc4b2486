// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Specification is a package resolved by the dependency resolver.
type Specification interface {
	// Identity returns "name (version)".
	Identity() string
	RootName() string
	// DependencyStrings returns the declarations of the specification's own
	// dependencies, e.g. "B (~> 1.0)".
	DependencyStrings() []string
	// SourcePath returns the file that defines the specification, or "" when
	// there are no source bytes to checksum.
	SourcePath() string
}

// Spec is a plain Specification.
type Spec struct {
	Name         string
	Version      string
	Dependencies []string
	Path         string
}

var _ Specification = Spec{}

func (s Spec) Identity() string {
	return Identity(s.Name, s.Version)
}

func (s Spec) RootName() string {
	return RootName(s.Name)
}

func (s Spec) DependencyStrings() []string {
	return slices.Clone(s.Dependencies)
}

func (s Spec) SourcePath() string {
	return s.Path
}

// RootName returns the top-level package of a possibly nested name, so
// "A/Core/UI" yields "A".
func RootName(name string) string {
	root, _, _ := strings.Cut(name, "/")

	return root
}

func Identity(name, version string) string {
	return name + " (" + version + ")"
}

// SplitIdentity splits "name (version)" into its parts.
func SplitIdentity(identity string) (name string, version string, err error) {
	name, inner, ok, err := splitDeclaration(identity)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentity, identity)
	}
	if !ok || inner == "" || strings.ContainsAny(inner, "()") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentity, identity)
	}

	return name, inner, nil
}

// splitDeclaration splits "name" or "name (inner)". ok reports whether a
// parenthesised part was present.
func splitDeclaration(raw string) (name string, inner string, ok bool, err error) {
	if !utf8.ValidString(raw) {
		return "", "", false, errInvalidUTF8
	}
	trimmed := strings.TrimSpace(raw)
	open := strings.IndexByte(trimmed, '(')
	if open < 0 {
		if strings.ContainsRune(trimmed, ')') {
			return "", "", false, errUnbalanced
		}
		if err := validateName(trimmed); err != nil {
			return "", "", false, err
		}

		return trimmed, "", false, nil
	}

	if !strings.HasSuffix(trimmed, ")") {
		return "", "", false, errUnbalanced
	}
	name = strings.TrimSpace(trimmed[:open])
	if err := validateName(name); err != nil {
		return "", "", false, err
	}
	inner = strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])

	return name, inner, true, nil
}

func validateName(name string) error {
	if name == "" {
		return errEmptyName
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q", errInvalidUTF8, name)
	}
	if strings.ContainsAny(name, " \t\r\n()") {
		return fmt.Errorf("%w: %q", errBadName, name)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("%w: %q", errBadName, name)
	}

	return nil
}
