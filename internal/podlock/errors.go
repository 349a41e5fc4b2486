// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDependency   = errors.New("podlock: attempt to lock unknown dependency")
	ErrUnknownVersion      = errors.New("podlock: no locked version for dependency")
	ErrInvalidDependency   = errors.New("podlock: invalid dependency declaration")
	ErrInvalidIdentity     = errors.New("podlock: invalid specification identity")
	ErrConflictingVersions = errors.New("podlock: specification resolved to more than one version")
	ErrConflictingSources  = errors.New("podlock: conflicting external sources")
	ErrChecksumMismatch    = errors.New("podlock: subspecifications disagree on root checksum")
	ErrEmptyPath           = errors.New("podlock: state path empty")

	errUnbalanced     = errors.New("unbalanced parentheses")
	errEmptyName      = errors.New("empty name")
	errBadName        = errors.New("name contains reserved characters")
	errBadSource      = errors.New("malformed external source description")
	errBadPessimistic = errors.New("malformed pessimistic requirement")
	errInvalidUTF8    = errors.New("invalid UTF-8")
)

// FormatError reports a lock file whose text could not be decoded.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("podlock: malformed lock file")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
