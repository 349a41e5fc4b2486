// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"cmp"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
)

// Dependency is a declaration such as "A/Core (~> 1.0)".
type Dependency struct {
	Name string
	// Requirement is a comma separated clause list; empty accepts any version.
	Requirement string
	Head        bool
	// Source describes a non-registry origin. It is nil for registry
	// dependencies.
	Source map[string]string
}

const headMarker = "HEAD"

// sourceLocationKeys are rendered first, in this order, when describing an
// external source.
var sourceLocationKeys = []string{"git", "path", "podspec", "http"}

var requirementOperators = []string{"~>", ">=", "<=", "!=", "=", ">", "<"}

var (
	sourcePair = regexp.MustCompile("^([A-Za-z][A-Za-z0-9_-]*) `([^`]*)`")
	sourceKey  = regexp.MustCompile("^[A-Za-z][A-Za-z0-9_-]*$")
)

func (d Dependency) RootName() string {
	return RootName(d.Name)
}

func (d Dependency) IsExternal() bool {
	return d.Source != nil
}

// String renders the canonical declaration written to the lock file.
func (d Dependency) String() string {
	switch {
	case d.IsExternal():
		return d.Name + " (" + describeSource(d.Source) + ")"
	case d.Head:
		return d.Name + " (" + headMarker + ")"
	case strings.TrimSpace(d.Requirement) != "":
		return d.Name + " (" + canonicalRequirement(d.Requirement) + ")"
	default:
		return d.Name
	}
}

// ParseDependency parses the output of Dependency.String.
func ParseDependency(raw string) (Dependency, error) {
	name, inner, ok, err := splitDeclaration(raw)
	if err != nil {
		return Dependency{}, fmt.Errorf("%w: %q: %w", ErrInvalidDependency, raw, err)
	}

	dep := Dependency{Name: name}
	switch {
	case !ok:
	case inner == headMarker:
		dep.Head = true
	case inner == "from" || strings.HasPrefix(inner, "from "):
		src, err := parseSourceDescription(strings.TrimPrefix(inner, "from"))
		if err != nil {
			return Dependency{}, fmt.Errorf("%w: %q: %w", ErrInvalidDependency, raw, err)
		}
		dep.Source = src
	default:
		clauses, err := parseRequirement(inner)
		if err != nil {
			return Dependency{}, fmt.Errorf("%w: %q: %w", ErrInvalidDependency, raw, err)
		}
		dep.Requirement = formatRequirement(clauses)
	}

	return dep, nil
}

// CompatibleWith reports whether the receiver, as declared by a manifest, is
// still satisfied by a locked dependency: names, head flags and sources must
// match and every version the locked requirement names must satisfy the
// receiver's requirement.
func (d Dependency) CompatibleWith(locked Dependency) bool {
	if d.Name != locked.Name || d.Head != locked.Head {
		return false
	}
	if d.IsExternal() != locked.IsExternal() || !maps.Equal(d.Source, locked.Source) {
		return false
	}
	if strings.TrimSpace(d.Requirement) == "" {
		return true
	}

	clauses, err := parseRequirement(d.Requirement)
	if err != nil {
		return false
	}
	versions, err := namedVersions(locked.Requirement)
	if err != nil {
		return false
	}
	for _, raw := range versions {
		for _, c := range clauses {
			ok, err := c.satisfiedBy(raw)
			if err != nil || !ok {
				return false
			}
		}
	}

	return true
}

// Validate reports whether the dependency renders to a declaration that
// ParseDependency reads back unchanged.
func (d Dependency) Validate() error {
	if err := validateName(d.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDependency, err)
	}
	switch {
	case d.IsExternal():
		for key, value := range d.Source {
			if !sourceKey.MatchString(key) || strings.ContainsRune(value, '`') || !utf8.ValidString(value) {
				return fmt.Errorf("%w: %s: %w: %q", ErrInvalidDependency, d.Name, errBadSource, key)
			}
		}
	case d.Head:
	case strings.TrimSpace(d.Requirement) != "":
		if _, err := parseRequirement(d.Requirement); err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
	}

	parsed, err := ParseDependency(d.String())
	if err != nil {
		return err
	}
	if parsed.String() != d.String() {
		return fmt.Errorf("%w: %q does not round trip", ErrInvalidDependency, d.String())
	}

	return nil
}

func (d Dependency) clone() Dependency {
	d.Source = maps.Clone(d.Source)

	return d
}

func cloneDependencies(deps []Dependency) []Dependency {
	if deps == nil {
		return nil
	}
	out := make([]Dependency, len(deps))
	for i, dep := range deps {
		out[i] = dep.clone()
	}

	return out
}

func describeSource(src map[string]string) string {
	order := make([]string, 0, len(src))
	for _, key := range sourceLocationKeys {
		if _, ok := src[key]; ok {
			order = append(order, key)

			break
		}
	}
	for _, key := range slices.Sorted(maps.Keys(src)) {
		if len(order) > 0 && key == order[0] {
			continue
		}
		order = append(order, key)
	}

	parts := make([]string, 0, len(order))
	for _, key := range order {
		parts = append(parts, key+" `"+src[key]+"`")
	}

	return strings.TrimSpace("from " + strings.Join(parts, ", "))
}

func parseSourceDescription(desc string) (map[string]string, error) {
	src := map[string]string{}
	rest := strings.TrimSpace(desc)
	for rest != "" {
		m := sourcePair.FindStringSubmatch(rest)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", errBadSource, desc)
		}
		src[m[1]] = m[2]
		rest = strings.TrimSpace(strings.TrimPrefix(rest[len(m[0]):], ","))
	}

	return src, nil
}

type requirementClause struct {
	op      string
	version string
}

// parseRequirement accepts clauses like "~> 1.0", ">=2" or a bare version,
// which means "= version".
func parseRequirement(req string) ([]requirementClause, error) {
	parts := strings.Split(req, ",")
	clauses := make([]requirementClause, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty clause in %q", ErrInvalidDependency, req)
		}
		clause := requirementClause{op: "="}
		for _, op := range requirementOperators {
			if rest, ok := strings.CutPrefix(part, op); ok {
				clause.op = op
				part = strings.TrimSpace(rest)

				break
			}
		}
		if part == "" || strings.ContainsAny(part, " \t()") {
			return nil, fmt.Errorf("%w: bad version in %q", ErrInvalidDependency, req)
		}
		clause.version = part
		clauses = append(clauses, clause)
	}

	return clauses, nil
}

func formatRequirement(clauses []requirementClause) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, c.op+" "+c.version)
	}

	return strings.Join(parts, ", ")
}

func canonicalRequirement(req string) string {
	clauses, err := parseRequirement(req)
	if err != nil {
		return strings.TrimSpace(req)
	}

	return formatRequirement(clauses)
}

// namedVersions lists the versions a requirement mentions. An empty
// requirement stands for ">= 0".
func namedVersions(req string) ([]string, error) {
	if strings.TrimSpace(req) == "" {
		return []string{"0"}, nil
	}
	clauses, err := parseRequirement(req)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(clauses))
	for _, c := range clauses {
		versions = append(versions, c.version)
	}

	return versions, nil
}

// satisfiedBy evaluates one clause against a version. Versions are ordered
// segment by segment, so "1.2.0.1" and prereleases such as "1.2.0-beta.1" or
// "1.2.0.beta1" compare the way a gem requirement would.
func (c requirementClause) satisfiedBy(raw string) (bool, error) {
	v, err := parseVersion(raw)
	if err != nil {
		return false, err
	}
	want, err := parseVersion(c.version)
	if err != nil {
		return false, err
	}

	order := v.compare(want)
	switch c.op {
	case "=":
		return order == 0, nil
	case "!=":
		return order != 0, nil
	case ">":
		return order > 0, nil
	case "<":
		return order < 0, nil
	case ">=":
		return order >= 0, nil
	case "<=":
		return order <= 0, nil
	case "~>":
		upper, err := pessimisticUpperBound(c.version)
		if err != nil {
			return false, err
		}
		limit, err := parseVersion(upper)
		if err != nil {
			return false, err
		}

		return order >= 0 && v.compare(limit) < 0, nil
	default:
		return false, fmt.Errorf("%w: operator %q", ErrInvalidDependency, c.op)
	}
}

// version splits a version into numeric release segments and a prerelease
// part. The first three segments and the prerelease are ordered by semver;
// further release segments are compared numerically.
type version struct {
	release []uint64
	pre     string
}

func parseVersion(raw string) (version, error) {
	core, pre, _ := strings.Cut(strings.TrimSpace(raw), "-")
	segments := strings.Split(core, ".")

	var v version
	for i, seg := range segments {
		n, err := strconv.ParseUint(seg, 10, 64)
		if err != nil {
			if i == 0 || seg == "" {
				return version{}, fmt.Errorf("%w: version %q", ErrInvalidDependency, raw)
			}
			rest := strings.Join(segments[i:], ".")
			if pre != "" {
				rest += "." + pre
			}
			pre = rest

			break
		}
		v.release = append(v.release, n)
	}
	v.pre = pre

	return v, nil
}

func (v version) segment(i int) uint64 {
	if i < len(v.release) {
		return v.release[i]
	}

	return 0
}

func (v version) compare(o version) int {
	head := semver.New(v.segment(0), v.segment(1), v.segment(2), "", "")
	other := semver.New(o.segment(0), o.segment(1), o.segment(2), "", "")
	if c := head.Compare(other); c != 0 {
		return c
	}
	for i := 3; i < max(len(v.release), len(o.release)); i++ {
		if c := cmp.Compare(v.segment(i), o.segment(i)); c != 0 {
			return c
		}
	}

	return semver.New(0, 0, 0, v.pre, "").Compare(semver.New(0, 0, 0, o.pre, ""))
}

// pessimisticUpperBound drops the last segment and bumps the one before it:
// "~> 2.0" allows < 3, "~> 2.0.1" allows < 2.1 and "~> 2" allows < 3.
func pessimisticUpperBound(raw string) (string, error) {
	core, _, _ := strings.Cut(raw, "-")
	segments := strings.Split(core, ".")
	nums := make([]int, 0, len(segments))
	for _, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return "", fmt.Errorf("%w: %q", errBadPessimistic, raw)
		}
		nums = append(nums, n)
	}
	if len(nums) > 1 {
		nums = nums[:len(nums)-1]
	}
	nums[len(nums)-1]++

	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}

	return strings.Join(parts, "."), nil
}
