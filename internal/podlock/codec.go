// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Top-level keys, in the order they are written.
const (
	KeyPods            = "PODS"
	KeyDependencies    = "DEPENDENCIES"
	KeyExternalSources = "EXTERNAL SOURCES"
	KeySpecChecksums   = "SPEC CHECKSUMS"
	KeyVersion         = "PODLOCK"
)

const encodeIndent = 2

type section struct {
	key   string
	value *yaml.Node
}

// Encode renders data as block YAML. Sections are written in a fixed order,
// empty ones are left out and a blank line separates each section from the
// previous one.
func Encode(data Data) ([]byte, error) {
	chunks := make([][]byte, 0, 5)
	for _, sec := range data.sections() {
		node := &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: []*yaml.Node{stringNode(sec.key), sec.value},
		}

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(encodeIndent)
		if err := enc.Encode(node); err != nil {
			return nil, fmt.Errorf("encode %s: %w", sec.key, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode %s: %w", sec.key, err)
		}
		chunks = append(chunks, buf.Bytes())
	}

	return bytes.Join(chunks, []byte("\n")), nil
}

func (d Data) sections() []section {
	var out []section
	if len(d.Pods) > 0 {
		pods := sequenceNode()
		for _, pod := range d.Pods {
			if len(pod.Dependencies) == 0 {
				pods.Content = append(pods.Content, stringNode(pod.Identity))

				continue
			}
			deps := sequenceNode()
			for _, dep := range pod.Dependencies {
				deps.Content = append(deps.Content, stringNode(dep))
			}
			entry := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{stringNode(pod.Identity), deps}}
			pods.Content = append(pods.Content, entry)
		}
		out = append(out, section{KeyPods, pods})
	}
	if len(d.Dependencies) > 0 {
		deps := sequenceNode()
		for _, dep := range d.Dependencies {
			deps.Content = append(deps.Content, stringNode(dep))
		}
		out = append(out, section{KeyDependencies, deps})
	}
	if len(d.ExternalSources) > 0 {
		sources := mappingNode()
		for _, name := range sortedFold(slices.Collect(maps.Keys(d.ExternalSources))) {
			sources.Content = append(sources.Content, stringNode(name), stringMapNode(d.ExternalSources[name]))
		}
		out = append(out, section{KeyExternalSources, sources})
	}
	if len(d.SpecChecksums) > 0 {
		out = append(out, section{KeySpecChecksums, stringMapNode(d.SpecChecksums)})
	}
	if d.Version != "" {
		out = append(out, section{KeyVersion, stringNode(d.Version)})
	}

	return out
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func sequenceNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func stringMapNode(m map[string]string) *yaml.Node {
	node := mappingNode()
	for _, key := range sortedFold(slices.Collect(maps.Keys(m))) {
		node.Content = append(node.Content, stringNode(key), stringNode(m[key]))
	}

	return node
}

var (
	errNotMapping    = errors.New("expected a mapping")
	errNotSequence   = errors.New("expected a sequence")
	errNotScalar     = errors.New("expected a string")
	errUnknownKey    = errors.New("unknown key")
	errDuplicateKey  = errors.New("duplicate key")
	errPodEntryShape = errors.New("pod entry must be a string or a single-key mapping")
	errDuplicatePod  = errors.New("duplicate pod")
	errOrphanSource  = errors.New("external source without a declared dependency")
)

// Decode parses lock file text. Any syntax or structural problem is reported
// as a *FormatError.
func Decode(text []byte) (Data, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return Data{}, &FormatError{Err: err}
	}
	if doc.Kind == 0 || (doc.Kind == yaml.DocumentNode && len(doc.Content) == 0) {
		return Data{}, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return Data{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return Data{}, formatError(root, errNotMapping)
	}

	var data Data
	seen := map[string]bool{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, value := root.Content[i], root.Content[i+1]
		key, err := scalarValue(keyNode)
		if err != nil {
			return Data{}, err
		}
		if seen[key] {
			return Data{}, formatError(keyNode, fmt.Errorf("%w: %q", errDuplicateKey, key))
		}
		seen[key] = true

		switch key {
		case KeyPods:
			data.Pods, err = decodePods(value)
		case KeyDependencies:
			data.Dependencies, err = decodeDependencies(value)
		case KeyExternalSources:
			data.ExternalSources, err = decodeExternalSources(value)
		case KeySpecChecksums:
			data.SpecChecksums, err = decodeStringMap(value)
		case KeyVersion:
			if !isNull(value) {
				data.Version, err = scalarValue(value)
			}
		default:
			err = formatError(keyNode, fmt.Errorf("%w: %q", errUnknownKey, key))
		}
		if err != nil {
			return Data{}, err
		}
	}

	if err := checkExternalSources(data, root); err != nil {
		return Data{}, err
	}

	return data, nil
}

func decodePods(node *yaml.Node) ([]PodEntry, error) {
	items, err := sequenceItems(node)
	if err != nil {
		return nil, err
	}

	var pods []PodEntry
	names := map[string]bool{}
	for _, item := range items {
		var pod PodEntry
		switch item.Kind {
		case yaml.ScalarNode:
			pod.Identity = item.Value
		case yaml.MappingNode:
			if len(item.Content) != 2 {
				return nil, formatError(item, errPodEntryShape)
			}
			if pod.Identity, err = scalarValue(item.Content[0]); err != nil {
				return nil, err
			}
			if pod.Dependencies, err = decodeDependencies(item.Content[1]); err != nil {
				return nil, err
			}
		default:
			return nil, formatError(item, errPodEntryShape)
		}

		name, _, err := SplitIdentity(pod.Identity)
		if err != nil {
			return nil, formatError(item, err)
		}
		if names[name] {
			return nil, formatError(item, fmt.Errorf("%w: %q", errDuplicatePod, name))
		}
		names[name] = true
		pods = append(pods, pod)
	}

	return pods, nil
}

func decodeDependencies(node *yaml.Node) ([]string, error) {
	items, err := sequenceItems(node)
	if err != nil {
		return nil, err
	}

	var deps []string
	for _, item := range items {
		raw, err := scalarValue(item)
		if err != nil {
			return nil, err
		}
		if _, err := ParseDependency(raw); err != nil {
			return nil, formatError(item, err)
		}
		deps = append(deps, raw)
	}

	return deps, nil
}

func decodeExternalSources(node *yaml.Node) (map[string]map[string]string, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, formatError(node, errNotMapping)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	sources := make(map[string]map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, err := scalarValue(node.Content[i])
		if err != nil {
			return nil, err
		}
		if _, dup := sources[name]; dup {
			return nil, formatError(node.Content[i], fmt.Errorf("%w: %q", errDuplicateKey, name))
		}
		src, err := decodeStringMap(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		if src == nil {
			src = map[string]string{}
		}
		sources[name] = src
	}

	return sources, nil
}

func decodeStringMap(node *yaml.Node) (map[string]string, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, formatError(node, errNotMapping)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, err := scalarValue(node.Content[i])
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, formatError(node.Content[i], fmt.Errorf("%w: %q", errDuplicateKey, key))
		}
		if out[key], err = scalarValue(node.Content[i+1]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// checkExternalSources enforces that every external source belongs to a
// declared dependency.
func checkExternalSources(data Data, root *yaml.Node) error {
	if len(data.ExternalSources) == 0 {
		return nil
	}
	roots := map[string]bool{}
	for _, raw := range data.Dependencies {
		dep, err := ParseDependency(raw)
		if err != nil {
			return formatError(root, err)
		}
		roots[dep.RootName()] = true
	}
	for _, name := range sortedFold(slices.Collect(maps.Keys(data.ExternalSources))) {
		if !roots[name] {
			return formatError(root, fmt.Errorf("%w: %q", errOrphanSource, name))
		}
	}

	return nil
}

func sequenceItems(node *yaml.Node) ([]*yaml.Node, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, formatError(node, errNotSequence)
	}

	return node.Content, nil
}

func scalarValue(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", formatError(node, errNotScalar)
	}

	return node.Value, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func formatError(node *yaml.Node, err error) *FormatError {
	return &FormatError{Line: node.Line, Err: err}
}
