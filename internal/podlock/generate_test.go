// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"errors"
	"io/fs"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// memFiles serves specification sources from memory.
type memFiles map[string]string

func (m memFiles) ReadFile(name string) ([]byte, error) {
	content, ok := m[name]
	if !ok {
		return nil, fs.ErrNotExist
	}

	return []byte(content), nil
}

func sampleManifest() []Dependency {
	return []Dependency{
		{Name: "Moya", Requirement: "~> 15.0"},
		{Name: "Firebase/Analytics"},
		{Name: "Local/Core", Source: map[string]string{"path": "../local"}},
		{Name: "SnapKit", Head: true},
	}
}

func sampleSpecs() []Specification {
	return []Specification{
		Spec{Name: "Moya", Version: "15.0.0", Dependencies: []string{"Alamofire (~> 5.0)"}, Path: "specs/Moya.podspec"},
		Spec{Name: "Alamofire", Version: "5.8.1", Path: "specs/Alamofire.podspec"},
		Spec{
			Name:         "Firebase/Analytics",
			Version:      "10.1.0",
			Dependencies: []string{"Firebase/Core (= 10.1.0)"},
			Path:         "specs/Firebase.podspec",
		},
		Spec{Name: "Firebase/Core", Version: "10.1.0", Path: "specs/Firebase.podspec"},
		Spec{Name: "Local/Core", Version: "0.3.0", Path: "../local/Local.podspec"},
		Spec{Name: "SnapKit", Version: "5.7.0"},
	}
}

func sampleFiles() memFiles {
	return memFiles{
		"specs/Moya.podspec":      "Pod::Spec.new { |s| s.name = 'Moya' }",
		"specs/Alamofire.podspec": "Pod::Spec.new { |s| s.name = 'Alamofire' }",
		"specs/Firebase.podspec":  "Pod::Spec.new { |s| s.name = 'Firebase' }",
		"../local/Local.podspec":  "Pod::Spec.new { |s| s.name = 'Local' }",
	}
}

func generateOptions(files memFiles) Options {
	return Options{ToolVersion: "9.9.9", ReadFile: files.ReadFile}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	files := sampleFiles()
	lock, err := Generate(sampleManifest(), sampleSpecs(), generateOptions(files))
	require.NoError(t, err)

	require.Equal(t, Data{
		Pods: []PodEntry{
			{Identity: "Alamofire (5.8.1)"},
			{Identity: "Firebase/Analytics (10.1.0)", Dependencies: []string{"Firebase/Core (= 10.1.0)"}},
			{Identity: "Firebase/Core (10.1.0)"},
			{Identity: "Local/Core (0.3.0)"},
			{Identity: "Moya (15.0.0)", Dependencies: []string{"Alamofire (~> 5.0)"}},
			{Identity: "SnapKit (5.7.0)"},
		},
		Dependencies: []string{
			"Firebase/Analytics",
			"Local/Core (from path `../local`)",
			"Moya (~> 15.0)",
			"SnapKit (HEAD)",
		},
		ExternalSources: map[string]map[string]string{
			"Local": {"path": "../local"},
		},
		SpecChecksums: map[string]string{
			"Alamofire": ChecksumOf([]byte(files["specs/Alamofire.podspec"])),
			"Firebase":  ChecksumOf([]byte(files["specs/Firebase.podspec"])),
			"Local":     ChecksumOf([]byte(files["../local/Local.podspec"])),
			"Moya":      ChecksumOf([]byte(files["specs/Moya.podspec"])),
		},
		Version: "9.9.9",
	}, lock.Data())
	require.Equal(t, "9.9.9", lock.ToolVersion())
	require.Empty(t, lock.Path())
}

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	files := sampleFiles()
	first, err := Generate(sampleManifest(), sampleSpecs(), generateOptions(files))
	require.NoError(t, err)
	want, err := Encode(first.Data())
	require.NoError(t, err)

	manifest := sampleManifest()
	specs := sampleSpecs()
	slices.Reverse(manifest)
	slices.Reverse(specs)
	specs[0], specs[2] = specs[2], specs[0]

	second, err := Generate(manifest, specs, generateOptions(files))
	require.NoError(t, err)
	got, err := Encode(second.Data())
	require.NoError(t, err)

	require.Equal(t, string(want), string(got))
	require.True(t, first.Equal(second))
}

func TestGenerateRoundTrip(t *testing.T) {
	t.Parallel()

	lock, err := Generate(sampleManifest(), sampleSpecs(), generateOptions(sampleFiles()))
	require.NoError(t, err)

	raw, err := Encode(lock.Data())
	require.NoError(t, err)
	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, lock.Data(), decoded)
}

func TestGenerateMergesDuplicateSpecifications(t *testing.T) {
	t.Parallel()

	specs := []Specification{
		Spec{Name: "Realm", Version: "10.0.0", Dependencies: []string{"RealmCore (= 10.0.0)"}},
		Spec{Name: "Realm", Version: "10.0.0", Dependencies: []string{"RealmSwiftUI (~> 1.0)", "RealmCore (= 10.0.0)"}},
		Spec{Name: "Realm", Version: "10.0.0"},
	}

	lock, err := Generate(nil, specs, Options{})
	require.NoError(t, err)
	require.Equal(t, []PodEntry{{
		Identity:     "Realm (10.0.0)",
		Dependencies: []string{"RealmCore (= 10.0.0)", "RealmSwiftUI (~> 1.0)"},
	}}, lock.Data().Pods)
}

func TestGenerateSortsCaseInsensitively(t *testing.T) {
	t.Parallel()

	specs := []Specification{
		Spec{Name: "zlib", Version: "1.0"},
		Spec{Name: "Yoga", Version: "1.0"},
		Spec{Name: "abseil", Version: "1.0"},
	}

	lock, err := Generate(nil, specs, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"abseil", "Yoga", "zlib"}, lock.PodNames())
}

func TestGenerateConflictingVersions(t *testing.T) {
	t.Parallel()

	specs := []Specification{
		Spec{Name: "Moya", Version: "15.0.0"},
		Spec{Name: "Moya", Version: "14.0.0"},
	}

	_, err := Generate(nil, specs, Options{})
	require.ErrorIs(t, err, ErrConflictingVersions)
	require.ErrorContains(t, err, "Moya (14.0.0) and Moya (15.0.0)")
}

func TestGenerateChecksumAggregation(t *testing.T) {
	t.Parallel()

	files := memFiles{"Firebase.podspec": "firebase"}
	specs := []Specification{
		Spec{Name: "Firebase/Core", Version: "10.1.0", Path: "Firebase.podspec"},
		Spec{Name: "Firebase/Analytics", Version: "10.1.0", Path: "Firebase.podspec"},
	}

	lock, err := Generate(nil, specs, generateOptions(files))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"Firebase": ChecksumOf([]byte("firebase"))}, lock.Data().SpecChecksums)
}

func TestGenerateChecksumMismatch(t *testing.T) {
	t.Parallel()

	files := memFiles{"a.podspec": "one", "b.podspec": "two"}
	specs := []Specification{
		Spec{Name: "Firebase/Core", Version: "10.1.0", Path: "a.podspec"},
		Spec{Name: "Firebase/Analytics", Version: "10.1.0", Path: "b.podspec"},
	}

	_, err := Generate(nil, specs, generateOptions(files))
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestGenerateChecksumReadError(t *testing.T) {
	t.Parallel()

	specs := []Specification{Spec{Name: "Moya", Version: "15.0.0", Path: "missing.podspec"}}

	_, err := Generate(nil, specs, generateOptions(memFiles{}))
	require.True(t, errors.Is(err, fs.ErrNotExist))
	require.ErrorContains(t, err, "checksum Moya (15.0.0)")
}

func TestGenerateSkipsSpecsWithoutSource(t *testing.T) {
	t.Parallel()

	specs := []Specification{Spec{Name: "SnapKit", Version: "5.7.0"}}

	lock, err := Generate(nil, specs, Options{})
	require.NoError(t, err)
	require.Nil(t, lock.Data().SpecChecksums)

	raw, err := Encode(lock.Data())
	require.NoError(t, err)
	require.NotContains(t, string(raw), KeySpecChecksums)
	require.NotContains(t, string(raw), KeyExternalSources)
	require.NotContains(t, string(raw), KeyDependencies)
}

func TestGenerateExternalSources(t *testing.T) {
	t.Parallel()

	git := map[string]string{"git": "https://example.com/kit.git", "branch": "main"}
	manifest := []Dependency{
		{Name: "Kit/Core", Source: git},
		{Name: "Kit/UI", Source: git},
		{Name: "Moya", Requirement: "~> 15.0"},
	}

	lock, err := Generate(manifest, nil, Options{})
	require.NoError(t, err)
	require.Equal(t, map[string]map[string]string{"Kit": git}, lock.Data().ExternalSources)

	manifest[1].Source = map[string]string{"git": "https://example.com/kit.git", "branch": "dev"}
	_, err = Generate(manifest, nil, Options{})
	require.ErrorIs(t, err, ErrConflictingSources)
}

func TestGenerateInvalidIdentity(t *testing.T) {
	t.Parallel()

	_, err := Generate(nil, []Specification{Spec{Name: "Bad Name", Version: "1.0"}}, Options{})
	require.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestGenerateRejectsUnreadableDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest []Dependency
		specs    []Specification
		wantErr  error
	}{
		{
			name:     "ManifestRequirement",
			manifest: []Dependency{{Name: "A", Requirement: ">= 1.0 beta"}},
			wantErr:  ErrInvalidDependency,
		},
		{
			name:    "SpecDependency",
			specs:   []Specification{Spec{Name: "A", Version: "1.0", Dependencies: []string{"B (>= 1.0 rc)"}}},
			wantErr: ErrInvalidDependency,
		},
		{
			name:     "SourceBacktick",
			manifest: []Dependency{{Name: "A", Source: map[string]string{"git": "x`y"}}},
			wantErr:  ErrInvalidDependency,
		},
		{
			name:     "ManifestInvalidUTF8",
			manifest: []Dependency{{Name: "B\xff"}},
			wantErr:  ErrInvalidDependency,
		},
		{
			name:    "SpecInvalidUTF8",
			specs:   []Specification{Spec{Name: "A\xff", Version: "1.0"}},
			wantErr: ErrInvalidIdentity,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lock, err := Generate(tc.manifest, tc.specs, Options{})
			require.ErrorIs(t, err, tc.wantErr)
			require.Nil(t, lock)
		})
	}
}

func TestGenerateOutputDecodes(t *testing.T) {
	t.Parallel()

	manifest := []Dependency{
		{Name: "A", Requirement: ">=1.0,<2.0"},
		{Name: "B", Requirement: "1.2.0-beta.1"},
		{Name: "C", Source: map[string]string{"git": "https://example.com/c.git", "branch": "release, v2"}},
	}
	specs := []Specification{
		Spec{Name: "A", Version: "1.4.0.1", Dependencies: []string{"B (~> 1.2.0-beta)"}},
		Spec{Name: "B", Version: "1.2.0-beta.1"},
		Spec{Name: "C", Version: "2.0.0"},
	}

	lock, err := Generate(manifest, specs, Options{})
	require.NoError(t, err)

	raw, err := Encode(lock.Data())
	require.NoError(t, err)
	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, lock.Data(), decoded)
}
