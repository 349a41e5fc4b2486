// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		identity    string
		wantName    string
		wantVersion string
		wantErr     bool
	}{
		{identity: "Moya (15.0.0)", wantName: "Moya", wantVersion: "15.0.0"},
		{identity: "Firebase/Core (10.1.0-beta.1)", wantName: "Firebase/Core", wantVersion: "10.1.0-beta.1"},
		{identity: "  Padded   ( 1.0 ) ", wantName: "Padded", wantVersion: "1.0"},
		{identity: "Moya", wantErr: true},
		{identity: "Moya ()", wantErr: true},
		{identity: "Moya (1.0", wantErr: true},
		{identity: "(1.0)", wantErr: true},
		{identity: "/Core (1.0)", wantErr: true},
		{identity: "Moya ((1.0))", wantErr: true},
		{identity: "Mo\xffya (1.0)", wantErr: true},
		{identity: "Moya (1.\xff)", wantErr: true},
	}

	for _, tc := range tests {
		name, version, err := SplitIdentity(tc.identity)
		if tc.wantErr {
			require.ErrorIs(t, err, ErrInvalidIdentity, tc.identity)

			continue
		}
		require.NoError(t, err, tc.identity)
		require.Equal(t, tc.wantName, name)
		require.Equal(t, tc.wantVersion, version)
	}
}

func TestRootName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Firebase", RootName("Firebase/Core/UI"))
	require.Equal(t, "Moya", RootName("Moya"))
	require.Equal(t, "Firebase", Spec{Name: "Firebase/Core"}.RootName())
}

func TestSpecDependencyStringsIsCopy(t *testing.T) {
	t.Parallel()

	spec := Spec{Name: "Moya", Version: "15.0.0", Dependencies: []string{"Alamofire (~> 5.0)"}}

	deps := spec.DependencyStrings()
	deps[0] = "Mutated"

	require.Equal(t, "Alamofire (~> 5.0)", spec.Dependencies[0])
	require.Equal(t, "Moya (15.0.0)", spec.Identity())
}
