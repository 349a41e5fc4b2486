// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitAndTrim(t *testing.T) {
	t.Parallel()

	input := []string{" Alamofire ,Moya", "Kingfisher,,", " SnapKit/Core "}
	got := SplitAndTrim(input)
	want := []string{"Alamofire", "Moya", "Kingfisher", "SnapKit/Core"}

	require.Equal(t, want, got)
}
