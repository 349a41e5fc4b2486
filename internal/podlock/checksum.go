// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"crypto/sha1" //nolint:gosec // change detection only
	"encoding/hex"
)

// ChecksumOf returns the lowercase hex SHA-1 digest of a specification's
// source bytes.
func ChecksumOf(source []byte) string {
	sum := sha1.Sum(source) //nolint:gosec // change detection only

	return hex.EncodeToString(sum[:])
}
