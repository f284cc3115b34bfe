// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package secstore

import "errors"

var (
	errNilBackend      = errors.New("backend must not be nil")
	errKeyLength       = errors.New("combined key must be 32 bytes")
	errZeroLength      = errors.New("zero length transfer")
	errAddressOverflow = errors.New("address range exceeds the 32 bit address space")
)
