// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package secstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend(64)

	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	require.NoError(t, backend.WriteAt(data, 60))

	buf := make([]byte, 4)
	require.NoError(t, backend.ReadAt(buf, 60))
	assert.Equal(t, data, buf)

	assert.NoError(t, backend.Flush())
}

func TestMemoryBackendBounds(t *testing.T) {
	backend := NewMemoryBackend(64)
	buf := make([]byte, 16)

	assert.ErrorIs(t, backend.ReadAt(buf, 49), ErrOutOfRange)
	assert.ErrorIs(t, backend.WriteAt(buf, 49), ErrOutOfRange)
	assert.NoError(t, backend.ReadAt(buf, 48))

	// A length that would wrap past the end of the address space must
	// not be treated as in range.
	assert.ErrorIs(t, backend.ReadAt(buf, ^uint32(0)-7), ErrOutOfRange)
}
