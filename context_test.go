// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package secstore

import (
	"crypto/cipher"
	"crypto/des" //nolint:gosec // wrong block size on purpose
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContext(t *testing.T) {
	_, err := CreateContext(nil)
	assert.ErrorIs(t, err, errNilBackend)

	ctx, err := CreateContext(NewMemoryBackend(1024))
	require.NoError(t, err)
	assert.False(t, ctx.KeyNonzero(), "fresh context must report no key installed")
}

func TestContextWithLoggerFactory(t *testing.T) {
	ctx, err := CreateContext(NewMemoryBackend(64),
		ContextWithLoggerFactory(logging.NewDefaultLoggerFactory()))
	require.NoError(t, err)
	assert.NotNil(t, ctx)
}

func TestContextWithBlockCipher(t *testing.T) {
	desFunc := func(key []byte) (cipher.Block, error) {
		return des.NewCipher(key[:8]) //nolint:gosec // wrong block size on purpose
	}

	_, err := CreateContext(NewMemoryBackend(64), ContextWithBlockCipher(desFunc))
	assert.Error(t, err, "an 8 byte block cipher must be rejected")
}

func TestKeyLifecycle(t *testing.T) {
	ctx, err := CreateContext(NewMemoryBackend(1024))
	require.NoError(t, err)

	ctx.ClearKey()
	assert.False(t, ctx.KeyNonzero())

	key := make([]byte, 32)
	key[16] = 0x01
	require.NoError(t, ctx.SetKey(key))
	assert.True(t, ctx.KeyNonzero())

	readBack := make([]byte, 32)
	require.NoError(t, ctx.Key(readBack))
	assert.Equal(t, key, readBack)
}

func TestKeyLength(t *testing.T) {
	ctx, err := CreateContext(NewMemoryBackend(64))
	require.NoError(t, err)

	for _, n := range []int{0, 16, 31, 33, 64} {
		assert.ErrorIs(t, ctx.SetKey(make([]byte, n)), errKeyLength, "SetKey with %d bytes", n)
		assert.ErrorIs(t, ctx.Key(make([]byte, n)), errKeyLength, "Key with %d bytes", n)
	}
}

func TestClearKeyIdempotent(t *testing.T) {
	ctx, err := CreateContext(NewMemoryBackend(64))
	require.NoError(t, err)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	require.NoError(t, ctx.SetKey(key))
	require.True(t, ctx.KeyNonzero())

	ctx.ClearKey()
	once := make([]byte, 32)
	require.NoError(t, ctx.Key(once))

	ctx.ClearKey()
	twice := make([]byte, 32)
	require.NoError(t, ctx.Key(twice))

	assert.Equal(t, once, twice)
	assert.Equal(t, make([]byte, 32), twice)
	assert.False(t, ctx.KeyNonzero())
}

func TestSetKeyInvalidatesCipher(t *testing.T) {
	ctx, err := CreateContext(NewMemoryBackend(64))
	require.NoError(t, err)

	plaintext := []byte("stored in the clear key epoch...")
	require.NoError(t, ctx.Write(plaintext, 0))

	key := make([]byte, 32)
	key[0] = 0x01
	require.NoError(t, ctx.SetKey(key))

	buf := make([]byte, len(plaintext))
	require.NoError(t, ctx.Read(buf, 0))
	assert.NotEqual(t, plaintext, buf, "a key change must orphan old ciphertext")

	ctx.ClearKey()
	require.NoError(t, ctx.Read(buf, 0))
	assert.Equal(t, plaintext, buf)
}
