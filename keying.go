// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package secstore

import (
	"crypto/subtle"
	"runtime"

	"github.com/pion/secstore/internal/xex"
)

// SetKey installs the combined 256 bit master key: bytes 0..15 are the
// data encryption key, bytes 16..31 the tweak key. The two halves must
// be independent; that property is the caller's responsibility and is
// not checked here. The cached key schedule is rebuilt, so ciphertext
// written under a previous key will no longer decrypt.
func (c *Context) SetKey(key []byte) error {
	if len(key) != keyLen {
		return errKeyLength
	}

	ciph, err := xex.NewCipher(c.cipherFunc, key[:blockSize], key[blockSize:])
	if err != nil {
		return err
	}

	copy(c.encryptKey[:], key[:blockSize])
	copy(c.tweakKey[:], key[blockSize:])
	c.cipher = ciph
	c.log.Debugf("master key installed")

	return nil
}

// Key writes the combined master key into out, in the layout SetKey
// takes.
func (c *Context) Key(out []byte) error {
	if len(out) != keyLen {
		return errKeyLength
	}

	copy(out[:blockSize], c.encryptKey[:])
	copy(out[blockSize:], c.tweakKey[:])

	return nil
}

// KeyNonzero reports whether any byte of either key half is nonzero.
// An all-zero key means "no key installed" to the layer above. The scan
// touches every byte and the single comparison happens after, so timing
// does not depend on the key contents.
func (c *Context) KeyNonzero() bool {
	var acc byte
	for i := 0; i < blockSize; i++ {
		acc |= c.encryptKey[i] | c.tweakKey[i]
	}

	return subtle.ConstantTimeByteEq(acc, 0) == 0
}

// ClearKey wipes the master key, overwriting with 0xFF before 0x00. The
// intermediate pass frustrates write-coalescing in whatever cells back
// the key on a given target. The context remains usable afterwards,
// operating under the all-zero key.
func (c *Context) ClearKey() {
	wipe(c.tweakKey[:], 0xFF)
	wipe(c.encryptKey[:], 0xFF)
	wipe(c.tweakKey[:], 0x00)
	wipe(c.encryptKey[:], 0x00)

	if err := c.rekey(); err != nil {
		// The constructor already accepted an all-zero key in
		// CreateContext, so a deterministic cipherFunc cannot fail
		// here.
		panic(err)
	}

	c.log.Debugf("master key cleared")
}

// wipe overwrites b with v. The KeepAlive pins the buffer at the end of
// the loop so the stores cannot be elided as dead ahead of a following
// pass.
func wipe(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
	runtime.KeepAlive(&b[0])
}
