// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package secstore implements an encrypted random-access storage layer
// for byte-granular I/O over a block-granular raw store, as used for
// the non-volatile memory of a hardware wallet. Every stored byte is
// ciphertext under an XEX tweakable block cipher keyed by a 256 bit
// master key that exists only in volatile memory; the tweak is the
// block's storage address, so equal plaintext at different addresses
// yields unrelated ciphertext.
package secstore

import (
	"encoding/binary"
	"math"
)

const (
	blockMask  = ^uint32(blockSize - 1)
	offsetMask = uint32(blockSize - 1)
	adapterSeq = 1 // fixed block sequence index; 0 is the known XEX weakness
)

// Write encrypts data and stores it at the given byte address, which
// may fall anywhere inside a block. Each covered block is read back,
// decrypted, overlaid with the caller's bytes and re-encrypted, so
// bytes outside [address, address+len(data)) are preserved. Blocks are
// touched in increasing address order; a backend error aborts the call
// and is returned verbatim, leaving earlier blocks rewritten.
//
// Writes may be buffered by the backend; call Flush to force them out.
func (c *Context) Write(data []byte, address uint32) error {
	if len(data) == 0 {
		return errZeroLength
	}
	if uint64(address)+uint64(len(data))-1 > math.MaxUint32 {
		return errAddressOverflow
	}

	var n, ciphertext, plaintext [blockSize]byte
	defer func() {
		wipe(plaintext[:], 0x00)
		wipe(ciphertext[:], 0x00)
	}()

	blockStart := address & blockMask
	blockEnd := (address + uint32(len(data)) - 1) & blockMask
	offset := int(address & offsetMask)

	// The loop tests for the final block before advancing so a range
	// ending in the topmost block does not wrap blockStart around.
	for {
		if err := c.backend.ReadAt(ciphertext[:], blockStart); err != nil {
			c.log.Warnf("raw read at 0x%08x failed: %v", blockStart, err)

			return err
		}

		binary.LittleEndian.PutUint32(n[:4], blockStart)
		c.cipher.Decrypt(plaintext[:], ciphertext[:], n[:], adapterSeq)

		copied := copy(plaintext[offset:], data)
		data = data[copied:]
		offset = 0

		c.cipher.Encrypt(ciphertext[:], plaintext[:], n[:], adapterSeq)
		if err := c.backend.WriteAt(ciphertext[:], blockStart); err != nil {
			c.log.Warnf("raw write at 0x%08x failed: %v", blockStart, err)

			return err
		}

		if blockStart == blockEnd {
			return nil
		}
		blockStart += blockSize
	}
}

// Read fills buf with decrypted content starting at the given byte
// address. The same block translation as Write applies, minus the
// overlay and re-encrypt.
func (c *Context) Read(buf []byte, address uint32) error {
	if len(buf) == 0 {
		return errZeroLength
	}
	if uint64(address)+uint64(len(buf))-1 > math.MaxUint32 {
		return errAddressOverflow
	}

	var n, ciphertext, plaintext [blockSize]byte
	defer func() {
		wipe(plaintext[:], 0x00)
		wipe(ciphertext[:], 0x00)
	}()

	blockStart := address & blockMask
	blockEnd := (address + uint32(len(buf)) - 1) & blockMask
	offset := int(address & offsetMask)

	for {
		if err := c.backend.ReadAt(ciphertext[:], blockStart); err != nil {
			c.log.Warnf("raw read at 0x%08x failed: %v", blockStart, err)

			return err
		}

		binary.LittleEndian.PutUint32(n[:4], blockStart)
		c.cipher.Decrypt(plaintext[:], ciphertext[:], n[:], adapterSeq)

		copied := copy(buf, plaintext[offset:])
		buf = buf[copied:]
		offset = 0

		if blockStart == blockEnd {
			return nil
		}
		blockStart += blockSize
	}
}

// Flush forces writes buffered by the backend out to the medium.
func (c *Context) Flush() error {
	return c.backend.Flush()
}
