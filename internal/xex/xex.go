// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package xex implements Rogaway's XEX tweakable block cipher mode over
// a 16 byte block cipher. Each block is encrypted under a mask derived
// from a 128 bit tweak value and a sequence index, which combines the
// random-access property of CTR mode with the bit-flipping resistance
// of ECB mode. With independent data and tweak keys this is the XTS
// construction minus ciphertext stealing.
package xex

import (
	"crypto/cipher"
	"errors"

	"github.com/pion/transport/v3/utils/xor"
)

// BlockSize is the block size of the underlying cipher in bytes.
const BlockSize = 16

var errBlockSize = errors.New("xex: underlying cipher does not have a block size of 16")

// Cipher holds the expanded data and tweak key schedules. Expansion
// happens once in NewCipher; callers that change keys must construct a
// new Cipher.
type Cipher struct {
	enc   cipher.Block // data encryption passes
	tweak cipher.Block // tweak value -> mask
}

// NewCipher creates a Cipher from a constructor for the underlying
// block cipher and two independent keys. The constructor must yield a
// cipher with a 16 byte block size.
func NewCipher(cipherFunc func([]byte) (cipher.Block, error), encryptKey, tweakKey []byte) (*Cipher, error) {
	c := new(Cipher)

	var err error
	if c.enc, err = cipherFunc(encryptKey); err != nil {
		return nil, err
	}
	if c.tweak, err = cipherFunc(tweakKey); err != nil {
		return nil, err
	}

	if c.enc.BlockSize() != BlockSize || c.tweak.BlockSize() != BlockSize {
		return nil, errBlockSize
	}

	return c, nil
}

// mask derives the tweak mask: the tweak value n encrypted under the
// tweak key, then doubled seq times in GF(2^128).
func (c *Cipher) mask(delta *[BlockSize]byte, n []byte, seq uint32) {
	c.tweak.Encrypt(delta[:], n[:BlockSize])
	for ; seq > 0; seq-- {
		Double(delta)
	}
}

// Encrypt encrypts the 16 byte block src into dst under the tweak value
// n (16 bytes, little-endian) and sequence index seq. dst and src may
// alias.
//
// seq = 0 weakens the construction (section 6 of Rogaway's paper) and
// must not be used on production data; it is accepted here because
// known-answer vectors exercise it.
func (c *Cipher) Encrypt(dst, src, n []byte, seq uint32) {
	if len(dst) < BlockSize || len(src) < BlockSize {
		panic("xex: dst and src must be 16 bytes")
	}

	var delta, buf [BlockSize]byte
	c.mask(&delta, n, seq)
	xor.XorBytes(buf[:], src[:BlockSize], delta[:])
	c.enc.Encrypt(buf[:], buf[:])
	xor.XorBytes(dst[:BlockSize], buf[:], delta[:])
}

// Decrypt inverts Encrypt for the same n and seq. dst and src may
// alias.
func (c *Cipher) Decrypt(dst, src, n []byte, seq uint32) {
	if len(dst) < BlockSize || len(src) < BlockSize {
		panic("xex: dst and src must be 16 bytes")
	}

	var delta, buf [BlockSize]byte
	c.mask(&delta, n, seq)
	xor.XorBytes(buf[:], src[:BlockSize], delta[:])
	c.enc.Decrypt(buf[:], buf[:])
	xor.XorBytes(dst[:BlockSize], buf[:], delta[:])
}

// EncryptRecord encrypts a record of whole blocks sharing the tweak
// value n, with block sequence indices 1, 2, ... so that index 0 never
// occurs. len(src) must be a multiple of BlockSize and len(dst) at
// least len(src).
func (c *Cipher) EncryptRecord(dst, src, n []byte) {
	if len(src)%BlockSize != 0 {
		panic("xex: record is not a multiple of the block size")
	}
	for i, seq := 0, uint32(1); i < len(src); i, seq = i+BlockSize, seq+1 {
		c.Encrypt(dst[i:], src[i:], n, seq)
	}
}

// DecryptRecord inverts EncryptRecord.
func (c *Cipher) DecryptRecord(dst, src, n []byte) {
	if len(src)%BlockSize != 0 {
		panic("xex: record is not a multiple of the block size")
	}
	for i, seq := 0, uint32(1); i < len(src); i, seq = i+BlockSize, seq+1 {
		c.Decrypt(dst[i:], src[i:], n, seq)
	}
}

// Double multiplies v by x in GF(2^128) with reducing polynomial
// x^128 + x^7 + x^2 + x + 1, treating v as a little-endian integer.
// The reduction is mask-and-XOR rather than a branch so timing does not
// depend on the top bit.
func Double(v *[BlockSize]byte) {
	var carry byte
	for i := range v {
		next := v[i] >> 7
		v[i] = v[i]<<1 | carry
		carry = next
	}
	v[0] ^= 0x87 & -carry
}
