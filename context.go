// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package secstore

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/pion/logging"
	"github.com/pion/secstore/internal/xex"
)

const (
	blockSize = xex.BlockSize
	keyLen    = 32
)

// Context represents the state of an encrypted storage session: the
// combined master key, the cipher expanded from it, and the raw backend
// the ciphertext lives on. The master key exists only in this process;
// the backend never sees plaintext.
//
// A Context is not safe for concurrent use. Callers on multi-threaded
// hosts must serialize access externally.
type Context struct {
	backend Backend

	encryptKey [blockSize]byte
	tweakKey   [blockSize]byte
	cipher     *xex.Cipher

	cipherFunc func(key []byte) (cipher.Block, error)
	log        logging.LeveledLogger
}

// ContextOption represents the option which can be applied to the
// context.
type ContextOption func(c *Context) error

// ContextWithLoggerFactory sets the logger factory used by the context.
func ContextWithLoggerFactory(factory logging.LoggerFactory) ContextOption {
	return func(c *Context) error {
		c.log = factory.NewLogger("secstore")

		return nil
	}
}

// ContextWithBlockCipher substitutes the 16 byte block cipher primitive
// used for both the data and the tweak passes. The default is AES-128.
// The constructor must accept any 16 byte key, including all zeros.
func ContextWithBlockCipher(cipherFunc func(key []byte) (cipher.Block, error)) ContextOption {
	return func(c *Context) error {
		c.cipherFunc = cipherFunc

		return nil
	}
}

// CreateContext creates a Context over the given backend with an
// all-zero master key installed. The all-zero key is the distinguished
// "no key installed" state; see (*Context).KeyNonzero.
func CreateContext(backend Backend, opts ...ContextOption) (*Context, error) {
	if backend == nil {
		return nil, errNilBackend
	}

	c := &Context{
		backend:    backend,
		cipherFunc: aes.NewCipher,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.log == nil {
		c.log = logging.NewDefaultLoggerFactory().NewLogger("secstore")
	}

	if err := c.rekey(); err != nil {
		return nil, err
	}

	return c, nil
}

// rekey rebuilds the cached cipher from the current key halves,
// discarding any previously expanded key schedule.
func (c *Context) rekey() error {
	ciph, err := xex.NewCipher(c.cipherFunc, c.encryptKey[:], c.tweakKey[:])
	if err != nil {
		return err
	}
	c.cipher = ciph

	return nil
}
