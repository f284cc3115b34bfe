// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package secstore

import "errors"

// Backend is the raw non-volatile store beneath the encrypted layer. It
// holds ciphertext only and never sees a key. Implementations transfer
// exactly len(p) bytes at the given byte address or return an error;
// short transfers are not expressible. Errors pass through the
// encrypted layer verbatim.
//
// Addresses are 32 bits wide, which also bounds the tweak derivation: a
// store larger than 4 GiB would need a wider tweak encoding.
type Backend interface {
	ReadAt(p []byte, address uint32) error
	WriteAt(p []byte, address uint32) error
	Flush() error
}

// ErrOutOfRange is returned by MemoryBackend for accesses beyond its
// size.
var ErrOutOfRange = errors.New("access beyond backend size")

// MemoryBackend is a volatile in-memory Backend, for tests, examples
// and hosts that persist the image elsewhere.
type MemoryBackend struct {
	data []byte
}

// NewMemoryBackend creates a zeroed MemoryBackend of the given size in
// bytes.
func NewMemoryBackend(size uint32) *MemoryBackend {
	return &MemoryBackend{data: make([]byte, size)}
}

// ReadAt copies len(p) bytes starting at address into p.
func (m *MemoryBackend) ReadAt(p []byte, address uint32) error {
	if uint64(address)+uint64(len(p)) > uint64(len(m.data)) {
		return ErrOutOfRange
	}
	copy(p, m.data[address:])

	return nil
}

// WriteAt copies p into the store starting at address.
func (m *MemoryBackend) WriteAt(p []byte, address uint32) error {
	if uint64(address)+uint64(len(p)) > uint64(len(m.data)) {
		return ErrOutOfRange
	}
	copy(m.data[address:], p)

	return nil
}

// Flush is a no-op; memory writes are immediate.
func (m *MemoryBackend) Flush() error {
	return nil
}
