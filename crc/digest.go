// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package crc

import "hash"

// Digest is a running CRC, it implements hash.Hash32.
// A Digest must not be shared between goroutines.
type Digest struct {
	t   *Table
	reg uint32
}

var _ hash.Hash32 = (*Digest)(nil)

// New returns a Digest of t.
func New(t *Table) *Digest {
	return &Digest{t: t, reg: t.Init()}
}

// Write never fails.
func (d *Digest) Write(p []byte) (int, error) {
	d.reg = d.t.Update(d.reg, p)
	return len(p), nil
}

// Sum32 returns the checksum of data written so far.
func (d *Digest) Sum32() uint32 {
	return d.t.Final(d.reg)
}

// Sum appends the big-endian checksum (Size bytes) to b.
func (d *Digest) Sum(b []byte) []byte {
	s := d.Sum32()
	for i := d.Size() - 1; i >= 0; i-- {
		b = append(b, byte(s>>(8*uint(i))))
	}
	return b
}

// Reset restarts the Digest.
func (d *Digest) Reset() {
	d.reg = d.t.Init()
}

// Size returns the checksum width in bytes.
func (d *Digest) Size() int {
	return d.t.params.Width / 8
}

// BlockSize is 1, the table consumes a byte at a time.
func (d *Digest) BlockSize() int {
	return 1
}
