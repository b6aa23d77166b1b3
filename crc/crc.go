// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package crc implements table-driven cyclic redundancy checks of width 8, 16 and 32,
// configured by the parameters of the Rocksoft model
// (width, poly, init, refin, refout, xorout).
//
// It's polynomial division over GF(2), nothing to do with GF(2^8).
package crc

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/templexxx/galois"
)

// Params is a CRC model.
type Params struct {
	Name   string
	Width  int    // Width is 8, 16 or 32.
	Poly   uint32 // Poly is in normal (MSB-first) form without the x^Width term.
	Init   uint32 // Init is the register value before any input.
	RefIn  bool   // RefIn: input bytes are LSB-first.
	RefOut bool   // RefOut: register is reflected before XorOut.
	XorOut uint32
	Check  uint32 // Check is the checksum of "123456789".
}

// Presets.
var (
	CRC8            = Params{"CRC-8/SMBUS", 8, 0x07, 0x00, false, false, 0x00, 0xf4}
	CRC8Maxim       = Params{"CRC-8/MAXIM", 8, 0x31, 0x00, true, true, 0x00, 0xa1}
	CRC16ARC        = Params{"CRC-16/ARC", 16, 0x8005, 0x0000, true, true, 0x0000, 0xbb3d}
	CRC16XModem     = Params{"CRC-16/XMODEM", 16, 0x1021, 0x0000, false, false, 0x0000, 0x31c3}
	CRC16CCITTFalse = Params{"CRC-16/CCITT-FALSE", 16, 0x1021, 0xffff, false, false, 0x0000, 0x29b1}
	// CRC32 is the IEEE one (reflected polynomial 0xEDB88320), used by zip, ethernet etc.
	CRC32      = Params{"CRC-32", 32, 0x04c11db7, 0xffffffff, true, true, 0xffffffff, 0xcbf43926}
	CRC32C     = Params{"CRC-32C", 32, 0x1edc6f41, 0xffffffff, true, true, 0xffffffff, 0xe3069283}
	CRC32BZip2 = Params{"CRC-32/BZIP2", 32, 0x04c11db7, 0xffffffff, false, false, 0xffffffff, 0xfc891918}
	CRC32MPEG2 = Params{"CRC-32/MPEG-2", 32, 0x04c11db7, 0xffffffff, false, false, 0x00000000, 0x0376e6e7}
)

// Presets returns all preset models.
func Presets() []Params {
	return []Params{CRC8, CRC8Maxim, CRC16ARC, CRC16XModem, CRC16CCITTFalse,
		CRC32, CRC32C, CRC32BZip2, CRC32MPEG2}
}

var ErrUnknownPreset = errors.WithMessage(galois.ErrInvalidParameters, "unknown crc preset")

// Lookup returns the preset by name, case-insensitive.
func Lookup(name string) (Params, error) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Params{}, errors.WithMessage(ErrUnknownPreset, name)
}

func (p Params) mask() uint32 {
	return uint32(1)<<uint(p.Width) - 1
}

func (p Params) validate() error {
	switch p.Width {
	case 8, 16, 32:
	default:
		return errors.Wrapf(galois.ErrInvalidParameters, "crc width %d, want 8, 16 or 32", p.Width)
	}
	m := p.mask()
	if p.Poly == 0 {
		return errors.Wrap(galois.ErrInvalidParameters, "zero crc polynomial")
	}
	if p.Poly&^m != 0 || p.Init&^m != 0 || p.XorOut&^m != 0 {
		return errors.Wrapf(galois.ErrInvalidParameters, "crc parameters wider than %d bits", p.Width)
	}
	return nil
}

// Table is a CRC model with its lookup table.
// It's immutable after MakeTable and safe for concurrent use.
type Table struct {
	params Params
	tbl    [256]uint32
}

// MakeTable validates p and builds its table.
func MakeTable(p Params) (*Table, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	t := &Table{params: p}
	w := uint(p.Width)
	if p.RefIn {
		poly := reflectBits(p.Poly, w)
		for i := range t.tbl {
			c := uint32(i)
			for j := 0; j < 8; j++ {
				if c&1 == 1 {
					c = (c >> 1) ^ poly
				} else {
					c >>= 1
				}
			}
			t.tbl[i] = c
		}
		return t, nil
	}

	top, m := uint32(1)<<(w-1), p.mask()
	for i := range t.tbl {
		c := uint32(i) << (w - 8)
		for j := 0; j < 8; j++ {
			if c&top != 0 {
				c = (c << 1) ^ p.Poly
			} else {
				c <<= 1
			}
		}
		t.tbl[i] = c & m
	}
	return t, nil
}

// MustMakeTable is like MakeTable but panics on illegal params.
// It's meant for presets.
func MustMakeTable(p Params) *Table {
	t, err := MakeTable(p)
	if err != nil {
		panic(err)
	}
	return t
}

// Params returns the model of t.
func (t *Table) Params() Params {
	return t.params
}

// Init returns the register before any input.
func (t *Table) Init() uint32 {
	if t.params.RefIn {
		return reflectBits(t.params.Init, uint(t.params.Width))
	}
	return t.params.Init
}

// Update returns the register after feeding data.
// reg must come from Init or Update of the same Table.
func (t *Table) Update(reg uint32, data []byte) uint32 {
	if t.params.RefIn {
		for _, b := range data {
			reg = t.tbl[byte(reg)^b] ^ (reg >> 8)
		}
		return reg
	}
	w, m := uint(t.params.Width), t.params.mask()
	for _, b := range data {
		reg = (t.tbl[byte(reg>>(w-8))^b] ^ (reg << 8)) & m
	}
	return reg
}

// Final returns the checksum of register.
func (t *Table) Final(reg uint32) uint32 {
	// A RefIn register is kept reflected already.
	if t.params.RefIn != t.params.RefOut {
		reg = reflectBits(reg, uint(t.params.Width))
	}
	return reg ^ t.params.XorOut
}

// Checksum returns the CRC of data.
func (t *Table) Checksum(data []byte) uint32 {
	return t.Final(t.Update(t.Init(), data))
}

// reflectBits reverses the low w bits of v.
func reflectBits(v uint32, w uint) uint32 {
	var r uint32
	for i := uint(0); i < w; i++ {
		if v&(1<<i) != 0 {
			r |= 1 << (w - 1 - i)
		}
	}
	return r
}
