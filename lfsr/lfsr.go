// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package lfsr implements linear feedback shift registers over GF(2).
//
// Taps describe the feedback polynomial: bit i of taps is the term x^(i+1),
// the constant term 1 is implied, and bit Width-1 (x^Width) must be set.
// e.g. 16 bits, taps 0xB400: x^16 + x^14 + x^13 + x^11 + 1.
//
// Both kinds shift right and output the lowest bit:
//
//	Galois:    out = s&1; s >>= 1; if out == 1 { s ^= taps }
//	Fibonacci: out = s&1; s = s>>1 | parity(s & reverse(taps)) << (Width-1)
//
// With the same primitive taps, both have period 2^Width - 1 for any nonzero seed.
package lfsr

import (
	"math/bits"

	"github.com/pkg/errors"
	"github.com/templexxx/galois"
)

// Kind is the structure of a register.
type Kind uint8

const (
	// Fibonacci XORs tapped bits into the new top bit.
	Fibonacci Kind = iota
	// Galois XORs taps into the register when the output bit is 1.
	Galois
)

func (k Kind) String() string {
	switch k {
	case Fibonacci:
		return "fibonacci"
	case Galois:
		return "galois"
	default:
		return "unknown"
	}
}

const (
	minWidth = 2
	maxWidth = 64
)

// Config configures a LFSR.
type Config struct {
	Width int    // Width is the register size in bits, [2, 64].
	Taps  uint64 // Taps is the feedback polynomial, see package doc.
	Seed  uint64 // Seed is the first state.
	Kind  Kind

	// Maximal asks for a maximal-length sequence:
	// Seed must be nonzero, and Taps must be primitive when Width <= 32
	// (it can't be checked for wider registers).
	Maximal bool
}

// LFSR is a shift register. It must not be shared between goroutines.
type LFSR struct {
	width   int
	taps    uint64
	fibMask uint64
	mask    uint64
	seed    uint64
	state   uint64
	kind    Kind
}

func mask(width int) uint64 {
	return ^uint64(0) >> uint(maxWidth-width)
}

func checkTaps(width int, taps uint64) error {
	if width < minWidth || width > maxWidth {
		return errors.Wrapf(galois.ErrInvalidParameters, "width %d out of range [%d, %d]",
			width, minWidth, maxWidth)
	}
	if taps&^mask(width) != 0 {
		return errors.Wrapf(galois.ErrInvalidParameters, "taps %#x wider than %d bits", taps, width)
	}
	if taps>>uint(width-1) != 1 {
		return errors.Wrapf(galois.ErrInvalidParameters, "taps %#x miss x^%d", taps, width)
	}
	return nil
}

// New creates a LFSR.
// A zero seed is a fixed point (all-zero output forever), it's accepted unless cfg.Maximal.
func New(cfg Config) (*LFSR, error) {
	if err := checkTaps(cfg.Width, cfg.Taps); err != nil {
		return nil, err
	}
	if cfg.Kind != Fibonacci && cfg.Kind != Galois {
		return nil, errors.Wrapf(galois.ErrInvalidParameters, "unknown kind %d", cfg.Kind)
	}
	m := mask(cfg.Width)
	if cfg.Seed&^m != 0 {
		return nil, errors.Wrapf(galois.ErrInvalidParameters, "seed %#x wider than %d bits", cfg.Seed, cfg.Width)
	}
	if cfg.Maximal {
		if cfg.Seed == 0 {
			return nil, errors.Wrap(galois.ErrInvalidParameters, "zero seed can't make a maximal-length sequence")
		}
		if cfg.Width <= maxPrimitiveWidth {
			ok, err := IsPrimitive(cfg.Width, cfg.Taps)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.Wrapf(galois.ErrInvalidParameters, "taps %#x aren't primitive", cfg.Taps)
			}
		}
	}
	return &LFSR{
		width:   cfg.Width,
		taps:    cfg.Taps,
		fibMask: bits.Reverse64(cfg.Taps) >> uint(maxWidth-cfg.Width),
		mask:    m,
		seed:    cfg.Seed,
		state:   cfg.Seed,
		kind:    cfg.Kind,
	}, nil
}

// Next returns the output bit and the next state of a register,
// without any check of the parameters (see New).
func Next(kind Kind, width int, taps, state uint64) (bit uint8, next uint64) {
	out := state & 1
	if kind == Galois {
		next = state >> 1
		if out == 1 {
			next ^= taps
		}
		return uint8(out), next
	}
	fibMask := bits.Reverse64(taps) >> uint(maxWidth-width)
	fb := uint64(bits.OnesCount64(state&fibMask) & 1)
	return uint8(out), state>>1 | fb<<uint(width-1)
}

// Step returns the next output bit.
func (l *LFSR) Step() uint8 {
	out := l.state & 1
	if l.kind == Galois {
		l.state >>= 1
		if out == 1 {
			l.state ^= l.taps
		}
		return uint8(out)
	}
	fb := uint64(bits.OnesCount64(l.state&l.fibMask) & 1)
	l.state = l.state>>1 | fb<<uint(l.width-1)
	return uint8(out)
}

// Prev undoes one Step, and returns the bit that Step output.
func (l *LFSR) Prev() uint8 {
	w := uint(l.width)
	if l.kind == Galois {
		// Taps have the top bit, and s>>1 doesn't, so the top bit is the output.
		out := l.state >> (w - 1)
		s := l.state
		if out == 1 {
			s ^= l.taps
		}
		l.state = (s<<1 | out) & l.mask
		return uint8(out)
	}
	fb := l.state >> (w - 1)
	high := (l.state << 1) & l.mask
	// fibMask always has bit 0 (from x^Width).
	out := fb ^ uint64(bits.OnesCount64(high&l.fibMask)&1)
	l.state = high | out
	return uint8(out)
}

// Skip steps n times.
func (l *LFSR) Skip(n int) {
	for i := 0; i < n; i++ {
		l.Step()
	}
}

// Rewind undoes n steps.
func (l *LFSR) Rewind(n int) {
	for i := 0; i < n; i++ {
		l.Prev()
	}
}

// Bits returns the next n (<= 64) output bits, the first one is the most significant.
func (l *LFSR) Bits(n int) uint64 {
	if n > 64 {
		n = 64
	}
	var x uint64
	for i := 0; i < n; i++ {
		x = x<<1 | uint64(l.Step())
	}
	return x
}

// Read fills p with output bits, 8 bits a byte, the first one is the most significant.
// It never fails.
func (l *LFSR) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(l.Bits(8))
	}
	return len(p), nil
}

// Reset restarts from seed.
func (l *LFSR) Reset() {
	l.state = l.seed
}

// State returns the register.
func (l *LFSR) State() uint64 {
	return l.state
}

// Width returns the register size in bits.
func (l *LFSR) Width() int {
	return l.width
}

// Period returns the number of steps before the state comes back,
// it gives up after limit steps and returns false.
// The register is left untouched.
func (l *LFSR) Period(limit uint64) (uint64, bool) {
	start := l.state
	defer func() { l.state = start }()

	for n := uint64(1); n <= limit; n++ {
		l.Step()
		if l.state == start {
			return n, true
		}
	}
	return 0, false
}
