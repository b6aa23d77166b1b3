// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package reedsolomon implements Reed-Solomon Codes (systematic codes)
// over GF(2^8).
//
// Codec works on single codewords (n <= 255 symbols) and corrects
// erasures (known positions) and errors (unknown positions).
// Stripe applies the same code column by column over equal-size vectors
// and reconstructs lost vectors by matrix inversion.
//
// Codeword layout: k data symbols followed by n-k parity symbols.
// As a polynomial, symbol i is the coefficient of x^(n-1-i),
// and the generator polynomial is g(x) = (x - α^0)(x - α^1)...(x - α^(n-k-1)).
package reedsolomon

import (
	"github.com/pkg/errors"
	"github.com/templexxx/galois"
	"github.com/templexxx/galois/poly"
)

// MaxCodewordLen is the max number of symbols in a codeword.
const MaxCodewordLen = galois.Size - 1

// Codec Reed-Solomon Codes encoder/decoder for single codewords.
// It's stateless after New, and safe for concurrent use.
type Codec struct {
	DataNum   int // DataNum is the number of data symbols (k).
	ParityNum int // ParityNum is the number of parity symbols (n-k).

	field *galois.Field
	ring  *poly.Ring
	gen   poly.Poly // Generator polynomial.
}

// ErrIllegalCodeword is returned by New for bad data/parity numbers.
var ErrIllegalCodeword = errors.WithMessage(galois.ErrInvalidParameters,
	"illegal data/parity number: data <= 0 or parity < 0 or data+parity > 255")

// New creates a Codec over galois.Default.
func New(dataNum, parityNum int) (*Codec, error) {
	return NewWithField(dataNum, parityNum, galois.Default)
}

// NewWithField creates a Codec over field f.
func NewWithField(dataNum, parityNum int, f *galois.Field) (*Codec, error) {
	if dataNum <= 0 || parityNum < 0 || dataNum+parityNum > MaxCodewordLen {
		return nil, ErrIllegalCodeword
	}
	if f == nil {
		f = galois.Default
	}

	r := poly.NewRing(f)
	roots := make([]byte, parityNum)
	for i := range roots {
		roots[i] = f.Exp(i)
	}
	return &Codec{
		DataNum:   dataNum,
		ParityNum: parityNum,
		field:     f,
		ring:      r,
		gen:       r.FromRoots(roots...),
	}, nil
}

// Generator returns a copy of the generator polynomial (low-degree-first).
func (c *Codec) Generator() poly.Poly {
	return c.gen.Clone()
}

func (c *Codec) n() int {
	return c.DataNum + c.ParityNum
}

// Encode returns the codeword of data: data followed by parity.
// len(data) must be DataNum.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	if len(data) != c.DataNum {
		return nil, errors.Wrapf(galois.ErrInvalidParameters,
			"data length %d, want %d", len(data), c.DataNum)
	}
	n, p := c.n(), c.ParityNum
	cw := make([]byte, n)
	copy(cw, data)
	if p == 0 {
		return cw, nil
	}

	// m(x) = data(x) * x^p, low-degree-first.
	m := make(poly.Poly, n)
	for i, d := range data {
		m[n-1-i] = d
	}
	rem, err := c.ring.Mod(m, c.gen)
	if err != nil {
		return nil, err
	}
	for j := 0; j < p; j++ {
		cw[c.DataNum+j] = rem.Coeff(p - 1 - j)
	}
	return cw, nil
}

// Syndromes returns S_j = received(α^j), j = 0..ParityNum-1.
func (c *Codec) Syndromes(received []byte) ([]byte, error) {
	if len(received) != c.n() {
		return nil, errors.Wrapf(galois.ErrInvalidParameters,
			"codeword length %d, want %d", len(received), c.n())
	}
	return c.syndromes(received), nil
}

func (c *Codec) syndromes(received []byte) []byte {
	s := make([]byte, c.ParityNum)
	for j := range s {
		x := c.field.Exp(j)
		var y byte
		for _, v := range received {
			y = c.field.Mul(y, x) ^ v
		}
		s[j] = y
	}
	return s
}

// Verify returns true if received is a codeword.
func (c *Codec) Verify(received []byte) (bool, error) {
	s, err := c.Syndromes(received)
	if err != nil {
		return false, err
	}
	return isZero(s), nil
}

// Decode returns the data symbols of received after correction.
// erasures are the positions known to be bad, could be nil.
// received isn't modified.
func (c *Codec) Decode(received []byte, erasures []int) ([]byte, error) {
	cw := make([]byte, len(received))
	copy(cw, received)
	if _, err := c.Correct(cw, erasures); err != nil {
		return nil, err
	}
	return cw[:c.DataNum], nil
}

// Correct corrects codeword in place,
// and returns the number of symbols changed.
// codeword is untouched when err != nil.
func (c *Codec) Correct(codeword []byte, erasures []int) (int, error) {
	n := c.n()
	if len(codeword) != n {
		return 0, errors.Wrapf(galois.ErrInvalidParameters,
			"codeword length %d, want %d", len(codeword), n)
	}
	pos := make([]int, len(erasures))
	copy(pos, erasures)
	pos = dedup(pos)
	for _, p := range pos {
		if p < 0 || p >= n {
			return 0, errors.Wrapf(galois.ErrInvalidParameters,
				"erasure position %d out of range [0, %d)", p, n)
		}
	}
	if len(pos) > c.ParityNum {
		return 0, errors.Wrapf(galois.ErrErasureLimitExceeded,
			"%d erasures, capacity %d", len(pos), c.ParityNum)
	}

	s := c.syndromes(codeword)
	if isZero(s) {
		return 0, nil
	}

	fix, err := c.newDecoder(s, pos).run()
	if err != nil {
		return 0, err
	}

	cw := make([]byte, n)
	copy(cw, codeword)
	cnt := 0
	for _, e := range fix {
		if e.val != 0 {
			cw[e.pos] ^= e.val
			cnt++
		}
	}
	if !isZero(c.syndromes(cw)) {
		return 0, errors.Wrap(galois.ErrUncorrectable, "syndromes aren't zero after correction")
	}
	copy(codeword, cw)
	return cnt, nil
}

// Encode encodes data with a parityNum parity Codec over galois.Default.
func Encode(data []byte, parityNum int) ([]byte, error) {
	c, err := New(len(data), parityNum)
	if err != nil {
		return nil, err
	}
	return c.Encode(data)
}

// Decode decodes received, which has parityNum parity symbols,
// with a Codec over galois.Default.
func Decode(received []byte, parityNum int, erasures []int) ([]byte, error) {
	c, err := New(len(received)-parityNum, parityNum)
	if err != nil {
		return nil, err
	}
	return c.Decode(received, erasures)
}

func isZero(s []byte) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}
