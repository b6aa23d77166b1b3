// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package hamming implements the (7,4) Hamming code,
// which corrects any single bit flip in a 7 bits codeword.
//
// Codeword bits (bit 0 first): p1 p2 d0 p3 d1 d2 d3,
// bit i is at position i+1, parity bits are at positions 1, 2 and 4.
package hamming

import (
	"github.com/pkg/errors"
	"github.com/templexxx/galois"
)

// Encode returns the codeword of nibble (4 bits data).
func Encode(nibble byte) (byte, error) {
	if nibble > 0x0f {
		return 0, errors.Wrapf(galois.ErrInvalidParameters, "%#x isn't a nibble", nibble)
	}
	return encode(nibble), nil
}

func encode(nibble byte) byte {
	d0, d1, d2, d3 := nibble&1, nibble>>1&1, nibble>>2&1, nibble>>3&1
	p1 := d0 ^ d1 ^ d3
	p2 := d0 ^ d2 ^ d3
	p3 := d1 ^ d2 ^ d3
	return p1 | p2<<1 | d0<<2 | p3<<3 | d1<<4 | d2<<5 | d3<<6
}

// Decode returns the nibble of code and the position (1-7) of the flipped bit,
// pos is 0 when code is clean.
func Decode(code byte) (nibble byte, pos int, err error) {
	if code > 0x7f {
		return 0, 0, errors.Wrapf(galois.ErrInvalidParameters, "%#x is wider than 7 bits", code)
	}
	nibble, pos = decode(code)
	return nibble, pos, nil
}

func decode(code byte) (byte, int) {
	bit := func(pos int) byte { return code >> uint(pos-1) & 1 }
	s1 := bit(1) ^ bit(3) ^ bit(5) ^ bit(7)
	s2 := bit(2) ^ bit(3) ^ bit(6) ^ bit(7)
	s3 := bit(4) ^ bit(5) ^ bit(6) ^ bit(7)
	pos := int(s1 | s2<<1 | s3<<2)
	if pos != 0 {
		code ^= 1 << uint(pos-1)
	}
	return code>>2&1 | code>>4&1<<1 | code>>5&1<<2 | code>>6&1<<3, pos
}

// EncodeBytes encodes every byte into two codewords: low nibble first.
func EncodeBytes(data []byte) []byte {
	out := make([]byte, 2*len(data))
	for i, b := range data {
		out[2*i] = encode(b & 0x0f)
		out[2*i+1] = encode(b >> 4)
	}
	return out
}

// DecodeBytes decodes codewords made by EncodeBytes,
// and returns the number of corrected bits.
func DecodeBytes(code []byte) ([]byte, int, error) {
	if len(code)%2 != 0 {
		return nil, 0, errors.Wrapf(galois.ErrInvalidParameters, "odd codewords number %d", len(code))
	}
	out := make([]byte, len(code)/2)
	corrected := 0
	for i := range out {
		lo, pos1, err := Decode(code[2*i])
		if err != nil {
			return nil, 0, err
		}
		hi, pos2, err := Decode(code[2*i+1])
		if err != nil {
			return nil, 0, err
		}
		if pos1 != 0 {
			corrected++
		}
		if pos2 != 0 {
			corrected++
		}
		out[i] = lo | hi<<4
	}
	return out, corrected, nil
}
