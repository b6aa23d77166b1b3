// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package galois

import xor "github.com/templexxx/xorsimd"

// Galois field multiplying unit.
// Coefficient * vector is the only heavy operation of the coding packages:
// polynomial multiplication, Horner's rule over many secrets at once and
// matrix * vectors are all made of it.

// MulVect multiplies vector(in) by coefficient c,
// then writes result into out[:len(in)].
// in & out could be the same slice.
func (f *Field) MulVect(c byte, in, out []byte) {
	out = out[:len(in)]
	switch c {
	case 0:
		for i := range out {
			out[i] = 0
		}
	case 1:
		copy(out, in)
	default:
		t := &f.mul[c]
		for i, v := range in {
			out[i] = t[v]
		}
	}
}

// MulVectXOR multiplies vector(in) by coefficient c,
// then updates out[:len(in)] by XOR old result.
func (f *Field) MulVectXOR(c byte, in, out []byte) {
	switch c {
	case 0:
	case 1:
		xor.Bytes(out, out, in)
	default:
		out = out[:len(in)]
		t := &f.mul[c]
		for i, v := range in {
			out[i] ^= t[v]
		}
	}
}

// AddVect writes a + b into dst,
// it returns the number of bytes added: min(len(dst), len(a), len(b)).
func (f *Field) AddVect(dst, a, b []byte) int {
	return xor.Bytes(dst, a, b)
}
