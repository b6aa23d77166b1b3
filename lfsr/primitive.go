// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package lfsr

import (
	"github.com/pkg/errors"
	"github.com/templexxx/galois"
)

// maxPrimitiveWidth is the max width IsPrimitive could check,
// 2^width - 1 is factored by trial division.
const maxPrimitiveWidth = 32

// IsPrimitive returns true if the feedback polynomial of taps is primitive,
// which means a nonzero seed makes a sequence of period 2^width - 1.
//
// It checks the order of x modulo the polynomial is 2^width - 1.
func IsPrimitive(width int, taps uint64) (bool, error) {
	if err := checkTaps(width, taps); err != nil {
		return false, err
	}
	if width > maxPrimitiveWidth {
		return false, errors.Wrapf(galois.ErrInvalidParameters,
			"can't check primitivity wider than %d bits", maxPrimitiveWidth)
	}

	p := taps<<1 | 1
	order := uint64(1)<<uint(width) - 1
	if polyPowX(order, p, width) != 1 {
		return false, nil
	}
	for _, q := range primeFactors(order) {
		if polyPowX(order/q, p, width) == 1 {
			return false, nil
		}
	}
	return true, nil
}

// polyMulMod returns a*b mod p over GF(2), deg(p) = w, deg(a), deg(b) < w.
func polyMulMod(a, b, p uint64, w int) uint64 {
	var r uint64
	top := uint64(1) << uint(w)
	for b != 0 {
		if b&1 == 1 {
			r ^= a
		}
		b >>= 1
		a <<= 1
		if a&top != 0 {
			a ^= p
		}
	}
	return r
}

// polyPowX returns x^e mod p.
func polyPowX(e, p uint64, w int) uint64 {
	r, base := uint64(1), uint64(2)
	for e > 0 {
		if e&1 == 1 {
			r = polyMulMod(r, base, p, w)
		}
		base = polyMulMod(base, base, p, w)
		e >>= 1
	}
	return r
}

// primeFactors returns distinct prime factors of n by trial division.
func primeFactors(n uint64) []uint64 {
	var fs []uint64
	for q := uint64(2); q*q <= n; q++ {
		if n%q == 0 {
			fs = append(fs, q)
			for n%q == 0 {
				n /= q
			}
		}
	}
	if n > 1 {
		fs = append(fs, n)
	}
	return fs
}
