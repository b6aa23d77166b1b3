// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package poly implements polynomials over GF(2^8).
//
// A Poly keeps its coefficients low-degree-first: p[i] is the coefficient of x^i.
// The canonical form has no trailing zero coefficient, except the zero polynomial
// which is Poly{0} (degree -1).
package poly

import (
	"fmt"
	"strings"
)

// Poly is a polynomial over GF(2^8), low-degree-first.
type Poly []byte

// Zero returns the zero polynomial.
func Zero() Poly {
	return Poly{0}
}

// One returns the constant polynomial 1.
func One() Poly {
	return Poly{1}
}

// Degree returns the degree of p, -1 for the zero polynomial.
// Trailing zeros are ignored, so p needn't be canonical.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// IsZero returns true if every coefficient of p is 0.
func (p Poly) IsZero() bool {
	return p.Degree() < 0
}

// Trim returns the canonical form of p, sharing p's memory.
func (p Poly) Trim() Poly {
	d := p.Degree()
	if d < 0 {
		return Zero()
	}
	return p[:d+1]
}

// Coeff returns the coefficient of x^i, 0 when i is beyond p.
func (p Poly) Coeff(i int) byte {
	if i < 0 || i >= len(p) {
		return 0
	}
	return p[i]
}

// Equal returns true if p and q are the same polynomial.
func (p Poly) Equal(q Poly) bool {
	d := p.Degree()
	if d != q.Degree() {
		return false
	}
	for i := 0; i <= d; i++ {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Clone returns a canonical copy of p.
func (p Poly) Clone() Poly {
	t := p.Trim()
	c := make(Poly, len(t))
	copy(c, t)
	return c
}

// Shift returns p * x^n.
func (p Poly) Shift(n int) Poly {
	t := p.Trim()
	if n <= 0 || t.IsZero() {
		return t.Clone()
	}
	r := make(Poly, len(t)+n)
	copy(r[n:], t)
	return r
}

// Truncate returns p mod x^n.
func (p Poly) Truncate(n int) Poly {
	if n > len(p) {
		n = len(p)
	}
	if n <= 0 {
		return Zero()
	}
	return p[:n].Clone()
}

// String returns p in the form "0x03x^2 + 0x01".
func (p Poly) String() string {
	d := p.Degree()
	if d < 0 {
		return "0"
	}
	terms := make([]string, 0, d+1)
	for i := d; i >= 0; i-- {
		c := p[i]
		if c == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, fmt.Sprintf("0x%02x", c))
		case 1:
			terms = append(terms, fmt.Sprintf("0x%02xx", c))
		default:
			terms = append(terms, fmt.Sprintf("0x%02xx^%d", c, i))
		}
	}
	return strings.Join(terms, " + ")
}
