// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package poly

import (
	"github.com/pkg/errors"
	"github.com/templexxx/galois"
	xor "github.com/templexxx/xorsimd"
)

// Ring is the polynomial ring over a Field.
// All results are canonical, and arguments are never modified.
type Ring struct {
	f *galois.Field
}

// NewRing returns the polynomial ring over f, nil means galois.Default.
func NewRing(f *galois.Field) *Ring {
	if f == nil {
		f = galois.Default
	}
	return &Ring{f: f}
}

// Field returns the coefficient field.
func (r *Ring) Field() *galois.Field {
	return r.f
}

// Eval returns p(x) by Horner's rule.
func (r *Ring) Eval(p Poly, x byte) byte {
	var y byte
	for i := p.Degree(); i >= 0; i-- {
		y = r.f.Mul(y, x) ^ p[i]
	}
	return y
}

// Add returns p + q (which is also p - q).
func (r *Ring) Add(p, q Poly) Poly {
	if len(p) < len(q) {
		p, q = q, p
	}
	s := make(Poly, len(p))
	copy(s, p)
	xor.Bytes(s[:len(q)], p[:len(q)], q)
	return s.Trim()
}

// Scale returns c * p.
func (r *Ring) Scale(p Poly, c byte) Poly {
	t := p.Trim()
	s := make(Poly, len(t))
	r.f.MulVect(c, t, s)
	return s.Trim()
}

// Mul returns p * q.
func (r *Ring) Mul(p, q Poly) Poly {
	p, q = p.Trim(), q.Trim()
	if p.IsZero() || q.IsZero() {
		return Zero()
	}
	m := make(Poly, len(p)+len(q)-1)
	for i, c := range p {
		r.f.MulVectXOR(c, q, m[i:])
	}
	return m.Trim()
}

// DivMod returns quotient and remainder of p / d,
// deg(rem) < deg(d).
func (r *Ring) DivMod(p, d Poly) (quo, rem Poly, err error) {
	dd := d.Degree()
	if dd < 0 {
		return nil, nil, errors.Wrap(galois.ErrInvalidParameters, "divide by zero polynomial")
	}
	pd := p.Degree()
	if pd < dd {
		return Zero(), p.Clone(), nil
	}

	lead, _ := r.f.Inv(d[dd])
	rem = make(Poly, pd+1)
	copy(rem, p)
	quo = make(Poly, pd-dd+1)
	for i := pd; i >= dd; i-- {
		c := rem[i]
		if c == 0 {
			continue
		}
		c = r.f.Mul(c, lead)
		quo[i-dd] = c
		r.f.MulVectXOR(c, d[:dd+1], rem[i-dd:i+1])
	}
	if dd == 0 {
		return quo.Trim(), Zero(), nil
	}
	return quo.Trim(), rem[:dd].Trim(), nil
}

// Mod returns p mod d.
func (r *Ring) Mod(p, d Poly) (Poly, error) {
	_, rem, err := r.DivMod(p, d)
	return rem, err
}

// Derivative returns the formal derivative of p.
// In characteristic 2, i*c is c for odd i and 0 for even i.
func (r *Ring) Derivative(p Poly) Poly {
	d := p.Degree()
	if d < 1 {
		return Zero()
	}
	dp := make(Poly, d)
	for i := 1; i <= d; i += 2 {
		dp[i-1] = p[i]
	}
	return dp.Trim()
}

// FromRoots returns (x - roots[0]) * (x - roots[1]) * ...
// With no roots, it's 1.
func (r *Ring) FromRoots(roots ...byte) Poly {
	p := make(Poly, 1, len(roots)+1)
	p[0] = 1
	for _, root := range roots {
		// p * (x + root)
		p = append(p, 0)
		for i := len(p) - 1; i > 0; i-- {
			p[i] = p[i-1] ^ r.f.Mul(p[i], root)
		}
		p[0] = r.f.Mul(p[0], root)
	}
	return p.Trim()
}

// LagrangeBasis returns l_i(at) for every i,
// l_i(at) = Π_{j != i} (at - xs[j]) / (xs[i] - xs[j]).
// xs must be distinct.
func (r *Ring) LagrangeBasis(xs []byte, at byte) ([]byte, error) {
	if len(xs) == 0 {
		return nil, errors.Wrap(galois.ErrInvalidParameters, "no points")
	}
	basis := make([]byte, len(xs))
	for i, xi := range xs {
		num, den := byte(1), byte(1)
		for j, xj := range xs {
			if i == j {
				continue
			}
			if xi == xj {
				return nil, errors.Wrapf(galois.ErrInvalidParameters, "duplicate point %#x", xi)
			}
			num = r.f.Mul(num, at^xj)
			den = r.f.Mul(den, xi^xj)
		}
		q, err := r.f.Div(num, den)
		if err != nil {
			return nil, err
		}
		basis[i] = q
	}
	return basis, nil
}

// Interpolate returns the value at `at` of the unique polynomial of
// degree < len(xs) passing through (xs[i], ys[i]).
func (r *Ring) Interpolate(xs, ys []byte, at byte) (byte, error) {
	if len(xs) != len(ys) {
		return 0, errors.Wrap(galois.ErrInvalidParameters, "points and values mismatched")
	}
	basis, err := r.LagrangeBasis(xs, at)
	if err != nil {
		return 0, err
	}
	var y byte
	for i, b := range basis {
		y ^= r.f.Mul(b, ys[i])
	}
	return y, nil
}
