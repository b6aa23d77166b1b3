// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package reedsolomon

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/templexxx/galois"
	"github.com/templexxx/galois/poly"
)

// strategy is the decoding algorithm, chosen by the erasures given.
type strategy uint8

const (
	// strategyErrors: no erasure, locate errors by Berlekamp-Massey.
	strategyErrors strategy = iota
	// strategyErasures: as many erasures as parity symbols,
	// no capacity left for errors, only Forney is needed.
	strategyErasures
	// strategyMixed: Berlekamp-Massey on Forney syndromes,
	// then Forney on erasures and errors together.
	strategyMixed
)

func (s strategy) String() string {
	switch s {
	case strategyErrors:
		return "errors"
	case strategyErasures:
		return "erasures"
	case strategyMixed:
		return "mixed"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

func pickStrategy(erasures, parity int) strategy {
	switch {
	case erasures == 0:
		return strategyErrors
	case erasures == parity:
		return strategyErasures
	default:
		return strategyMixed
	}
}

// correction is an error value at a position.
type correction struct {
	pos int
	val byte
}

type decoder struct {
	c        *Codec
	strategy strategy
	synd     poly.Poly // S(x), S_j at x^j.
	erasures []int
}

func (c *Codec) newDecoder(synd []byte, erasures []int) *decoder {
	return &decoder{
		c:        c,
		strategy: pickStrategy(len(erasures), c.ParityNum),
		synd:     poly.Poly(synd),
		erasures: erasures,
	}
}

// locator returns X = α^(n-1-pos), the locator of symbol pos.
func (d *decoder) locator(pos int) byte {
	return d.c.field.Exp(d.c.n() - 1 - pos)
}

// run returns the corrections making the codeword's syndromes zero.
func (d *decoder) run() ([]correction, error) {
	gamma := poly.One()  // Erasure locator.
	lambda := poly.One() // Error locator.
	var errPos []int
	var err error

	switch d.strategy {
	case strategyErrors:
		lambda, err = d.errorLocator(d.synd)
		if err != nil {
			return nil, err
		}
	case strategyErasures:
		gamma = d.erasureLocator()
	case strategyMixed:
		gamma = d.erasureLocator()
		lambda, err = d.errorLocator(d.forneySyndromes(gamma))
		if err != nil {
			return nil, err
		}
	}

	if lambda.Degree() > 0 {
		errPos, err = d.chien(lambda)
		if err != nil {
			return nil, err
		}
	}

	psi := d.c.ring.Mul(lambda, gamma)
	all := make([]int, 0, len(d.erasures)+len(errPos))
	all = append(all, d.erasures...)
	all = append(all, errPos...)
	return d.forney(psi, all)
}

// erasureLocator returns Γ(x) = Π (1 - X_i*x) of erasures.
func (d *decoder) erasureLocator() poly.Poly {
	r := d.c.ring
	g := poly.One()
	for _, p := range d.erasures {
		g = r.Mul(g, poly.Poly{1, d.locator(p)})
	}
	return g
}

// forneySyndromes removes erasures from syndromes:
// T = S*Γ mod x^(2t), the result is T_e..T_(2t-1).
func (d *decoder) forneySyndromes(gamma poly.Poly) poly.Poly {
	t2 := d.c.ParityNum
	e := len(d.erasures)
	tt := d.c.ring.Mul(d.synd, gamma)
	fs := make(poly.Poly, t2-e)
	for i := range fs {
		fs[i] = tt.Coeff(i + e)
	}
	return fs
}

// errorLocator runs Berlekamp-Massey over synd,
// and returns the connection polynomial Λ(x) (Λ(0) = 1).
// It fails when errors are beyond capacity: 2*L > len(synd).
func (d *decoder) errorLocator(synd poly.Poly) (poly.Poly, error) {
	f, r := d.c.field, d.c.ring
	cur, prev := poly.One(), poly.One()
	l, m, b := 0, 1, byte(1)

	for i := 0; i < len(synd); i++ {
		delta := synd[i]
		for j := 1; j <= l; j++ {
			delta ^= f.Mul(cur.Coeff(j), synd[i-j])
		}
		if delta == 0 {
			m++
			continue
		}
		coef, _ := f.Div(delta, b)
		next := r.Add(cur, r.Scale(prev, coef).Shift(m))
		if 2*l <= i {
			prev = cur
			l = i + 1 - l
			b = delta
			m = 1
		} else {
			m++
		}
		cur = next
	}

	if 2*l > len(synd) {
		return nil, errors.Wrapf(galois.ErrErasureLimitExceeded,
			"%d erasures and at least %d errors, capacity %d",
			len(d.erasures), l, d.c.ParityNum)
	}
	if cur.Degree() != l {
		return nil, errors.Wrapf(galois.ErrUncorrectable,
			"error locator degree %d, want %d", cur.Degree(), l)
	}
	return cur, nil
}

// chien returns the positions whose X^-1 is a root of lambda.
func (d *decoder) chien(lambda poly.Poly) ([]int, error) {
	f, r := d.c.field, d.c.ring
	n := d.c.n()
	deg := lambda.Degree()
	pos := make([]int, 0, deg)
	for i := 0; i < n; i++ {
		xInv, _ := f.Inv(d.locator(i))
		if r.Eval(lambda, xInv) == 0 {
			pos = append(pos, i)
		}
	}
	if len(pos) != deg {
		return nil, errors.Wrapf(galois.ErrUncorrectable,
			"error locator of degree %d has %d roots in codeword", deg, len(pos))
	}
	return pos, nil
}

// forney returns error values at pos,
// Y = X * Ω(X^-1) / Ψ'(X^-1), where Ω = S*Ψ mod x^(2t).
func (d *decoder) forney(psi poly.Poly, pos []int) ([]correction, error) {
	f, r := d.c.field, d.c.ring
	omega := r.Mul(d.synd, psi).Truncate(d.c.ParityNum)
	dpsi := r.Derivative(psi)

	fix := make([]correction, len(pos))
	for i, p := range pos {
		x := d.locator(p)
		xInv, _ := f.Inv(x)
		den := r.Eval(dpsi, xInv)
		if den == 0 {
			return nil, errors.Wrapf(galois.ErrUncorrectable,
				"zero Forney denominator at position %d", p)
		}
		v, _ := f.Div(f.Mul(x, r.Eval(omega, xInv)), den)
		fix[i] = correction{pos: p, val: v}
	}
	return fix, nil
}
