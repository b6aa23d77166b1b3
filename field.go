// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package galois implements arithmetic over GF(2^8),
// it's the base of the coding packages in this module:
// Reed-Solomon Codes (reedsolomon) and Shamir's Secret Sharing (shamir)
// are built on it through polynomials (poly).
//
// Default Primitive Polynomial: x^8+x^4+x^3+x^2+1 (0x11d), generator: 2.
//
// All tables of a Field are built once by NewField and never modified,
// so a Field can be shared by any number of goroutines.
package galois

import "github.com/pkg/errors"

const (
	// Size is the number of elements in GF(2^8).
	Size = 256
	// cycle is the order of the multiplicative group.
	cycle = Size - 1
)

// Field is GF(2^8) defined by a reducing polynomial and a generator.
type Field struct {
	poly int
	gen  byte

	// exp[i] = gen^i, twice as long as the cycle,
	// so the sum of two logs can be looked up directly.
	exp [2 * cycle]byte
	log [Size]byte // log[0] is unused.
	inv [Size]byte // inv[0] is unused.
	mul [Size][Size]byte
}

var (
	// Default is GF(2^8) under x^8+x^4+x^3+x^2+1 with generator 2,
	// the field used by Reed-Solomon codes in storage systems and QR codes.
	Default = MustNewField(0x11d, 2)

	// AES is GF(2^8) under x^8+x^4+x^3+x+1 with generator 3.
	AES = MustNewField(0x11b, 3)
)

// NewField returns the field for polynomial poly (degree 8, bit i for x^i)
// and generator.
// It fails with ErrInvalidParameters if poly isn't of degree 8 or
// generator's powers don't run through all 255 nonzero elements
// (which is also the case for every reducible poly).
func NewField(poly int, generator byte) (*Field, error) {
	if poly < 0x100 || poly >= 0x200 {
		return nil, errors.Wrapf(ErrInvalidParameters,
			"polynomial %#x is not of degree 8", poly)
	}
	if generator == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "generator can't be 0")
	}

	f := &Field{poly: poly, gen: generator}

	var seen [Size]bool
	x := 1
	for i := 0; i < cycle; i++ {
		if x == 0 || seen[x] {
			return nil, errors.Wrapf(ErrInvalidParameters,
				"generator %#x has cycle length %d under polynomial %#x, want %d",
				generator, i, poly, cycle)
		}
		seen[x] = true
		f.exp[i] = byte(x)
		f.exp[i+cycle] = byte(x)
		f.log[x] = byte(i)
		x = mulSlow(x, int(generator), poly)
	}
	if x != 1 {
		return nil, errors.Wrapf(ErrInvalidParameters,
			"generator %#x doesn't return to 1 under polynomial %#x", generator, poly)
	}

	for i := 1; i < Size; i++ {
		if f.exp[f.log[i]] != byte(i) {
			return nil, errors.Wrapf(ErrInvalidParameters, "bad log of %#x", i)
		}
		f.inv[i] = f.exp[cycle-int(f.log[i])]
	}

	for a := 1; a < Size; a++ {
		la := int(f.log[a])
		for b := 1; b < Size; b++ {
			f.mul[a][b] = f.exp[la+int(f.log[b])]
		}
	}
	return f, nil
}

// MustNewField is like NewField but panics if the field can't be built.
// It's meant for package level fields.
func MustNewField(poly int, generator byte) *Field {
	f, err := NewField(poly, generator)
	if err != nil {
		panic(err)
	}
	return f
}

// mulSlow returns x*y mod poly, carry-less.
// Only used for building tables.
func mulSlow(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&Size != 0 {
			y ^= poly
		}
	}
	return z
}

// Polynomial returns the reducing polynomial of f.
func (f *Field) Polynomial() int {
	return f.poly
}

// Generator returns the generator (α) of f.
func (f *Field) Generator() byte {
	return f.gen
}

// Add returns a + b, which is a XOR b.
func (f *Field) Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a - b. It's the same as Add in characteristic 2.
func (f *Field) Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b.
func (f *Field) Mul(a, b byte) byte {
	return f.mul[a][b]
}

// Div returns a / b.
func (f *Field) Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == 0 {
		return 0, nil
	}
	return f.exp[int(f.log[a])+cycle-int(f.log[b])], nil
}

// Inv returns the multiplicative inverse of a.
func (f *Field) Inv(a byte) (byte, error) {
	if a == 0 {
		return 0, ErrDivisionByZero
	}
	return f.inv[a], nil
}

// Exp returns α^e. e may be negative.
func (f *Field) Exp(e int) byte {
	e %= cycle
	if e < 0 {
		e += cycle
	}
	return f.exp[e]
}

// Log returns the base-α logarithm of a, in [0, 255).
func (f *Field) Log(a byte) (int, error) {
	if a == 0 {
		return 0, errors.Wrap(ErrInvalidParameters, "log of 0")
	}
	return int(f.log[a]), nil
}

// Pow returns a^n.
// a^0 is 1 for every a (0 included), and 0^n is 0 for n != 0.
// Negative n works for nonzero a: a^-1 is the inverse.
func (f *Field) Pow(a byte, n int) byte {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	e := int(f.log[a]) * (n % cycle) % cycle
	if e < 0 {
		e += cycle
	}
	return f.exp[e]
}
