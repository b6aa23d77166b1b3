// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package shamir implements Shamir's Secret Sharing over GF(2^8).
//
// Every byte of a secret is shared by its own random polynomial of degree
// threshold-1 whose constant term is the byte,
// a share is the values of all these polynomials at the share's X.
// Any threshold shares give back the secret by Lagrange interpolation at 0,
// fewer shares reveal nothing about it.
// Coefficients are uniform over the whole field, 0 included:
// leaving 0 out would bias shares, e.g. with threshold 2
// a share would never equal the secret byte.
//
// Warn:
// There is no integrity check, wrong shares silently make a wrong secret.
package shamir

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
	"github.com/templexxx/galois"
	"github.com/templexxx/galois/poly"
)

// MaxShares is the max number of shares, X of a share is in [1, 255].
const MaxShares = galois.Size - 1

// Config configures a Scheme.
type Config struct {
	Threshold int // Threshold is the min number of shares to combine.
	Shares    int // Shares is the number of shares made by Split.

	// Rand provides random coefficients, crypto/rand.Reader if nil.
	// It must be safe for concurrent use if the Scheme is shared.
	Rand io.Reader
	// Field is galois.Default if nil.
	Field *galois.Field
}

// Scheme splits & combines secrets. It's safe for concurrent use
// as long as its Rand is.
type Scheme struct {
	threshold int
	shares    int
	rand      io.Reader
	field     *galois.Field
	ring      *poly.Ring
}

var ErrIllegalThreshold = errors.WithMessage(galois.ErrInvalidParameters,
	"illegal threshold/shares: threshold < 1 or threshold > shares or shares > 255")

// New creates a Scheme.
func New(cfg Config) (*Scheme, error) {
	if cfg.Threshold < 1 || cfg.Threshold > cfg.Shares || cfg.Shares > MaxShares {
		return nil, ErrIllegalThreshold
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	if cfg.Field == nil {
		cfg.Field = galois.Default
	}
	return &Scheme{
		threshold: cfg.Threshold,
		shares:    cfg.Shares,
		rand:      cfg.Rand,
		field:     cfg.Field,
		ring:      poly.NewRing(cfg.Field),
	}, nil
}

// Threshold returns the min number of shares to combine.
func (s *Scheme) Threshold() int {
	return s.threshold
}

// Split splits secret into shares with X = 1, 2, ..., Shares.
func (s *Scheme) Split(secret []byte) ([]Share, error) {
	size := len(secret)
	if size == 0 {
		return nil, errors.Wrap(galois.ErrInvalidParameters, "empty secret")
	}

	// coeffs[k-1] holds the coefficients of x^k for all bytes.
	t := s.threshold
	buf := make([]byte, (t-1)*size)
	if _, err := io.ReadFull(s.rand, buf); err != nil {
		return nil, errors.Wrap(err, "read random coefficients")
	}
	coeffs := make([][]byte, t-1)
	for k := range coeffs {
		coeffs[k] = buf[k*size : (k+1)*size]
	}

	f := s.field
	shares := make([]Share, s.shares)
	for i := range shares {
		x := byte(i + 1)
		y := make([]byte, size)
		// Horner's rule over all bytes at once.
		for k := t - 2; k >= 0; k-- {
			f.AddVect(y, y, coeffs[k])
			f.MulVect(x, y, y)
		}
		f.AddVect(y, y, secret)
		shares[i] = Share{X: x, Y: y}
	}
	return shares, nil
}

// Combine returns the secret from at least Threshold shares.
// Shares with the same X are counted once,
// and only the first Threshold distinct shares are used.
func (s *Scheme) Combine(shares []Share) ([]byte, error) {
	picked, err := s.pick(shares)
	if err != nil {
		return nil, err
	}
	return s.interpolate(picked, 0)
}

// Extend returns the share at x from at least Threshold shares,
// it's the same as the share Split would make at x.
// So new shares could be made without the secret.
func (s *Scheme) Extend(shares []Share, x byte) (Share, error) {
	if x == 0 {
		return Share{}, errors.Wrap(galois.ErrInvalidParameters, "share X can't be 0")
	}
	picked, err := s.pick(shares)
	if err != nil {
		return Share{}, err
	}
	y, err := s.interpolate(picked, x)
	if err != nil {
		return Share{}, err
	}
	return Share{X: x, Y: y}, nil
}

// pick checks shares and returns the first Threshold distinct ones.
// Copies of a share count once, shares with the same X but different Y
// are illegal.
func (s *Scheme) pick(shares []Share) ([]Share, error) {
	if len(shares) == 0 {
		return nil, errors.Wrapf(galois.ErrInsufficientShares, "got 0, need %d", s.threshold)
	}
	size := len(shares[0].Y)
	if size == 0 {
		return nil, errors.Wrap(galois.ErrInvalidParameters, "empty share")
	}

	var seen [galois.Size][]byte
	picked := make([]Share, 0, s.threshold)
	for _, sh := range shares {
		if sh.X == 0 {
			return nil, errors.Wrap(galois.ErrInvalidParameters, "share X can't be 0")
		}
		if len(sh.Y) != size {
			return nil, errors.Wrapf(galois.ErrInvalidParameters,
				"share %d has %d bytes, want %d", sh.X, len(sh.Y), size)
		}
		if y := seen[sh.X]; y != nil {
			if !bytes.Equal(y, sh.Y) {
				return nil, errors.Wrapf(galois.ErrInvalidParameters, "conflicting shares at X %d", sh.X)
			}
			continue
		}
		seen[sh.X] = sh.Y
		if len(picked) == s.threshold {
			continue
		}
		picked = append(picked, sh)
	}
	if len(picked) < s.threshold {
		return nil, errors.Wrapf(galois.ErrInsufficientShares,
			"got %d distinct, need %d", len(picked), s.threshold)
	}
	return picked, nil
}

// interpolate returns the values at x of the polynomials through shares.
func (s *Scheme) interpolate(shares []Share, x byte) ([]byte, error) {
	xs := make([]byte, len(shares))
	for i, sh := range shares {
		xs[i] = sh.X
	}
	basis, err := s.ring.LagrangeBasis(xs, x)
	if err != nil {
		return nil, err
	}
	y := make([]byte, len(shares[0].Y))
	for i, sh := range shares {
		s.field.MulVectXOR(basis[i], sh.Y, y)
	}
	return y, nil
}

// Split splits secret into n shares, any t of them give back the secret.
// It uses crypto/rand and galois.Default.
func Split(secret []byte, t, n int) ([]Share, error) {
	s, err := New(Config{Threshold: t, Shares: n})
	if err != nil {
		return nil, err
	}
	return s.Split(secret)
}

// Combine returns the secret from at least t shares made by Split.
func Combine(shares []Share, t int) ([]byte, error) {
	s, err := New(Config{Threshold: t, Shares: MaxShares})
	if err != nil {
		return nil, err
	}
	return s.Combine(shares)
}
