// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package reedsolomon

import (
	"github.com/pkg/errors"
	"github.com/templexxx/galois"
)

// matrix is a row-major matrix over GF(2^8).
type matrix []byte

func newMatrix(rows, cols int) matrix {
	m := make([]byte, rows*cols)
	return m
}

// makeEncodeMatrix makes an encode matrix:
// identity matrix (upper) and parity matrix (lower).
//
// Parity row j, column i is parity symbol j of codeword(e_i),
// so every byte column of an encoded stripe is a codeword of c.
func makeEncodeMatrix(c *Codec) (matrix, error) {
	d, p := c.DataNum, c.ParityNum
	m := newMatrix(d+p, d)
	for i := 0; i < d; i++ {
		m[i*d+i] = 1
	}
	unit := make([]byte, d)
	for i := 0; i < d; i++ {
		unit[i] = 1
		cw, err := c.Encode(unit)
		if err != nil {
			return nil, err
		}
		unit[i] = 0
		for j := 0; j < p; j++ {
			m[(d+j)*d+i] = cw[d+j]
		}
	}
	return m, nil
}

// ErrSingular is returned when inverting a singular matrix.
var ErrSingular = errors.WithMessage(galois.ErrUncorrectable, "reedsolomon: matrix is singular")

// invert returns the inverse of n*n matrix m.
func (m matrix) invert(f *galois.Field, n int) (matrix, error) {
	raw := newMatrix(n, 2*n)
	for i := 0; i < n; i++ {
		t := i * n
		copy(raw[2*t:2*t+n], m[t:t+n])
		raw[2*t+i+n] = 1
	}
	err := raw.gaussJordan(f, n, 2*n)
	if err != nil {
		return nil, err
	}
	return raw.subMatrix(n), nil
}

func (m matrix) swap(i, j, n int) {
	for k := 0; k < n; k++ {
		m[i*n+k], m[j*n+k] = m[j*n+k], m[i*n+k]
	}
}

// gaussJordan reduces the left rows*rows part of m to identity.
func (m matrix) gaussJordan(f *galois.Field, rows, columns int) error {
	for r := 0; r < rows; r++ {
		row := m[r*columns : (r+1)*columns]
		// If the element on the diagonal is 0, find a row below
		// that has a non-zero and swap them.
		if row[r] == 0 {
			for rowBelow := r + 1; rowBelow < rows; rowBelow++ {
				if m[rowBelow*columns+r] != 0 {
					m.swap(r, rowBelow, columns)
					break
				}
			}
		}
		// After swap, if we find all elements in this column is 0, it means the Matrix's det is 0.
		if row[r] == 0 {
			return ErrSingular
		}
		// Scale to 1.
		if row[r] != 1 {
			scale, _ := f.Inv(row[r])
			f.MulVect(scale, row, row)
		}
		// Make everything else in this column be a 0 by subtracting a multiple of it.
		for i := 0; i < rows; i++ {
			if i == r {
				continue
			}
			other := m[i*columns : (i+1)*columns]
			if other[r] != 0 {
				f.MulVectXOR(other[r], row, other)
			}
		}
	}
	return nil
}

// subMatrix returns the right size*size part of a size*(2*size) matrix.
func (m matrix) subMatrix(size int) matrix {
	ret := newMatrix(size, size)
	for i := 0; i < size; i++ {
		copy(ret[i*size:i*size+size], m[2*i*size+size:2*i*size+2*size])
	}
	return ret
}

// pick returns the rows idx of m, which has cols columns.
func (m matrix) pick(cols int, idx []int) matrix {
	ret := newMatrix(len(idx), cols)
	for i, r := range idx {
		copy(ret[i*cols:(i+1)*cols], m[r*cols:(r+1)*cols])
	}
	return ret
}
