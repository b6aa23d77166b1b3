// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package reedsolomon

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/templexxx/cpu"
	"github.com/templexxx/galois"
)

// Stripe is the Codec applied column by column over vectors.
//
// A stripe is DataNum data vectors followed by ParityNum parity vectors,
// all in the same size. Byte column i of an encoded stripe is a codeword
// of the Codec with the same data & parity numbers, so lost vectors are
// erasures of every column. Stripe recovers them by inverting the rows of
// the encode matrix which belong to survivors, instead of running the
// syndrome decoder column by column.
type Stripe struct {
	DataNum   int
	ParityNum int

	field *galois.Field
	// encMatrix is (DataNum+ParityNum)*DataNum:
	// identity on top, row DataNum+j is the weights of parity symbol j.
	encMatrix matrix

	// inverse caches inverted survivor rows, keyed by the survivors bitmap.
	// It's nil when there are more than 64 vectors.
	inverse *sync.Map
}

var ErrIllegalVects = errors.WithMessage(galois.ErrInvalidParameters,
	"illegal data/parity number: <= 0 or data+parity > 255")

var (
	ErrMismatchVects    = errors.WithMessage(galois.ErrInvalidParameters, "too few/many vects given")
	ErrZeroVectSize     = errors.WithMessage(galois.ErrInvalidParameters, "vect size is 0")
	ErrMismatchVectSize = errors.WithMessage(galois.ErrInvalidParameters, "vects size mismatched")
	ErrIllegalVectIndex = errors.WithMessage(galois.ErrInvalidParameters, "illegal vect index")
	ErrTooManyLost      = errors.WithMessage(galois.ErrErasureLimitExceeded, "too many lost vects")
)

// NewStripe creates a Stripe over galois.Default.
func NewStripe(dataNum, parityNum int) (*Stripe, error) {
	return NewStripeWithField(dataNum, parityNum, galois.Default)
}

// NewStripeWithField creates a Stripe over field f.
func NewStripeWithField(dataNum, parityNum int, f *galois.Field) (*Stripe, error) {
	if dataNum <= 0 || parityNum <= 0 || dataNum+parityNum > MaxCodewordLen {
		return nil, ErrIllegalVects
	}
	c, err := NewWithField(dataNum, parityNum, f)
	if err != nil {
		return nil, err
	}
	em, err := makeEncodeMatrix(c)
	if err != nil {
		return nil, err
	}
	s := &Stripe{
		DataNum:   dataNum,
		ParityNum: parityNum,
		field:     c.field,
		encMatrix: em,
	}
	// C(n, DataNum) survivor sets at most,
	// see mathtool/cntinverse for the numbers.
	if dataNum+parityNum <= 64 {
		s.inverse = new(sync.Map)
	}
	return s, nil
}

// Encode writes parity of vects[:DataNum] into vects[DataNum:].
func (s *Stripe) Encode(vects [][]byte) error {
	size, err := s.vectSize(vects, nil)
	if err != nil {
		return err
	}
	if size == 0 {
		return ErrZeroVectSize
	}
	d := s.DataNum
	s.mulRows(s.encMatrix[d*d:], vects[:d], vects[d:])
	return nil
}

// Reconst rebuilds vects at positions lost (data or parity) from the others,
// which must be intact.
// A lost vect could be nil, it's allocated then;
// otherwise its content is ignored and overwritten.
// At most ParityNum vects could be lost, as erasures of a codeword.
func (s *Stripe) Reconst(vects [][]byte, lost []int) error {
	n := s.DataNum + s.ParityNum
	lost = dedup(copyInts(lost))
	for _, l := range lost {
		if l < 0 || l >= n {
			return ErrIllegalVectIndex
		}
	}
	if len(lost) > s.ParityNum {
		return ErrTooManyLost
	}
	size, err := s.vectSize(vects, lost)
	if err != nil {
		return err
	}
	if len(lost) == 0 {
		return nil
	}
	if size == 0 {
		return ErrZeroVectSize
	}
	for _, l := range lost {
		if vects[l] == nil {
			vects[l] = make([]byte, size)
		}
	}

	d := s.DataNum
	var dataLost, parityLost []int
	for i, l := range lost { // lost is sorted.
		if l >= d {
			dataLost, parityLost = lost[:i], lost[i:]
			break
		}
		dataLost = lost[:i+1]
	}

	if len(dataLost) > 0 {
		survivors := make([]int, 0, d)
		for i := 0; i < n && len(survivors) < d; i++ {
			if !isIn(i, lost) {
				survivors = append(survivors, i)
			}
		}
		inv, err := s.inverseOf(survivors)
		if err != nil {
			return err
		}
		in := make([][]byte, d)
		for i, sv := range survivors {
			in[i] = vects[sv]
		}
		s.mulRows(inv.pick(d, dataLost), in, pickVects(vects, dataLost))
	}
	if len(parityLost) > 0 {
		// All data is back, it's encoding again.
		s.mulRows(s.encMatrix.pick(d, parityLost), vects[:d], pickVects(vects, parityLost))
	}
	return nil
}

// vectSize checks vects and returns their size,
// vects at skip may be nil.
func (s *Stripe) vectSize(vects [][]byte, skip []int) (int, error) {
	if len(vects) != s.DataNum+s.ParityNum {
		return 0, ErrMismatchVects
	}
	size := -1
	for i, v := range vects {
		if v == nil && isIn(i, skip) {
			continue
		}
		if size < 0 {
			size = len(v)
		} else if len(v) != size {
			return 0, ErrMismatchVectSize
		}
	}
	if size < 0 {
		size = 0
	}
	return size, nil
}

// inverseOf returns the inverse of encode matrix rows at survivors,
// len(survivors) == DataNum.
func (s *Stripe) inverseOf(survivors []int) (matrix, error) {
	d := s.DataNum
	if s.inverse == nil {
		return s.encMatrix.pick(d, survivors).invert(s.field, d)
	}

	key := survivorsKey(survivors)
	if v, ok := s.inverse.Load(key); ok {
		return v.(matrix), nil
	}
	inv, err := s.encMatrix.pick(d, survivors).invert(s.field, d)
	if err != nil {
		return nil, err
	}
	s.inverse.Store(key, inv)
	return inv, nil
}

// survivorsKey makes a bitmap of survivors, all of them < 64.
func survivorsKey(survivors []int) uint64 {
	var key uint64
	for _, i := range survivors {
		key |= 1 << uint8(i)
	}
	return key
}

func pickVects(vects [][]byte, idx []int) [][]byte {
	ret := make([][]byte, len(idx))
	for i, j := range idx {
		ret[i] = vects[j]
	}
	return ret
}

// mulRows sets out[j] = Σ coef[j][i] * in[i], coef is len(out)*len(in).
// Vectors are processed in pieces which fit the L1 data cache.
func (s *Stripe) mulRows(coef matrix, in, out [][]byte) {
	k, f := len(in), s.field
	size := len(in[0])
	step := getSplitSize(size)
	for start := 0; start < size; start += step {
		end := start + step
		if end > size {
			end = size
		}
		for j, o := range out {
			row := coef[j*k : (j+1)*k]
			dst := o[start:end]
			f.MulVect(row[0], in[0][start:end], dst)
			for i := 1; i < k; i++ {
				f.MulVectXOR(row[i], in[i][start:end], dst)
			}
		}
	}
}

// getSplitSize returns the piece size of mulRows,
// it's a multiple of 16 when n >= 16.
func getSplitSize(n int) int {
	l1d := cpu.X86.Cache.L1D
	if l1d <= 0 { // Cannot detect cache size(-1) or CPU is not X86(0).
		l1d = 32 * 1024
	}

	if n < 16 {
		return 16
	}
	// Half of L1D leaves room for the output piece.
	if n < l1d/2 {
		return (n >> 4) << 4
	}
	return l1d / 2
}
