// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package reedsolomon

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/templexxx/galois"
)

const (
	kib = 1024
	mib = 1024 * kib

	testDataNum   = 10
	testParityNum = 4
	testSize      = kib
)

func TestNewStripe(t *testing.T) {
	for _, dp := range [][2]int{{0, 1}, {1, 0}, {-1, 3}, {200, 56}} {
		_, err := NewStripe(dp[0], dp[1])
		if err != ErrIllegalVects {
			t.Fatalf("%d+%d: expect ErrIllegalVects, got: %v", dp[0], dp[1], err)
		}
		if errors.Cause(err) != galois.ErrInvalidParameters {
			t.Fatal("ErrIllegalVects should be caused by ErrInvalidParameters")
		}
	}
	if _, err := NewStripe(200, 55); err != nil {
		t.Fatal(err)
	}
}

// Every byte column of an encoded stripe is a codeword.
func TestStripe_EncodeColumns(t *testing.T) {
	rand.Seed(time.Now().UnixNano())

	for _, dp := range [][2]int{{3, 2}, {10, 4}, {1, 1}, {17, 9}} {
		d, p := dp[0], dp[1]
		size := 33
		s, err := NewStripe(d, p)
		if err != nil {
			t.Fatal(err)
		}
		c, err := New(d, p)
		if err != nil {
			t.Fatal(err)
		}
		vects := make([][]byte, d+p)
		for i := range vects {
			vects[i] = make([]byte, size)
			if i < d {
				fillRandom(vects[i])
			}
		}
		err = s.Encode(vects)
		if err != nil {
			t.Fatal(err)
		}
		for col := 0; col < size; col++ {
			data := make([]byte, d)
			for i := 0; i < d; i++ {
				data[i] = vects[i][col]
			}
			cw, err := c.Encode(data)
			if err != nil {
				t.Fatal(err)
			}
			for i := range cw {
				if vects[i][col] != cw[i] {
					t.Fatalf("%d+%d: column %d mismatched at vect %d", d, p, col, i)
				}
			}
		}
	}
}

// Encode must be the same as matrix multiplication for any size
// (covering the split pieces).
func TestStripe_Encode(t *testing.T) {
	d, p := testDataNum, testParityNum
	s, err := NewStripe(d, p)
	if err != nil {
		t.Fatal(err)
	}
	for size := 1; size <= testSize; size += 7 {
		vects := make([][]byte, d+p)
		flat := make([]byte, d*size)
		for j := range vects {
			vects[j] = make([]byte, size)
			if j < d {
				fillRandom(vects[j])
				copy(flat[j*size:], vects[j])
			}
		}
		err = s.Encode(vects)
		if err != nil {
			t.Fatal(err)
		}
		exp := s.encMatrix[d*d:].mul(galois.Default, p, d, flat)
		for j := 0; j < p; j++ {
			if !bytes.Equal(vects[d+j], exp[j*size:(j+1)*size]) {
				t.Fatalf("mismatched with matrix mul: %d+%d, vect: %d, size: %d", d, p, d+j, size)
			}
		}
	}
}

func TestStripe_checkEncode(t *testing.T) {
	s, _ := NewStripe(2, 1)
	if s.Encode([][]byte{{1}, {2}}) != ErrMismatchVects {
		t.Fatal("expect ErrMismatchVects")
	}
	if s.Encode([][]byte{{}, {}, {}}) != ErrZeroVectSize {
		t.Fatal("expect ErrZeroVectSize")
	}
	if s.Encode([][]byte{{1}, {2, 3}, {0}}) != ErrMismatchVectSize {
		t.Fatal("expect ErrMismatchVectSize")
	}
}

func TestSurvivorsKey(t *testing.T) {

	type tc struct {
		survivors []int
		exp       uint64
	}
	cases := []tc{
		{[]int{0}, 1},
		{[]int{1}, 2},
		{[]int{0, 1}, 3},
		{[]int{0, 1, 2}, 7},
		{[]int{0, 2}, 5},
	}
	survivors := make([]int, 64)
	for i := range survivors {
		survivors[i] = i
	}
	cases = append(cases, tc{survivors, math.MaxUint64})
	for i, c := range cases {
		got := survivorsKey(c.survivors)
		if got != c.exp {
			t.Fatalf("case: %d, exp: %d, got: %d, survivors: %#v", i, c.exp, got, c.survivors)
		}
	}
}

// randLost returns up to limit distinct random indexes in [0, n).
func randLost(n, limit int) []int {
	return rand.Perm(n)[:rand.Intn(limit+1)]
}

func TestStripe_Reconst(t *testing.T) {
	testReconst(t, testDataNum, testParityNum, testSize, 128)
	testReconst(t, 3, 2, 17, 64)
	testReconst(t, 40, 30, 64, 32) // No inverse cache.
}

func testReconst(t *testing.T, d, p, size, loop int) {

	rand.Seed(time.Now().UnixNano())

	r, err := NewStripe(d, p)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < loop; i++ {
		exp := make([][]byte, d+p)
		for j := range exp {
			exp[j] = make([]byte, size)
			if j < d {
				fillRandom(exp[j])
			}
		}
		if err = r.Encode(exp); err != nil {
			t.Fatal(err)
		}

		act := make([][]byte, d+p)
		for j := range act {
			act[j] = make([]byte, size)
			copy(act[j], exp[j])
		}
		lost := randLost(d+p, p)
		for _, l := range lost {
			switch rand.Intn(3) {
			case 0:
				act[l] = nil
			case 1:
				fillRandom(act[l])
			}
		}

		if err = r.Reconst(act, lost); err != nil {
			t.Fatal(err)
		}
		for j := range act {
			if !bytes.Equal(exp[j], act[j]) {
				t.Fatalf("%d+%d, lost: %v, mismatched vect: %d, size: %d", d, p, lost, j, size)
			}
		}
	}
}

// Every loss pattern within parity must be recoverable.
func TestStripe_ReconstAllPatterns(t *testing.T) {
	d, p, size := 4, 3, 9
	r, err := NewStripe(d, p)
	if err != nil {
		t.Fatal(err)
	}
	exp := make([][]byte, d+p)
	for j := range exp {
		exp[j] = make([]byte, size)
		if j < d {
			fillRandom(exp[j])
		}
	}
	if err = r.Encode(exp); err != nil {
		t.Fatal(err)
	}

	for mask := 1; mask < 1<<uint(d+p); mask++ {
		var lost []int
		act := make([][]byte, d+p)
		for j := range act {
			if mask&(1<<uint(j)) != 0 {
				lost = append(lost, j)
				continue
			}
			act[j] = make([]byte, size)
			copy(act[j], exp[j])
		}
		err = r.Reconst(act, lost)
		if len(lost) > p {
			if errors.Cause(err) != galois.ErrErasureLimitExceeded {
				t.Fatalf("lost: %v, expect ErrErasureLimitExceeded, got: %v", lost, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("lost: %v, %v", lost, err)
		}
		for j := range act {
			if !bytes.Equal(act[j], exp[j]) {
				t.Fatalf("lost: %v, vect %d mismatched", lost, j)
			}
		}
	}
}

// Lost vects are erasures of every column,
// so Stripe and Codec must agree on them.
func TestStripe_ReconstMatchesCodec(t *testing.T) {
	d, p, size := 7, 5, 40
	r, err := NewStripe(d, p)
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(d, p)
	if err != nil {
		t.Fatal(err)
	}
	for loop := 0; loop < 32; loop++ {
		vects := make([][]byte, d+p)
		for j := range vects {
			vects[j] = make([]byte, size)
			if j < d {
				fillRandom(vects[j])
			}
		}
		if err = r.Encode(vects); err != nil {
			t.Fatal(err)
		}
		lost := rand.Perm(d + p)[:1+rand.Intn(p)]
		cols := make([][]byte, size)
		for col := range cols {
			cols[col] = make([]byte, d+p)
			for j := range vects {
				cols[col][j] = vects[j][col]
			}
		}
		for _, l := range lost {
			vects[l] = nil
			for col := range cols {
				cols[col][l] = byte(rand.Intn(256))
			}
		}

		if err = r.Reconst(vects, lost); err != nil {
			t.Fatal(err)
		}
		for col, cw := range cols {
			if _, err = c.Correct(cw, lost); err != nil {
				t.Fatalf("lost: %v, column %d: %v", lost, col, err)
			}
			for j := range vects {
				if vects[j][col] != cw[j] {
					t.Fatalf("lost: %v, column %d, vect %d: stripe and codec mismatched", lost, col, j)
				}
			}
		}
	}
}

func TestStripe_ReconstErrors(t *testing.T) {
	d, p := 3, 2
	r, _ := NewStripe(d, p)
	newVects := func() [][]byte {
		vects := make([][]byte, d+p)
		for i := range vects {
			vects[i] = make([]byte, 4)
		}
		return vects
	}
	cases := []struct {
		lost []int
		err  error
	}{
		{nil, nil},
		{[]int{2, 2}, nil},
		{[]int{0, 1, 2}, ErrTooManyLost},
		{[]int{5}, ErrIllegalVectIndex},
		{[]int{-1}, ErrIllegalVectIndex},
	}
	for i, c := range cases {
		err := r.Reconst(newVects(), c.lost)
		if err != c.err {
			t.Fatalf("case: %d, exp: %v, got: %v", i, c.err, err)
		}
	}
	if r.Reconst(newVects()[:4], []int{3}) != ErrMismatchVects {
		t.Fatal("expect ErrMismatchVects")
	}
	vects := newVects()
	vects[1] = vects[1][:3]
	if r.Reconst(vects, []int{3}) != ErrMismatchVectSize {
		t.Fatal("expect ErrMismatchVectSize")
	}
	vects = newVects()
	vects[0] = nil // Not lost, so it's a survivor in size 0.
	if r.Reconst(vects, []int{3}) != ErrMismatchVectSize {
		t.Fatal("expect ErrMismatchVectSize")
	}
}

func TestStripe_InverseCache(t *testing.T) {
	d, p := 10, 4
	r, err := NewStripe(d, p)
	if err != nil {
		t.Fatal(err)
	}
	if r.inverse == nil {
		t.Fatal("cache should be enabled")
	}

	survivors := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 12}
	exp, err := r.inverseOf(survivors)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.inverse.Load(survivorsKey(survivors)); !ok {
		t.Fatal("inverse matrix isn't cached")
	}
	act, err := r.inverseOf(survivors)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(act, exp) {
		t.Fatal("cache matrix mismatched")
	}

	big, err := NewStripe(60, 10)
	if err != nil {
		t.Fatal(err)
	}
	if big.inverse != nil {
		t.Fatal("cache should be disabled for more than 64 vects")
	}
}

func byteToStr(n int) string {
	if n >= mib {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%dKB", n/kib)
}

func BenchmarkStripe_Encode(b *testing.B) {
	dps := [][]int{
		{10, 2},
		{10, 4},
		{12, 4},
	}

	sizes := []int{
		4 * kib,
		mib,
		8 * mib,
	}

	for _, dp := range dps {
		d, p := dp[0], dp[1]
		for _, size := range sizes {
			b.Run(fmt.Sprintf("(%d+%d)-%s", d, p, byteToStr(size)), func(b *testing.B) {
				benchEnc(b, d, p, size)
			})
		}
	}
}

func benchEnc(b *testing.B, d, p, size int) {
	vects := make([][]byte, d+p)
	for j := 0; j < d+p; j++ {
		vects[j] = make([]byte, size)
	}
	for j := 0; j < d; j++ {
		fillRandom(vects[j])
	}
	r, err := NewStripe(d, p)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64((d + p) * size))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err = r.Encode(vects)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStripe_Reconst(b *testing.B) {
	d, p := 10, 4
	size := 4 * kib

	for i := 1; i <= p; i++ {
		lost := rand.Perm(d + p)[:i]
		b.Run(fmt.Sprintf("(%d+%d)-%s-reconst_%d_vects", d, p, byteToStr(size), i),
			func(b *testing.B) { benchReconst(b, d, p, size, lost) })
	}
}

func benchReconst(b *testing.B, d, p, size int, lost []int) {
	vects := make([][]byte, d+p)
	for j := 0; j < d+p; j++ {
		vects[j] = make([]byte, size)
	}
	for j := 0; j < d; j++ {
		fillRandom(vects[j])
	}
	r, err := NewStripe(d, p)
	if err != nil {
		b.Fatal(err)
	}
	err = r.Encode(vects)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64((d + len(lost)) * size))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err = r.Reconst(vects, lost)
		if err != nil {
			b.Fatal(err)
		}
	}
}
