// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package reedsolomon

import "sort"

// dedup removes duplicates from a given slice,
// s will be sorted.
func dedup(s []int) []int {

	sort.Ints(s)

	cnt := len(s)
	if cnt == 0 {
		return s
	}
	cntDup := 0
	for i := 1; i < cnt; i++ {
		if s[i] == s[i-1] {
			cntDup++
		} else {
			s[i-cntDup] = s[i]
		}
	}

	return s[:cnt-cntDup]
}

func isIn(e int, s []int) bool {
	for _, v := range s {
		if e == v {
			return true
		}
	}
	return false
}

func copyInts(s []int) []int {
	c := make([]int, len(s))
	copy(c, s)
	return c
}
