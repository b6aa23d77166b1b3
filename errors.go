// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package galois

import "github.com/pkg/errors"

// Failure taxonomy shared by every package of this module.
// Packages return these directly or wrapped (see errors.Cause),
// so callers can always compare the cause with ==.
var (
	// ErrInvalidParameters reports malformed configuration or input:
	// out of range sizes, zero-length inputs, zero polynomials etc.
	ErrInvalidParameters = errors.New("galois: invalid parameters")

	// ErrDivisionByZero reports an inverse or division of the zero element.
	ErrDivisionByZero = errors.New("galois: division by zero")

	// ErrInsufficientShares reports fewer distinct shares than the threshold.
	ErrInsufficientShares = errors.New("galois: insufficient shares")

	// ErrErasureLimitExceeded reports erasures (and errors) beyond
	// the correction capacity of a code.
	ErrErasureLimitExceeded = errors.New("galois: erasure limit exceeded")

	// ErrUncorrectable reports a failed consistency check during decoding.
	// Returning the data would risk a miscorrection.
	ErrUncorrectable = errors.New("galois: uncorrectable error")
)
