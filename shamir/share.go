// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package shamir

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/templexxx/galois"
)

// Share is one participant's part of a secret.
type Share struct {
	X byte   // X is the evaluation point, never 0.
	Y []byte // Y[i] is the value for secret byte i.
}

// String returns the share as "X:HEX", X in decimal.
func (s Share) String() string {
	return fmt.Sprintf("%d:%s", s.X, hex.EncodeToString(s.Y))
}

// ParseShare parses a share made by Share.String.
func ParseShare(s string) (Share, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return Share{}, errors.Wrapf(galois.ErrInvalidParameters, "share %q: missing ':'", s)
	}
	x, err := strconv.ParseUint(s[:i], 10, 8)
	if err != nil || x == 0 {
		return Share{}, errors.Wrapf(galois.ErrInvalidParameters, "share %q: illegal X", s)
	}
	y, err := hex.DecodeString(s[i+1:])
	if err != nil {
		return Share{}, errors.Wrapf(galois.ErrInvalidParameters, "share %q: %v", s, err)
	}
	return Share{X: byte(x), Y: y}, nil
}
