// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.
//
// Copyright ©2016 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This tool estimates how many inverse matrices (and how many bytes)
// the inverse cache of a reedsolomon.Stripe could hold.
package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/templexxx/galois/reedsolomon"
	"github.com/urfave/cli"
)

func main() {
	myApp := cli.NewApp()
	myApp.Name = "cntinverse"
	myApp.Usage = "count inverse matrices of a stripe"
	myApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "data,d",
			Value: 10,
			Usage: "number of data vectors",
		},
		cli.IntFlag{
			Name:  "parity,p",
			Value: 4,
			Usage: "number of parity vectors",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		d, p := c.Int("data"), c.Int("parity")
		// Make sure the stripe could be built.
		if _, err := reedsolomon.NewStripe(d, p); err != nil {
			return err
		}
		n := float64(d + p)
		cnt := generalizedBinomial(n, float64(d)) - 1 // All data survived needs no inverse.
		fmt.Printf("data: %d, parity: %d\n", d, p)
		fmt.Printf("num of inverse matrices ≈ %.f, size ≈ %.f bytes\n", cnt, cnt*float64(d*d))
		if d+p > 64 {
			fmt.Println("inverse cache is disabled for more than 64 vectors")
		}
		return nil
	}
	if err := myApp.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

const (
	errNegInput = "combination: negative input"
	badSetSize  = "combination: n < k"
)

// generalizedBinomial returns the generalized binomial coefficient of (n, k),
// defined as
//
//	Γ(n+1) / (Γ(k+1) Γ(n-k+1))
//
// where Γ is the Gamma function.
//
// n and k must be non-negative with n >= k, otherwise generalizedBinomial will panic.
func generalizedBinomial(n, k float64) float64 {
	return math.Exp(logGeneralizedBinomial(n, k))
}

func logGeneralizedBinomial(n, k float64) float64 {
	if n < 0 || k < 0 {
		panic(errNegInput)
	}
	if n < k {
		panic(badSetSize)
	}
	a, _ := math.Lgamma(n + 1)
	b, _ := math.Lgamma(k + 1)
	c, _ := math.Lgamma(n - k + 1)
	return a - b - c
}
