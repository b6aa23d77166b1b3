// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// This tool lists primitive polynomials of degree 8,
// and dumps the exponent, log and inverse tables of a field.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/templexxx/galois"
	"github.com/templexxx/galois/lfsr"
	"github.com/urfave/cli"
)

const deg = 8

func main() {
	myApp := cli.NewApp()
	myApp.Name = "gentbls"
	myApp.Usage = "GF(2^8) tables generator"
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "poly,p",
			Value: "0x11d",
			Usage: "reducing polynomial of the tables",
		},
		cli.StringFlag{
			Name:  "out,o",
			Value: "gf_tables",
			Usage: "output file",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		poly, err := strconv.ParseInt(c.String("poly"), 0, 32)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(c.String("out"), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()

		w := bufio.NewWriter(f)
		if err = write(w, int(poly)); err != nil {
			return err
		}
		return w.Flush()
	}
	if err := myApp.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func write(w io.Writer, poly int) error {
	ps, err := primitivePolynomials()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d degree primitive polynomial:\n", deg)
	for i, p := range ps {
		fmt.Fprintf(w, "%d. %s (%#x);\n", i+1, formatPolynomial(p), p)
	}

	f, err := newField(poly)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "polynomial: %#x, generator: %d\n", f.Polynomial(), f.Generator())

	var expTbl, logTbl, invTbl [galois.Size]byte
	for i := 0; i < galois.Size-1; i++ {
		expTbl[i] = f.Exp(i)
	}
	for a := 1; a < galois.Size; a++ {
		l, _ := f.Log(byte(a))
		logTbl[a] = byte(l)
		invTbl[a], _ = f.Inv(byte(a))
	}
	fmt.Fprintf(w, "expTbl: %#v\n", expTbl[:galois.Size-1])
	fmt.Fprintf(w, "logTbl: %#v\n", logTbl)
	fmt.Fprintf(w, "inverseTbl: %#v\n", invTbl)
	return nil
}

// primitivePolynomials returns all primitive polynomials of degree 8,
// bit i for x^i.
// A polynomial p is primitive iff the LFSR with taps p>>1 is maximal.
func primitivePolynomials() ([]int, error) {
	var ps []int
	for p := 1<<deg | 1; p < 1<<(deg+1); p += 2 {
		ok, err := lfsr.IsPrimitive(deg, uint64(p>>1))
		if err != nil {
			return nil, err
		}
		if ok {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

// newField builds the field of poly with the smallest generator.
func newField(poly int) (*galois.Field, error) {
	var err error
	for g := 2; g < galois.Size; g++ {
		var f *galois.Field
		if f, err = galois.NewField(poly, byte(g)); err == nil {
			return f, nil
		}
	}
	return nil, err
}

func formatPolynomial(p int) string {
	var terms []string
	for i := deg; i > 1; i-- {
		if p>>uint(i)&1 == 1 {
			terms = append(terms, "x^"+strconv.Itoa(i))
		}
	}
	if p&2 != 0 {
		terms = append(terms, "x")
	}
	if p&1 != 0 {
		terms = append(terms, "1")
	}
	return strings.Join(terms, "+")
}
