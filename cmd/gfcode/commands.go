// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/templexxx/galois"
	"github.com/templexxx/galois/crc"
	"github.com/templexxx/galois/hamming"
	"github.com/templexxx/galois/lfsr"
	"github.com/templexxx/galois/reedsolomon"
	"github.com/templexxx/galois/shamir"
	"github.com/urfave/cli"
)

var parityFlag = cli.IntFlag{
	Name:  "parity,p",
	Usage: "number of parity symbols",
}

func (e *env) rsCommand() cli.Command {
	return cli.Command{
		Name:  "rs",
		Usage: "Reed-Solomon codes over bytes",
		Subcommands: []cli.Command{
			{
				Name:      "encode",
				Usage:     "print data followed by parity",
				ArgsUsage: "HEX",
				Flags:     []cli.Flag{parityFlag},
				Action:    e.rsEncode,
			},
			{
				Name:      "decode",
				Usage:     "correct a codeword and print its data",
				ArgsUsage: "HEX",
				Flags: []cli.Flag{
					parityFlag,
					cli.StringFlag{
						Name:  "erasures,e",
						Usage: "known bad positions, e.g. 1,3",
					},
				},
				Action: e.rsDecode,
			},
		},
	}
}

func (e *env) rsEncode(c *cli.Context) error {
	data, err := hexArg(c)
	if err != nil {
		return err
	}
	f, err := e.field()
	if err != nil {
		return err
	}
	codec, err := reedsolomon.NewWithField(len(data), intFlag(c, "parity", e.config.Parity), f)
	if err != nil {
		return err
	}
	cw, err := codec.Encode(data)
	if err != nil {
		return err
	}
	e.log.Infof("rs encode: %d data, %d parity", codec.DataNum, codec.ParityNum)
	fmt.Fprintln(e.out, hex.EncodeToString(cw))
	return nil
}

func (e *env) rsDecode(c *cli.Context) error {
	received, err := hexArg(c)
	if err != nil {
		return err
	}
	erasures, err := parseInts(c.String("erasures"))
	if err != nil {
		return err
	}
	f, err := e.field()
	if err != nil {
		return err
	}
	p := intFlag(c, "parity", e.config.Parity)
	codec, err := reedsolomon.NewWithField(len(received)-p, p, f)
	if err != nil {
		return err
	}
	n, err := codec.Correct(received, erasures)
	if err != nil {
		e.log.Errorf("rs decode: %v", err)
		return err
	}
	e.log.Infof("rs decode: %d symbols corrected, erasures: %v", n, erasures)
	fmt.Fprintln(e.out, hex.EncodeToString(received[:codec.DataNum]))
	return nil
}

func (e *env) shamirCommand() cli.Command {
	threshold := cli.IntFlag{
		Name:  "threshold,t",
		Usage: "min number of shares to recover the secret",
	}
	return cli.Command{
		Name:  "shamir",
		Usage: "Shamir's secret sharing",
		Subcommands: []cli.Command{
			{
				Name:      "split",
				Usage:     "split a secret into shares, one per line",
				ArgsUsage: "HEX",
				Flags: []cli.Flag{
					threshold,
					cli.IntFlag{
						Name:  "shares,n",
						Usage: "number of shares",
					},
					cli.StringFlag{
						Name:  "text",
						Usage: "secret as plain text instead of HEX",
					},
				},
				Action: e.shamirSplit,
			},
			{
				Name:      "combine",
				Usage:     "recover the secret from shares",
				ArgsUsage: "X:HEX...",
				Flags: []cli.Flag{
					threshold,
					cli.BoolFlag{
						Name:  "text",
						Usage: "print the secret as plain text",
					},
				},
				Action: e.shamirCombine,
			},
		},
	}
}

func (e *env) newScheme(c *cli.Context, shares int) (*shamir.Scheme, error) {
	f, err := e.field()
	if err != nil {
		return nil, err
	}
	return shamir.New(shamir.Config{
		Threshold: intFlag(c, "threshold", e.config.Threshold),
		Shares:    shares,
		Field:     f,
	})
}

func (e *env) shamirSplit(c *cli.Context) error {
	var secret []byte
	if c.IsSet("text") {
		secret = []byte(c.String("text"))
	} else {
		var err error
		if secret, err = hexArg(c); err != nil {
			return err
		}
	}
	s, err := e.newScheme(c, intFlag(c, "shares", e.config.Shares))
	if err != nil {
		return err
	}
	shares, err := s.Split(secret)
	if err != nil {
		return err
	}
	e.log.Infof("shamir split: %d bytes into %d shares, threshold %d",
		len(secret), len(shares), s.Threshold())
	for _, sh := range shares {
		fmt.Fprintln(e.out, sh.String())
	}
	return nil
}

func (e *env) shamirCombine(c *cli.Context) error {
	args := c.Args()
	shares := make([]shamir.Share, len(args))
	for i, a := range args {
		sh, err := shamir.ParseShare(a)
		if err != nil {
			return err
		}
		shares[i] = sh
	}
	s, err := e.newScheme(c, shamir.MaxShares)
	if err != nil {
		return err
	}
	secret, err := s.Combine(shares)
	if err != nil {
		e.log.Errorf("shamir combine: %v", err)
		return err
	}
	e.log.Infof("shamir combine: %d shares given", len(shares))
	if c.Bool("text") {
		fmt.Fprintln(e.out, string(secret))
		return nil
	}
	fmt.Fprintln(e.out, hex.EncodeToString(secret))
	return nil
}

func (e *env) crcCommand() cli.Command {
	names := make([]string, 0, len(crc.Presets()))
	for _, p := range crc.Presets() {
		names = append(names, p.Name)
	}
	return cli.Command{
		Name:      "crc",
		Usage:     "print the checksum of INPUT",
		ArgsUsage: "INPUT",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "preset",
				Usage: "one of: " + strings.Join(names, ", "),
			},
			cli.BoolFlag{
				Name:  "hex",
				Usage: "INPUT is HEX instead of text",
			},
		},
		Action: e.crcSum,
	}
}

func (e *env) crcSum(c *cli.Context) error {
	name := e.config.Preset
	if c.IsSet("preset") {
		name = c.String("preset")
	}
	p, err := crc.Lookup(name)
	if err != nil {
		return errors.Wrapf(err, "preset %q", name)
	}
	t, err := crc.MakeTable(p)
	if err != nil {
		return err
	}

	var data []byte
	if c.Bool("hex") {
		if data, err = hexArg(c); err != nil {
			return err
		}
	} else {
		data = []byte(c.Args().First())
	}
	sum := t.Checksum(data)
	e.log.Infof("crc: %s over %d bytes", p.Name, len(data))
	fmt.Fprintf(e.out, "%0*x\n", p.Width/4, sum)
	return nil
}

func (e *env) lfsrCommand() cli.Command {
	return cli.Command{
		Name:  "lfsr",
		Usage: "print output bits of a shift register",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  "width,w",
				Value: 16,
				Usage: "register size in bits",
			},
			cli.StringFlag{
				Name:  "taps",
				Value: "0xb400",
				Usage: "feedback polynomial, bit i is x^(i+1)",
			},
			cli.StringFlag{
				Name:  "seed",
				Value: "0xace1",
				Usage: "first state",
			},
			cli.BoolFlag{
				Name:  "galois",
				Usage: "Galois register instead of Fibonacci",
			},
			cli.BoolFlag{
				Name:  "maximal",
				Usage: "reject taps & seed which can't make a maximal-length sequence",
			},
			cli.IntFlag{
				Name:  "bits,n",
				Value: 32,
				Usage: "number of bits to print",
			},
		},
		Action: e.lfsrBits,
	}
}

func (e *env) lfsrBits(c *cli.Context) error {
	taps, err := strconv.ParseUint(c.String("taps"), 0, 64)
	if err != nil {
		return errors.Wrapf(galois.ErrInvalidParameters, "illegal taps %q", c.String("taps"))
	}
	seed, err := strconv.ParseUint(c.String("seed"), 0, 64)
	if err != nil {
		return errors.Wrapf(galois.ErrInvalidParameters, "illegal seed %q", c.String("seed"))
	}
	kind := lfsr.Fibonacci
	if c.Bool("galois") {
		kind = lfsr.Galois
	}
	l, err := lfsr.New(lfsr.Config{
		Width:   c.Int("width"),
		Taps:    taps,
		Seed:    seed,
		Kind:    kind,
		Maximal: c.Bool("maximal"),
	})
	if err != nil {
		return err
	}
	n := c.Int("bits")
	if n < 0 {
		return errors.Wrapf(galois.ErrInvalidParameters, "illegal bits number %d", n)
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte('0' + l.Step())
	}
	e.log.Infof("lfsr: %s %d bits, taps %#x, state %#x after %d steps",
		kind, l.Width(), taps, l.State(), n)
	fmt.Fprintln(e.out, sb.String())
	return nil
}

func (e *env) hammingCommand() cli.Command {
	return cli.Command{
		Name:  "hamming",
		Usage: "Hamming (7,4) codes, two codewords a byte",
		Subcommands: []cli.Command{
			{
				Name:      "encode",
				ArgsUsage: "HEX",
				Action:    e.hammingEncode,
			},
			{
				Name:      "decode",
				ArgsUsage: "HEX",
				Action:    e.hammingDecode,
			},
		},
	}
}

func (e *env) hammingEncode(c *cli.Context) error {
	data, err := hexArg(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, hex.EncodeToString(hamming.EncodeBytes(data)))
	return nil
}

func (e *env) hammingDecode(c *cli.Context) error {
	code, err := hexArg(c)
	if err != nil {
		return err
	}
	data, n, err := hamming.DecodeBytes(code)
	if err != nil {
		return err
	}
	e.log.Infof("hamming decode: %d bits corrected", n)
	fmt.Fprintln(e.out, hex.EncodeToString(data))
	return nil
}

func (e *env) stripeCommand() cli.Command {
	return cli.Command{
		Name:  "stripe",
		Usage: "Reed-Solomon codes over equal-size vectors, one vector an argument",
		Subcommands: []cli.Command{
			{
				Name:      "encode",
				Usage:     "print data vectors followed by parity vectors, one a line",
				ArgsUsage: "HEX...",
				Flags:     []cli.Flag{parityFlag},
				Action:    e.stripeEncode,
			},
			{
				Name:      "reconst",
				Usage:     "rebuild lost vectors and print all vectors, one a line",
				ArgsUsage: "HEX|-...",
				Flags: []cli.Flag{
					parityFlag,
					cli.StringFlag{
						Name:  "lost,l",
						Usage: "positions of lost vectors, e.g. 0,4; a \"-\" argument is lost too",
					},
				},
				Action: e.stripeReconst,
			},
		},
	}
}

// hexVects decodes arguments, "-" is a nil vector.
func hexVects(args []string) ([][]byte, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(galois.ErrInvalidParameters, "missing HEX arguments")
	}
	vects := make([][]byte, len(args))
	for i, a := range args {
		if a == "-" {
			continue
		}
		v, err := hex.DecodeString(a)
		if err != nil {
			return nil, errors.Wrapf(galois.ErrInvalidParameters, "vect %d, illegal HEX: %v", i, err)
		}
		vects[i] = v
	}
	return vects, nil
}

func (e *env) printVects(vects [][]byte) {
	for _, v := range vects {
		fmt.Fprintln(e.out, hex.EncodeToString(v))
	}
}

func (e *env) stripeEncode(c *cli.Context) error {
	data, err := hexVects(c.Args())
	if err != nil {
		return err
	}
	f, err := e.field()
	if err != nil {
		return err
	}
	p := intFlag(c, "parity", e.config.Parity)
	s, err := reedsolomon.NewStripeWithField(len(data), p, f)
	if err != nil {
		return err
	}
	vects := make([][]byte, len(data)+p)
	copy(vects, data)
	for i := len(data); i < len(vects); i++ {
		vects[i] = make([]byte, len(data[0]))
	}
	if err = s.Encode(vects); err != nil {
		return err
	}
	e.log.Infof("stripe encode: %d+%d vects, %d bytes each", s.DataNum, s.ParityNum, len(data[0]))
	e.printVects(vects)
	return nil
}

func (e *env) stripeReconst(c *cli.Context) error {
	vects, err := hexVects(c.Args())
	if err != nil {
		return err
	}
	lost, err := parseInts(c.String("lost"))
	if err != nil {
		return err
	}
	for i, v := range vects {
		if v == nil {
			lost = append(lost, i)
		}
	}
	f, err := e.field()
	if err != nil {
		return err
	}
	p := intFlag(c, "parity", e.config.Parity)
	s, err := reedsolomon.NewStripeWithField(len(vects)-p, p, f)
	if err != nil {
		return err
	}
	if err = s.Reconst(vects, lost); err != nil {
		e.log.Errorf("stripe reconst: %v", err)
		return err
	}
	e.log.Infof("stripe reconst: lost %v", lost)
	e.printVects(vects)
	return nil
}
