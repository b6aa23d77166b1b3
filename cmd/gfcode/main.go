// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gfcode is a command line front of the galois coding packages.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/google/logger"
	"github.com/pkg/errors"
	"github.com/templexxx/galois"
	"github.com/urfave/cli"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

// env is shared by all commands of one run.
type env struct {
	config  Config
	out     io.Writer
	log     *logger.Logger
	logFile *os.File
}

func newApp() *cli.App {
	e := &env{config: defaultConfig()}

	myApp := cli.NewApp()
	myApp.Name = "gfcode"
	myApp.Usage = "coding over GF(2^8) and GF(2)"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config,c",
			Value: "",
			Usage: "defaults from json file, flags on the command line override them",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "specify a log file to output, default: no log file",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "print info logs to stdout",
		},
		cli.StringFlag{
			Name:  "field",
			Value: "",
			Usage: "GF(2^8) used by rs, stripe & shamir: default (0x11d) or aes (0x11b)",
		},
	}
	myApp.Before = e.setup
	myApp.After = e.teardown
	myApp.Commands = []cli.Command{
		e.rsCommand(),
		e.stripeCommand(),
		e.shamirCommand(),
		e.crcCommand(),
		e.lfsrCommand(),
		e.hammingCommand(),
	}
	return myApp
}

func (e *env) setup(c *cli.Context) error {
	if path := c.String("config"); path != "" {
		if err := parseJSONConfig(&e.config, path); err != nil {
			return errors.Wrapf(err, "load config %s", path)
		}
	}
	if c.IsSet("log") {
		e.config.Log = c.String("log")
	}
	if c.Bool("verbose") {
		e.config.Verbose = true
	}
	if c.IsSet("field") {
		e.config.Field = c.String("field")
	}

	var w io.Writer = ioutil.Discard
	if e.config.Log != "" {
		f, err := os.OpenFile(e.config.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		e.logFile = f
		w = f
	}
	e.log = logger.Init(c.App.Name, e.config.Verbose, false, w)
	e.out = c.App.Writer
	if e.out == nil {
		e.out = os.Stdout
	}
	e.log.Infof("config: %+v", e.config)
	return nil
}

func (e *env) teardown(c *cli.Context) error {
	if e.log != nil {
		e.log.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
	return nil
}

func (e *env) field() (*galois.Field, error) {
	switch strings.ToLower(e.config.Field) {
	case "", "default":
		return galois.Default, nil
	case "aes":
		return galois.AES, nil
	}
	return nil, errors.Wrapf(galois.ErrInvalidParameters, "unknown field %q", e.config.Field)
}

// intFlag returns the flag if it's given, def otherwise.
func intFlag(c *cli.Context, name string, def int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	return def
}

func hexArg(c *cli.Context) ([]byte, error) {
	if c.NArg() < 1 {
		return nil, errors.Wrap(galois.ErrInvalidParameters, "missing HEX argument")
	}
	b, err := hex.DecodeString(c.Args().First())
	if err != nil {
		return nil, errors.Wrapf(galois.ErrInvalidParameters, "illegal HEX: %v", err)
	}
	return b, nil
}

// parseInts parses a comma separated list, e.g. "1,3".
func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	ret := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(galois.ErrInvalidParameters, "illegal number %q", f)
		}
		ret[i] = v
	}
	return ret, nil
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "gfcode: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	checkError(newApp().Run(os.Args))
}
