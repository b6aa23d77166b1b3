// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/templexxx/galois"
)

// run runs gfcode with args and returns what it prints.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"gfcode"}, args...))
	return strings.TrimSpace(out.String()), err
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseJSONConfig(t *testing.T) {
	path := writeTempConfig(t, `{"parity":6,"threshold":2,"shares":4,"preset":"CRC-16/XMODEM","field":"aes","verbose":true}`)

	cfg := defaultConfig()
	require.NoError(t, parseJSONConfig(&cfg, path))
	require.Equal(t, 6, cfg.Parity)
	require.Equal(t, 2, cfg.Threshold)
	require.Equal(t, 4, cfg.Shares)
	require.Equal(t, "CRC-16/XMODEM", cfg.Preset)
	require.Equal(t, "aes", cfg.Field)
	require.True(t, cfg.Verbose)
	require.Empty(t, cfg.Log)
}

func TestParseJSONConfig_Partial(t *testing.T) {
	path := writeTempConfig(t, `{"parity":2}`)

	cfg := defaultConfig()
	require.NoError(t, parseJSONConfig(&cfg, path))
	require.Equal(t, 2, cfg.Parity)
	require.Equal(t, defaultConfig().Threshold, cfg.Threshold)
	require.Equal(t, defaultConfig().Preset, cfg.Preset)
}

func TestParseJSONConfig_Missing(t *testing.T) {
	cfg := defaultConfig()
	missing := filepath.Join(t.TempDir(), "missing.json")
	require.Error(t, parseJSONConfig(&cfg, missing))
}

func TestParseInts(t *testing.T) {
	v, err := parseInts(" 1, 3,7 ")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 7}, v)

	v, err = parseInts("")
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = parseInts("1,x")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestRS(t *testing.T) {
	out, err := run(t, "rs", "encode", "--parity", "2", "0a141e")
	require.NoError(t, err)
	require.Equal(t, "0a141e2828", out)

	// Encode prints a whole codeword which decodes as it is.
	out, err = run(t, "rs", "encode", "--parity", "4", "48656c6c6f")
	require.NoError(t, err)
	require.Len(t, out, 2*(5+4))
	out, err = run(t, "rs", "decode", "--parity", "4", out)
	require.NoError(t, err)
	require.Equal(t, "48656c6c6f", out)

	// One unknown error.
	out, err = run(t, "rs", "decode", "--parity", "2", "0aff1e2828")
	require.NoError(t, err)
	require.Equal(t, "0a141e", out)

	// Two erasures.
	out, err = run(t, "rs", "decode", "--parity", "2", "--erasures", "0,3", "00141e0028")
	require.NoError(t, err)
	require.Equal(t, "0a141e", out)

	_, err = run(t, "rs", "decode", "--parity", "2", "--erasures", "0,1,2", "0a141e2828")
	require.Equal(t, galois.ErrErasureLimitExceeded, errors.Cause(err))

	_, err = run(t, "rs", "encode", "--parity", "2", "0g")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))

	_, err = run(t, "rs", "encode", "--parity", "2")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestRS_Config(t *testing.T) {
	path := writeTempConfig(t, `{"parity":2}`)

	out, err := run(t, "--config", path, "rs", "encode", "0a141e")
	require.NoError(t, err)
	require.Equal(t, "0a141e2828", out)

	// Flags override the config.
	out, err = run(t, "--config", path, "rs", "encode", "--parity", "4", "0a141e")
	require.NoError(t, err)
	require.Len(t, out, 2*(3+4))
	require.True(t, strings.HasPrefix(out, "0a141e"))

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "rs", "encode", "0a141e")
	require.Error(t, err)
}

func TestRS_Field(t *testing.T) {
	def, err := run(t, "rs", "encode", "--parity", "4", "0102030405")
	require.NoError(t, err)
	aes, err := run(t, "--field", "aes", "rs", "encode", "--parity", "4", "0102030405")
	require.NoError(t, err)
	require.NotEqual(t, def, aes)

	out, err := run(t, "--field", "aes", "rs", "decode", "--parity", "4", aes)
	require.NoError(t, err)
	require.Equal(t, "0102030405", out)

	_, err = run(t, "--field", "gf16", "rs", "encode", "0102")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestStripe(t *testing.T) {
	// Every column is a codeword, [10 20 30] has parity [40 40].
	out, err := run(t, "stripe", "encode", "--parity", "2", "0a00", "1400", "1e00")
	require.NoError(t, err)
	require.Equal(t, []string{"0a00", "1400", "1e00", "2800", "2800"}, strings.Split(out, "\n"))

	out, err = run(t, "stripe", "reconst", "--parity", "2", "-", "1400", "1e00", "2800", "-")
	require.NoError(t, err)
	require.Equal(t, []string{"0a00", "1400", "1e00", "2800", "2800"}, strings.Split(out, "\n"))

	out, err = run(t, "stripe", "reconst", "--parity", "2", "--lost", "1,2", "0a00", "ffff", "ffff", "2800", "2800")
	require.NoError(t, err)
	require.Equal(t, []string{"0a00", "1400", "1e00", "2800", "2800"}, strings.Split(out, "\n"))

	_, err = run(t, "stripe", "reconst", "--parity", "2", "-", "-", "-", "2800", "2800")
	require.Equal(t, galois.ErrErasureLimitExceeded, errors.Cause(err))

	_, err = run(t, "stripe", "encode", "--parity", "2", "0a00", "14")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestShamir(t *testing.T) {
	out, err := run(t, "shamir", "split", "--threshold", "3", "--shares", "5", "--text", "hello, galois")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)

	for _, pick := range [][]int{{0, 1, 2}, {4, 2, 0}, {1, 3, 4}} {
		args := []string{"shamir", "combine", "--threshold", "3", "--text"}
		for _, i := range pick {
			args = append(args, lines[i])
		}
		out, err = run(t, args...)
		require.NoError(t, err)
		require.Equal(t, "hello, galois", out)
	}

	_, err = run(t, "shamir", "combine", "--threshold", "3", lines[0], lines[1])
	require.Equal(t, galois.ErrInsufficientShares, errors.Cause(err))

	_, err = run(t, "shamir", "combine", "--threshold", "3", "0:00")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))

	_, err = run(t, "shamir", "split", "--threshold", "6", "--shares", "5", "2a")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestShamir_Hex(t *testing.T) {
	out, err := run(t, "shamir", "split", "--threshold", "2", "--shares", "3", "2a")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	out, err = run(t, "shamir", "combine", "--threshold", "2", lines[2], lines[0])
	require.NoError(t, err)
	require.Equal(t, "2a", out)
}

func TestCRC(t *testing.T) {
	cases := []struct {
		preset string
		want   string
	}{
		{"CRC-32", "cbf43926"},
		{"crc-32c", "e3069283"},
		{"CRC-16/XMODEM", "31c3"},
		{"CRC-16/ARC", "bb3d"},
		{"CRC-8/SMBUS", "f4"},
	}
	for _, c := range cases {
		out, err := run(t, "crc", "--preset", c.preset, "123456789")
		require.NoError(t, err, c.preset)
		require.Equal(t, c.want, out, c.preset)
	}

	out, err := run(t, "crc", "--hex", "313233343536373839")
	require.NoError(t, err)
	require.Equal(t, "cbf43926", out)

	_, err = run(t, "crc", "--preset", "CRC-7", "123456789")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestCRC_ConfigPreset(t *testing.T) {
	path := writeTempConfig(t, `{"preset":"CRC-16/CCITT-FALSE"}`)
	out, err := run(t, "-c", path, "crc", "123456789")
	require.NoError(t, err)
	require.Equal(t, "29b1", out)
}

func TestLFSR(t *testing.T) {
	// The first Width bits of a Fibonacci register are its seed, lowest bit first.
	out, err := run(t, "lfsr", "--width", "16", "--taps", "0xb400", "--seed", "0xace1", "--bits", "16")
	require.NoError(t, err)
	require.Equal(t, "1000011100110101", out)

	out, err = run(t, "lfsr", "--galois", "--bits", "40")
	require.NoError(t, err)
	require.Len(t, out, 40)
	require.True(t, strings.HasPrefix(out, "1"))

	_, err = run(t, "lfsr", "--width", "8", "--taps", "0x8d", "--seed", "1", "--maximal")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))

	_, err = run(t, "lfsr", "--taps", "xyz")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestHamming(t *testing.T) {
	out, err := run(t, "hamming", "encode", "fd")
	require.NoError(t, err)
	require.Equal(t, "667f", out)

	out, err = run(t, "hamming", "decode", "667f")
	require.NoError(t, err)
	require.Equal(t, "fd", out)

	// One flip in each codeword.
	out, err = run(t, "hamming", "decode", "673f")
	require.NoError(t, err)
	require.Equal(t, "fd", out)

	_, err = run(t, "hamming", "decode", "667f66")
	require.Equal(t, galois.ErrInvalidParameters, errors.Cause(err))
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gfcode.log")
	_, err := run(t, "--log", path, "crc", "123456789")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "CRC-32")
}
