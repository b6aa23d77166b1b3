// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"
)

// Config is the defaults of gfcode, flags on the command line override them.
type Config struct {
	Parity    int    `json:"parity"`
	Threshold int    `json:"threshold"`
	Shares    int    `json:"shares"`
	Preset    string `json:"preset"`
	Field     string `json:"field"` // "default" or "aes"
	Log       string `json:"log"`
	Verbose   bool   `json:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Parity:    4,
		Threshold: 3,
		Shares:    5,
		Preset:    "CRC-32",
		Field:     "default",
	}
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path) // For read access.
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}
