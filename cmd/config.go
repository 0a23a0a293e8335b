// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"os"
	"path/filepath"
	"strconv"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// searchConfig is the subset of "stellar search" flags a config file
// may default, applied before flag parsing overrides take effect.
type searchConfig struct {
	Eps          *float64 `toml:"eps"`
	MinLen       *int     `toml:"min-len"`
	Q            *int     `toml:"q"`
	AbundanceCut *int     `toml:"abundance-cut"`
	XDrop        *int     `toml:"x-drop"`
	Format       *string  `toml:"format"`
}

// fileConfig is the top-level shape of ~/.stellar.toml.
type fileConfig struct {
	Search searchConfig `toml:"search"`
}

// loadConfig resolves path (expanding a leading "~", defaulting to
// ~/.stellar.toml) and parses it with go-toml/v2. A missing default
// config file is not an error; an explicitly named one that's missing
// is.
func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, errors.Wrap(err, "resolving home directory")
		}
		path = filepath.Join(home, ".stellar.toml")
	} else {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, errors.Wrap(err, "expanding config path")
		}
		path = expanded
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &fileConfig{}, nil
		}
		return nil, errors.Wrap(err, "reading config file")
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}
	return &cfg, nil
}

// applySearchConfig fills any "search" flag cobra did not see set on
// the command line from cfg, so a config file supplies defaults but
// never overrides an explicit flag.
func applySearchConfig(cmd *cobra.Command, cfg *searchConfig) {
	set := func(name string, val interface{}) {
		if cmd.Flags().Changed(name) {
			return
		}
		switch v := val.(type) {
		case *float64:
			if v != nil {
				checkError(cmd.Flags().Set(name, strconv.FormatFloat(*v, 'g', -1, 64)))
			}
		case *int:
			if v != nil {
				checkError(cmd.Flags().Set(name, strconv.Itoa(*v)))
			}
		case *string:
			if v != nil {
				checkError(cmd.Flags().Set(name, *v))
			}
		}
	}
	set("eps", cfg.Eps)
	set("min-len", cfg.MinLen)
	set("q", cfg.Q)
	set("abundance-cut", cfg.AbundanceCut)
	set("x-drop", cfg.XDrop)
	set("format", cfg.Format)
}
