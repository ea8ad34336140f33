// seehuhn.de/go/pdfcore - the object model and content reader of a PDF library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Package config reads the YAML settings files shared by the command line
// tools.
//
// A settings file looks like this:
//
//	reader:
//	  strict: true
//	  follow-forms: false
//	  max-depth: 16
//	  inline-length: true
//	store:
//	  reuse: false
//	  default-filter: LZWDecode
//	  cache-size: 64
//
// All entries are optional.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"seehuhn.de/go/pdfcore"
	"seehuhn.de/go/pdfcore/content"
)

// Config holds the settings from a configuration file.
type Config struct {
	Reader Reader `yaml:"reader"`
	Store  Store  `yaml:"store"`
}

// Reader holds the settings for content stream readers.
type Reader struct {
	Strict       bool  `yaml:"strict"`
	FollowForms  *bool `yaml:"follow-forms"`
	MaxDepth     int   `yaml:"max-depth"`
	InlineLength bool  `yaml:"inline-length"`
}

// Store holds the settings for object stores.
type Store struct {
	Reuse         *bool  `yaml:"reuse"`
	DefaultFilter string `yaml:"default-filter"`
	CacheSize     int    `yaml:"cache-size"`
}

// Load reads a configuration file.
// If fname is empty, the default configuration is returned.
func Load(fname string) (*Config, error) {
	c := &Config{}
	if fname == "" {
		return c, nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if c.Reader.MaxDepth < 0 {
		return nil, fmt.Errorf("%s: invalid max-depth %d", fname, c.Reader.MaxDepth)
	}
	if c.Store.DefaultFilter != "" {
		_, err = pdfcore.ParseFilterType(pdfcore.Name(c.Store.DefaultFilter))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
	}
	return c, nil
}

// ReaderOptions converts the settings into options for
// [content.NewReader].
func (c *Config) ReaderOptions() *content.Options {
	opt := &content.Options{
		InlineImageLength: c.Reader.InlineLength,
		MaxDepth:          c.Reader.MaxDepth,
	}
	if c.Reader.Strict {
		opt.Flags |= content.ThrowOnWarnings
	}
	if c.Reader.FollowForms != nil && !*c.Reader.FollowForms {
		opt.Flags |= content.DontFollowXObjects
	}
	return opt
}

// StoreOptions converts the settings into options for [pdfcore.NewStore].
func (c *Config) StoreOptions() *pdfcore.StoreOptions {
	opt := &pdfcore.StoreOptions{
		CacheSize: c.Store.CacheSize,
	}
	if c.Store.Reuse != nil {
		opt.DisableReuse = !*c.Store.Reuse
	}
	if c.Store.DefaultFilter != "" {
		// checked in Load
		opt.DefaultFilter, _ = pdfcore.ParseFilterType(pdfcore.Name(c.Store.DefaultFilter))
	}
	return opt
}
