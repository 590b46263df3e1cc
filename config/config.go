// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package config loads inference options from YAML.
package config

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/flowtype"
	"github.com/wdamron/flowtype/semantic"
)

// DefaultVectorizeParam is the parameter name of row functions considered for vectorization.
const DefaultVectorizeParam = "r"

// Config holds the options of an analysis run.
type Config struct {
	// Vectorize enables the vectorization pass after inference.
	Vectorize bool `yaml:"vectorize"`

	// VectorizeParam is the parameter name of row functions considered for vectorization.
	// Defaults to "r".
	VectorizeParam string `yaml:"vectorize_param,omitempty"`

	// LogLevel is one of debug, info, warn or error. Defaults to info.
	LogLevel string `yaml:"log_level,omitempty"`

	// MaxErrors limits the errors reported for each package; 0 reports every error.
	MaxErrors int `yaml:"max_errors,omitempty"`

	// Parallelism is the number of packages analyzed concurrently. Defaults to GOMAXPROCS.
	Parallelism int `yaml:"parallelism,omitempty"`

	// CachePath is the path of the SQLite package type store; empty uses an in-memory store.
	CachePath string `yaml:"cache_path,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	return Parse(data, path)
}

// Parse parses configuration content. The path is used only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.MaxErrors < 0 {
		return errors.Errorf("%s: max_errors must not be negative", path)
	}
	if c.Parallelism < 0 {
		return errors.Errorf("%s: parallelism must not be negative", path)
	}
	if c.VectorizeParam != "" && !semantic.IsIdentifier(c.VectorizeParam) {
		return errors.Errorf("%s: vectorize_param %q is not an identifier", path, c.VectorizeParam)
	}
	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return errors.Wrapf(err, "%s: log_level", path)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.VectorizeParam == "" {
		c.VectorizeParam = DefaultVectorizeParam
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Parallelism == 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Options converts the configuration to inference options.
func (c *Config) Options(logger *slog.Logger) flowtype.Options {
	return flowtype.Options{MaxErrors: c.MaxErrors, Vectorize: c.Vectorize, Logger: logger}
}
