// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config describes the workspace layout and toolchain the tool drives.
//
// A configuration file is optional. When present it is YAML (xtask.yaml,
// xtask.yml) or HCL (xtask.hcl); any field it leaves out keeps its default,
// and the defaults describe the RTIC workspace.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/spf13/afero"
)

var (
	// ErrLoadConfig is returned when a configuration file cannot be read or fetched.
	ErrLoadConfig = errors.New("failed to load config")
	// ErrParseConfig is returned when a configuration file cannot be decoded.
	ErrParseConfig = errors.New("failed to parse config")
	// ErrInvalidConfig is returned when a decoded configuration is not usable.
	ErrInvalidConfig = errors.New("invalid config")
)

// FsFactory returns the filesystem configuration files are discovered on.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Config is the project configuration.
type Config struct {
	WorkspaceRoot   string   `yaml:"workspace_root" hcl:"workspace_root,optional"`
	Cargo           string   `yaml:"cargo" hcl:"cargo,optional"`
	MdBook          string   `yaml:"mdbook" hcl:"mdbook,optional"`
	ExamplesDir     string   `yaml:"examples_dir" hcl:"examples_dir,optional"`
	ExamplesPackage string   `yaml:"examples_package" hcl:"examples_package,optional"`
	ExpectedDir     string   `yaml:"expected_dir" hcl:"expected_dir,optional"`
	ExpectedExt     string   `yaml:"expected_ext" hcl:"expected_ext,optional"`
	BookDir         string   `yaml:"book_dir" hcl:"book_dir,optional"`
	Backend         string   `yaml:"backend" hcl:"backend,optional"`
	Parallelism     int      `yaml:"parallelism" hcl:"parallelism,optional"`
	CargoArgs       []string `yaml:"cargo_args" hcl:"cargo_args,optional"`
}

// Default returns the configuration of the RTIC workspace rooted at the working directory.
func Default() *Config {
	return &Config{
		WorkspaceRoot:   ".",
		Cargo:           "cargo",
		MdBook:          "mdbook",
		ExamplesDir:     "rtic/examples",
		ExamplesPackage: "rtic",
		ExpectedDir:     "rtic/ci/expected",
		ExpectedExt:     ".run",
		BookDir:         "book/en",
		Backend:         target.Default.String(),
	}
}

// Validate checks the fields that can be wrong after decoding.
func (c *Config) Validate() error {
	var errs []error

	if _, err := target.Parse(c.Backend); err != nil {
		errs = append(errs, err)
	}

	if c.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism))
	}

	for name, v := range map[string]string{
		"cargo":            c.Cargo,
		"mdbook":           c.MdBook,
		"examples_dir":     c.ExamplesDir,
		"examples_package": c.ExamplesPackage,
		"expected_dir":     c.ExpectedDir,
		"book_dir":         c.BookDir,
	} {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

// Resolve makes WorkspaceRoot absolute against cwd and the workspace
// directories absolute against WorkspaceRoot. A tool given as a relative
// path is resolved against WorkspaceRoot too; a bare name is left for PATH.
func (c *Config) Resolve(cwd string) {
	if !filepath.IsAbs(c.WorkspaceRoot) {
		c.WorkspaceRoot = filepath.Join(cwd, c.WorkspaceRoot)
	}

	for _, dir := range []*string{&c.ExamplesDir, &c.ExpectedDir, &c.BookDir} {
		if *dir != "" && !filepath.IsAbs(*dir) {
			*dir = filepath.Join(c.WorkspaceRoot, *dir)
		}
	}

	for _, tool := range []*string{&c.Cargo, &c.MdBook} {
		if hasSeparator(*tool) && !filepath.IsAbs(*tool) {
			*tool = filepath.Join(c.WorkspaceRoot, *tool)
		}
	}
}

func hasSeparator(path string) bool {
	return strings.ContainsRune(path, '/') || strings.ContainsRune(path, filepath.Separator)
}
