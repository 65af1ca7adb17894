// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const exampleExt = ".rs"

var (
	// ErrUnknownExample is returned when a requested example does not exist.
	ErrUnknownExample = errors.New("unknown example")
	// ErrReadExamples is returned when the examples directory cannot be listed.
	ErrReadExamples = errors.New("failed to read examples directory")
)

// FsFactory returns the filesystem examples are discovered on.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Examples lists the example programs in dir, sorted by name.
// An example is any regular file with a .rs extension; the name is the file stem.
func Examples(dir string) ([]string, error) {
	entries, err := afero.ReadDir(FsFactory(), dir)
	if err != nil {
		return nil, errors.Join(ErrReadExamples, err)
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != exampleExt {
			continue
		}

		names = append(names, strings.TrimSuffix(e.Name(), exampleExt))
	}

	slices.Sort(names)

	return names, nil
}

// ExampleFilter narrows the discovered examples.
type ExampleFilter struct {
	Include string // run only this example
	Exclude string // run everything but this example
}

// Apply returns the examples selected by the filter, keeping the input order.
func (f ExampleFilter) Apply(all []string) ([]string, error) {
	if f.Include != "" {
		if !slices.Contains(all, f.Include) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExample, f.Include)
		}

		if f.Include == f.Exclude {
			return []string{}, nil
		}

		return []string{f.Include}, nil
	}

	if f.Exclude != "" && !slices.Contains(all, f.Exclude) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExample, f.Exclude)
	}

	return slices.DeleteFunc(slices.Clone(all), func(s string) bool {
		return s == f.Exclude
	}), nil
}
