// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package baseline stores the expected emulator output of each example and
// compares fresh runs against it.
package baseline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

const (
	// DefaultExt is the file extension of a baseline file.
	DefaultExt = ".run"
	dirPerm    = 0o755
	filePerm   = 0o644
	diffLines  = 3
)

var (
	// ErrMismatch is returned when captured output differs from the baseline.
	ErrMismatch = errors.New("output does not match expected")
	// ErrBaselineMissing is returned when an example has no baseline yet.
	ErrBaselineMissing = errors.New("no expected output recorded")
	// ErrReadBaseline is returned when a baseline exists but cannot be read.
	ErrReadBaseline = errors.New("could not read expected output")
	// ErrWriteBaseline is returned when a baseline cannot be replaced.
	ErrWriteBaseline = errors.New("could not write expected output")
)

// FsFactory returns the filesystem baselines are read from and written to.
var FsFactory = func() afero.Fs { return afero.NewOsFs() }

// MismatchError carries the unified diff between the baseline and the actual output.
type MismatchError struct {
	Example string
	Path    string
	Diff    string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s (%s)\n%s", ErrMismatch.Error(), e.Example, e.Path, e.Diff)
}

// Is makes errors.Is(err, ErrMismatch) hold.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Store is a directory of baseline files, one per example.
type Store struct {
	fs  afero.Fs
	dir string
	ext string
}

// NewStore returns a Store rooted at dir. An empty ext means DefaultExt.
func NewStore(dir, ext string) *Store {
	if ext == "" {
		ext = DefaultExt
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return &Store{fs: FsFactory(), dir: dir, ext: ext}
}

// Path returns the baseline file of example.
func (s *Store) Path(example string) string {
	return filepath.Join(s.dir, example+s.ext)
}

// Compare checks actual against the stored baseline byte for byte.
// A difference yields a *MismatchError.
func (s *Store) Compare(example string, actual []byte) error {
	path := s.Path(example)

	expected, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s (%s)", ErrBaselineMissing, example, path)
		}

		return errors.Join(ErrReadBaseline, err)
	}

	if bytes.Equal(expected, actual) {
		return nil
	}

	return &MismatchError{
		Example: example,
		Path:    path,
		Diff:    Diff(expected, actual),
	}
}

// Overwrite replaces the baseline of example with actual.
// The content is written to a temporary file in the same directory and
// renamed into place, so readers see either the old or the new baseline.
func (s *Store) Overwrite(example string, actual []byte) (err error) {
	if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
		return errors.Join(ErrWriteBaseline, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+example+"-*.tmp")
	if err != nil {
		return errors.Join(ErrWriteBaseline, err)
	}

	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(actual); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrWriteBaseline, err)
	}

	if err := tmp.Close(); err != nil {
		return errors.Join(ErrWriteBaseline, err)
	}

	if err := s.fs.Chmod(tmp.Name(), filePerm); err != nil {
		return errors.Join(ErrWriteBaseline, err)
	}

	if err := s.fs.Rename(tmp.Name(), s.Path(example)); err != nil {
		return errors.Join(ErrWriteBaseline, err)
	}

	return nil
}

// Diff renders a unified diff from expected to actual.
func Diff(expected, actual []byte) string {
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  diffLines,
	})
	if err != nil {
		return err.Error()
	}

	return d
}
