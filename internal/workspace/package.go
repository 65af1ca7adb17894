// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"errors"
	"fmt"
	"slices"
)

// Package is a crate of the workspace.
type Package string

const (
	Rtic           Package = "rtic"
	RticCommon     Package = "rtic-common"
	RticMacros     Package = "rtic-macros"
	RticMonotonics Package = "rtic-monotonics"
	RticSync       Package = "rtic-sync"
	RticTime       Package = "rtic-time"
)

// ErrUnknownPackage is returned when a package name is not part of the workspace.
var ErrUnknownPackage = errors.New("unknown package")

// Packages returns the workspace crates in their fixed iteration order.
func Packages() []Package {
	return []Package{Rtic, RticCommon, RticMacros, RticMonotonics, RticSync, RticTime}
}

// String implements fmt.Stringer.
func (p Package) String() string {
	return string(p)
}

// Selector picks either every workspace package (the zero value) or exactly one.
type Selector struct {
	pkg Package
}

// AllPackages selects every package of the workspace.
func AllPackages() Selector {
	return Selector{}
}

// Only selects a single package.
func Only(p Package) Selector {
	return Selector{pkg: p}
}

// ParseSelector maps a package name to a Selector. The empty string selects all packages.
func ParseSelector(name string) (Selector, error) {
	if name == "" {
		return AllPackages(), nil
	}

	if !slices.Contains(Packages(), Package(name)) {
		return Selector{}, fmt.Errorf("%w: %q", ErrUnknownPackage, name)
	}

	return Only(Package(name)), nil
}

// IsAll reports whether the selector covers every package.
func (s Selector) IsAll() bool {
	return s.pkg == ""
}

// Package returns the selected package and true, or false when all packages are selected.
func (s Selector) Package() (Package, bool) {
	return s.pkg, s.pkg != ""
}

// Packages expands the selector into the packages it covers, in iteration order.
func (s Selector) Packages() []Package {
	if s.IsAll() {
		return Packages()
	}

	return []Package{s.pkg}
}

// String returns the package name, or "all" for every package.
func (s Selector) String() string {
	if s.IsAll() {
		return "all"
	}

	return string(s.pkg)
}
