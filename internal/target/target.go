// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package target maps hardware backends to toolchain target triples and the
// capability feature that gates backend-specific code in the workspace.
package target

import (
	"errors"
	"fmt"
	"slices"
)

// Backend selects one supported architecture family.
type Backend int

const (
	// Thumbv6 is the ARMv6-M backend (Cortex-M0/M0+).
	Thumbv6 Backend = iota
	// Thumbv7 is the ARMv7-M backend (Cortex-M3/M4/M7).
	Thumbv7
	// Thumbv8Base is the ARMv8-M baseline backend (Cortex-M23).
	Thumbv8Base
	// Thumbv8Main is the ARMv8-M mainline backend (Cortex-M33).
	Thumbv8Main
)

// Default is the backend used when none is configured.
const Default = Thumbv7

// DefaultFeature is enabled for every build of the core crate and its examples.
const DefaultFeature = "test-critical-section"

// ErrUnknownBackend is returned when a backend name cannot be parsed.
var ErrUnknownBackend = errors.New("unknown backend")

// Target is the toolchain view of a Backend.
type Target struct {
	Triple  string // rustc target triple
	Feature string // backend capability feature
}

var (
	armv6m     = Target{Triple: "thumbv6m-none-eabi", Feature: "thumbv6-backend"}
	armv7m     = Target{Triple: "thumbv7m-none-eabi", Feature: "thumbv7-backend"}
	armv8mBase = Target{Triple: "thumbv8m.base-none-eabi", Feature: "thumbv8base-backend"}
	armv8mMain = Target{Triple: "thumbv8m.main-none-eabi", Feature: "thumbv8main-backend"}
)

// All returns every backend in declaration order.
func All() []Backend {
	return []Backend{Thumbv6, Thumbv7, Thumbv8Base, Thumbv8Main}
}

// Resolve returns the target for a backend.
func Resolve(b Backend) Target {
	switch b {
	case Thumbv6:
		return armv6m
	case Thumbv7:
		return armv7m
	case Thumbv8Base:
		return armv8mBase
	case Thumbv8Main:
		return armv8mMain
	}

	panic(fmt.Sprintf("target: unhandled backend %d", int(b)))
}

// Target is shorthand for Resolve(b).
func (b Backend) Target() Target {
	return Resolve(b)
}

// MacrosFeature returns the interrupt-masking strategy feature of the macros crate.
func (b Backend) MacrosFeature() string {
	switch b {
	case Thumbv6, Thumbv8Base:
		return "cortex-m-source-masking"
	default:
		return "cortex-m-basepri"
	}
}

// UITestFeature returns the feature selecting the compile-fail test suite for the backend.
func (b Backend) UITestFeature() string {
	switch b {
	case Thumbv6, Thumbv8Base:
		return "rtic-uitestv6"
	default:
		return "rtic-uitestv7"
	}
}

// String returns the command-line name of the backend.
func (b Backend) String() string {
	switch b {
	case Thumbv6:
		return "thumbv6"
	case Thumbv7:
		return "thumbv7"
	case Thumbv8Base:
		return "thumbv8-base"
	case Thumbv8Main:
		return "thumbv8-main"
	default:
		return "unknown"
	}
}

// Parse maps a command-line name to a Backend.
func Parse(s string) (Backend, error) {
	for _, b := range All() {
		if b.String() == s {
			return b, nil
		}
	}

	return Backend(-1), fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownBackend, s, Names())
}

// Names returns the command-line names of all backends.
func Names() []string {
	names := make([]string, 0, len(All()))
	for _, b := range All() {
		names = append(names, b.String())
	}

	return names
}

// AndFeatures prefixes the workspace default feature to the given features.
func (t Target) AndFeatures(features ...string) []string {
	return slices.Concat([]string{DefaultFeature}, features)
}
