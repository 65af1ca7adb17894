// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"strings"

	"github.com/matt-FFFFFF/xtask/internal/target"
)

// FeatureSet is an ordered list of cargo features without duplicates.
type FeatureSet []string

// NewFeatureSet builds a FeatureSet, dropping empty and repeated flags while
// keeping the first occurrence of each.
func NewFeatureSet(flags ...string) FeatureSet {
	fs := make(FeatureSet, 0, len(flags))
	seen := make(map[string]struct{}, len(flags))

	for _, f := range flags {
		if f == "" {
			continue
		}

		if _, ok := seen[f]; ok {
			continue
		}

		seen[f] = struct{}{}
		fs = append(fs, f)
	}

	return fs
}

// Join renders the set the way cargo expects it on the command line.
func (fs FeatureSet) Join() string {
	return strings.Join(fs, ",")
}

// Empty reports whether the set has no flags.
func (fs FeatureSet) Empty() bool {
	return len(fs) == 0
}

// Features returns the flags a package needs when built for the given backend.
// All-packages selectors yield an empty set: callers iterate Selector.Packages
// and ask for each package in turn.
func Features(t target.Target, sel Selector, b target.Backend) FeatureSet {
	pkg, ok := sel.Package()
	if !ok {
		return FeatureSet{}
	}

	switch pkg {
	case Rtic:
		return NewFeatureSet(t.AndFeatures(t.Feature)...)
	case RticMacros:
		return NewFeatureSet(b.MacrosFeature())
	default:
		return FeatureSet{}
	}
}

// ExampleFeatures returns the flags used to build the example programs.
func ExampleFeatures(t target.Target) FeatureSet {
	return NewFeatureSet(t.AndFeatures(t.Feature)...)
}

// TestSpec describes how the tests of one package are invoked.
type TestSpec struct {
	Package    Package
	Features   FeatureSet
	TestTarget string // cargo --test target, empty for all tests
}

// TestMetadata returns the test invocation parameters of a package.
func TestMetadata(p Package, b target.Backend) TestSpec {
	spec := TestSpec{Package: p}

	switch p {
	case Rtic:
		t := target.Resolve(b)
		spec.Features = NewFeatureSet(t.AndFeatures(t.Feature, b.UITestFeature())...)
		spec.TestTarget = "ui"
	case RticMacros:
		spec.Features = NewFeatureSet(b.MacrosFeature())
	case RticCommon, RticSync:
		spec.Features = NewFeatureSet("testing")
	case RticTime:
		spec.Features = NewFeatureSet("critical-section/std")
	case RticMonotonics:
		spec.Features = FeatureSet{}
	}

	return spec
}
