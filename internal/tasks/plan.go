// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/xtask/internal/dispatch"
	"github.com/matt-FFFFFF/xtask/internal/operation"
	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/matt-FFFFFF/xtask/internal/workspace"
)

// ErrUnknownFamily is returned for a family name that is not recognised.
var ErrUnknownFamily = errors.New("unknown command family")

// Family is a top-level command of the tool.
type Family string

const (
	FamilyCheck        Family = "check"
	FamilyBuild        Family = "build"
	FamilyExampleCheck Family = "example-check"
	FamilyExampleBuild Family = "example-build"
	FamilySize         Family = "size"
	FamilyClippy       Family = "clippy"
	FamilyFormat       Family = "fmt"
	FamilyDoc          Family = "doc"
	FamilyBook         Family = "book"
	FamilyQemu         Family = "qemu"
	FamilyTest         Family = "test"
)

// Families returns every family in the order they are listed in help output.
func Families() []Family {
	return []Family{
		FamilyCheck, FamilyBuild, FamilyExampleCheck, FamilyExampleBuild, FamilySize,
		FamilyClippy, FamilyFormat, FamilyDoc, FamilyBook, FamilyQemu, FamilyTest,
	}
}

// ParseFamily maps a command name to a Family.
func ParseFamily(s string) (Family, error) {
	if f := Family(s); slices.Contains(Families(), f) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// quietArg silences cargo during the build stage of a two-stage unit.
const quietArg = "--quiet"

// Request carries the knobs of a single invocation of the tool.
type Request struct {
	Backend   target.Backend
	Package   workspace.Selector
	Examples  workspace.ExampleFilter
	CargoArgs []string
	Mode      operation.BuildMode
	Args      operation.ExtraArguments // passthrough for size, clippy, doc and book
	CheckOnly bool                     // fmt --check
	Overwrite bool                     // qemu --overwrite-expected
}

// Unit is the work done for one example or package: a chain of stages where
// each runs only if the previous one succeeded.
type Unit struct {
	Name   string
	Stages []operation.Operation
}

// Plan is the fully constructed work of one family.
type Plan struct {
	Family     Family
	Sequential bool // run units one after the other and attempt all of them
	Overwrite  bool
	Units      []Unit
}

// Names returns the unit names in order.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Units))
	for i, u := range p.Units {
		names[i] = u.Name
	}

	return names
}

// PlanView is the printable form of a Plan.
type PlanView struct {
	Family     Family     `yaml:"family"`
	Sequential bool       `yaml:"sequential"`
	Overwrite  bool       `yaml:"overwriteExpected,omitempty"`
	Units      []UnitView `yaml:"units"`
}

// UnitView is the printable form of a Unit.
type UnitView struct {
	Name  string                `yaml:"name"`
	Steps []dispatch.Invocation `yaml:"steps"`
}

// View renders every stage of the plan with the given layout.
func (p *Plan) View(l dispatch.Layout) PlanView {
	v := PlanView{
		Family:     p.Family,
		Sequential: p.Sequential,
		Overwrite:  p.Overwrite,
		Units:      make([]UnitView, len(p.Units)),
	}

	for i, u := range p.Units {
		steps := make([]dispatch.Invocation, len(u.Stages))
		for j, op := range u.Stages {
			steps[j] = l.Render(op)
		}

		v.Units[i] = UnitView{Name: u.Name, Steps: steps}
	}

	return v
}
