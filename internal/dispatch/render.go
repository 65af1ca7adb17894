// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/xtask/internal/operation"
	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/matt-FFFFFF/xtask/internal/workspace"
)

// Invocation is a concrete external command line.
type Invocation struct {
	Program string            `yaml:"program"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// Layout holds the workspace facts rendering depends on.
type Layout struct {
	Cargo           string // cargo executable name or path
	MdBook          string // mdbook executable name or path
	ExamplesPackage string // package that owns the examples
	DocPackage      string // package whose API docs are generated
	BookDir         string // mdbook source directory
}

// DefaultLayout returns the layout of the RTIC workspace.
func DefaultLayout() Layout {
	return Layout{
		Cargo:           "cargo",
		MdBook:          "mdbook",
		ExamplesPackage: workspace.Rtic.String(),
		DocPackage:      workspace.Rtic.String(),
		BookDir:         "book/en",
	}
}

// Render renders op against DefaultLayout.
func Render(op operation.Operation) Invocation {
	return DefaultLayout().Render(op)
}

// Render returns the invocation for op. Arguments always come in the order
// cargo args, subcommand, package, example, target, features, profile, passthrough.
func (l Layout) Render(op operation.Operation) Invocation {
	switch o := op.(type) {
	case operation.Check:
		return l.cargo(o.CargoArgs, "check", pkgFlag(o.Package), o.Target, o.Features, o.Mode)
	case operation.Build:
		return l.cargo(o.CargoArgs, "build", pkgFlag(o.Package), o.Target, o.Features, o.Mode)
	case operation.ExampleCheck:
		return l.cargo(o.CargoArgs, "check", l.exampleFlags(o.Example), o.Target, o.Features, o.Mode)
	case operation.ExampleBuild:
		return l.cargo(o.CargoArgs, "build", l.exampleFlags(o.Example), o.Target, o.Features, o.Mode)
	case operation.Qemu:
		return l.cargo(o.CargoArgs, "run", l.exampleFlags(o.Example), o.Target, o.Features, o.Mode)
	case operation.ExampleSize:
		inv := l.cargo(o.CargoArgs, "size", l.exampleFlags(o.Example), o.Target, o.Features, o.Mode)
		if len(o.Args) > 0 {
			inv.Args = append(inv.Args, "--")
			inv.Args = append(inv.Args, o.Args...)
		}

		return inv
	case operation.Clippy:
		inv := l.cargo(o.CargoArgs, "clippy", pkgFlag(o.Package), o.Target, o.Features, operation.Debug)
		inv.Args = append(inv.Args, o.Args...)

		return inv
	case operation.Format:
		sel := []string{"--all"}
		if p, ok := o.Package.Package(); ok {
			sel = []string{"--package", p.String()}
		}

		args := slices.Concat(o.CargoArgs, []string{"fmt"}, sel)
		if o.CheckOnly {
			args = append(args, "--", "--check")
		}

		return Invocation{Program: l.Cargo, Args: args}
	case operation.Doc:
		args := slices.Concat(o.CargoArgs, []string{"doc", "--package", l.DocPackage}, featuresFlag(o.Features), o.Args)
		return Invocation{Program: l.Cargo, Args: args}
	case operation.Book:
		return Invocation{Program: l.MdBook, Args: slices.Concat([]string{"build", l.BookDir}, o.Args)}
	case operation.Test:
		args := slices.Concat([]string{"test", "--package", o.Package.String()}, featuresFlag(o.Features))
		if o.TestTarget != "" {
			args = append(args, "--test", o.TestTarget)
		}

		return Invocation{Program: l.Cargo, Args: args}
	default:
		panic(fmt.Sprintf("dispatch: unhandled operation %T", op))
	}
}

func (l Layout) cargo(cargoArgs []string, sub string, selection []string, t target.Target,
	features workspace.FeatureSet, mode operation.BuildMode) Invocation {
	args := slices.Concat(cargoArgs, []string{sub}, selection, []string{"--target", t.Triple}, featuresFlag(features))
	if mode == operation.Release {
		args = append(args, "--release")
	}

	return Invocation{Program: l.Cargo, Args: args}
}

func (l Layout) exampleFlags(example string) []string {
	return []string{"--package", l.ExamplesPackage, "--example", example}
}

func pkgFlag(sel workspace.Selector) []string {
	if p, ok := sel.Package(); ok {
		return []string{"--package", p.String()}
	}

	return []string{"--workspace"}
}

func featuresFlag(fs workspace.FeatureSet) []string {
	if fs.Empty() {
		return nil
	}

	return []string{"--features=" + fs.Join()}
}
