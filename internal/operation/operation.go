// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package operation models every unit of work the tool can hand to the toolchain.
//
// Operation is a closed set: each kind is a struct in this package and the
// unexported marker method keeps other packages from adding more. Consumers
// switch on the concrete type. Constructing an operation never touches the
// filesystem or starts a process.
package operation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/matt-FFFFFF/xtask/internal/workspace"
)

// ErrInvalidOperation is returned by constructors when a required parameter is malformed.
var ErrInvalidOperation = errors.New("invalid operation")

// Kind identifies the family of an operation.
type Kind string

const (
	KindCheck        Kind = "check"
	KindBuild        Kind = "build"
	KindExampleCheck Kind = "example-check"
	KindExampleBuild Kind = "example-build"
	KindExampleSize  Kind = "example-size"
	KindClippy       Kind = "clippy"
	KindFormat       Kind = "format"
	KindDoc          Kind = "doc"
	KindBook         Kind = "book"
	KindQemu         Kind = "qemu"
	KindTest         Kind = "test"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// BuildMode selects the cargo profile.
type BuildMode int

const (
	// Release builds with optimizations. It is the zero value.
	Release BuildMode = iota
	// Debug builds the dev profile.
	Debug
)

// String implements fmt.Stringer.
func (m BuildMode) String() string {
	if m == Debug {
		return "debug"
	}

	return "release"
}

// ExtraArguments are forwarded verbatim to the invoked tool.
type ExtraArguments []string

// Operation is one parameterized unit of work.
type Operation interface {
	// Kind returns the operation family.
	Kind() Kind
	// Label identifies the unit in logs and reports, e.g. "example-build blinky".
	Label() string
	isOperation()
}

var (
	_ Operation = Check{}
	_ Operation = Build{}
	_ Operation = ExampleCheck{}
	_ Operation = ExampleBuild{}
	_ Operation = ExampleSize{}
	_ Operation = Clippy{}
	_ Operation = Format{}
	_ Operation = Doc{}
	_ Operation = Book{}
	_ Operation = Qemu{}
	_ Operation = Test{}
)

func label(k Kind, subject string) string {
	if subject == "" {
		return k.String()
	}

	return k.String() + " " + subject
}

func validateExample(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: example name is empty", ErrInvalidOperation)
	}

	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: example name %q contains a path separator", ErrInvalidOperation, name)
	}

	return nil
}

func validateTarget(t target.Target) error {
	if t.Triple == "" {
		return fmt.Errorf("%w: target triple is empty", ErrInvalidOperation)
	}

	return nil
}

func clone[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}

	return append(S(nil), s...)
}

// pkgParams are shared by the package-level cargo operations.
type pkgParams struct {
	CargoArgs []string
	Package   workspace.Selector
	Target    target.Target
	Features  workspace.FeatureSet
	Mode      BuildMode
}

func newPkgParams(cargoArgs []string, pkg workspace.Selector, t target.Target,
	features workspace.FeatureSet, mode BuildMode) (pkgParams, error) {
	if err := validateTarget(t); err != nil {
		return pkgParams{}, err
	}

	return pkgParams{
		CargoArgs: clone(cargoArgs),
		Package:   pkg,
		Target:    t,
		Features:  clone(features),
		Mode:      mode,
	}, nil
}

// Check type-checks a package.
type Check struct{ pkgParams }

// NewCheck builds a Check operation.
func NewCheck(cargoArgs []string, pkg workspace.Selector, t target.Target,
	features workspace.FeatureSet, mode BuildMode) (Check, error) {
	p, err := newPkgParams(cargoArgs, pkg, t, features, mode)
	return Check{p}, err
}

func (Check) Kind() Kind { return KindCheck }
func (o Check) Label() string { return label(KindCheck, o.Package.String()) }
func (Check) isOperation() {}

// Build compiles a package.
type Build struct{ pkgParams }

// NewBuild builds a Build operation.
func NewBuild(cargoArgs []string, pkg workspace.Selector, t target.Target,
	features workspace.FeatureSet, mode BuildMode) (Build, error) {
	p, err := newPkgParams(cargoArgs, pkg, t, features, mode)
	return Build{p}, err
}

func (Build) Kind() Kind { return KindBuild }
func (o Build) Label() string { return label(KindBuild, o.Package.String()) }
func (Build) isOperation() {}

// exampleParams are shared by the operations acting on one example program.
type exampleParams struct {
	CargoArgs []string
	Example   string
	Target    target.Target
	Features  workspace.FeatureSet
	Mode      BuildMode
}

func newExampleParams(cargoArgs []string, example string, t target.Target,
	features workspace.FeatureSet, mode BuildMode) (exampleParams, error) {
	if err := validateExample(example); err != nil {
		return exampleParams{}, err
	}

	if err := validateTarget(t); err != nil {
		return exampleParams{}, err
	}

	return exampleParams{
		CargoArgs: clone(cargoArgs),
		Example:   example,
		Target:    t,
		Features:  clone(features),
		Mode:      mode,
	}, nil
}

// ExampleCheck type-checks one example.
type ExampleCheck struct{ exampleParams }

// NewExampleCheck builds an ExampleCheck operation.
func NewExampleCheck(cargoArgs []string, example string, t target.Target,
	features workspace.FeatureSet, mode BuildMode) (ExampleCheck, error) {
	p, err := newExampleParams(cargoArgs, example, t, features, mode)
	return ExampleCheck{p}, err
}

func (ExampleCheck) Kind() Kind { return KindExampleCheck }
func (o ExampleCheck) Label() string { return label(KindExampleCheck, o.Example) }
func (ExampleCheck) isOperation() {}

// ExampleBuild compiles one example.
type ExampleBuild struct{ exampleParams }

// NewExampleBuild builds an ExampleBuild operation.
func NewExampleBuild(cargoArgs []string, example string, t target.Target,
	features workspace.FeatureSet, mode BuildMode) (ExampleBuild, error) {
	p, err := newExampleParams(cargoArgs, example, t, features, mode)
	return ExampleBuild{p}, err
}

func (ExampleBuild) Kind() Kind { return KindExampleBuild }
func (o ExampleBuild) Label() string { return label(KindExampleBuild, o.Example) }
func (ExampleBuild) isOperation() {}

// ExampleSize reports the section sizes of a built example.
type ExampleSize struct {
	exampleParams
	Args ExtraArguments // forwarded to the size tool
}

// NewExampleSize builds an ExampleSize operation.
func NewExampleSize(cargoArgs []string, example string, t target.Target,
	features workspace.FeatureSet, mode BuildMode, args ExtraArguments) (ExampleSize, error) {
	p, err := newExampleParams(cargoArgs, example, t, features, mode)
	return ExampleSize{exampleParams: p, Args: clone(args)}, err
}

func (ExampleSize) Kind() Kind { return KindExampleSize }
func (o ExampleSize) Label() string { return label(KindExampleSize, o.Example) }
func (ExampleSize) isOperation() {}

// Qemu runs an example in the emulator and captures its output.
type Qemu struct{ exampleParams }

// NewQemu builds a Qemu operation.
func NewQemu(cargoArgs []string, example string, t target.Target,
	features workspace.FeatureSet, mode BuildMode) (Qemu, error) {
	p, err := newExampleParams(cargoArgs, example, t, features, mode)
	return Qemu{p}, err
}

func (Qemu) Kind() Kind { return KindQemu }
func (o Qemu) Label() string { return label(KindQemu, o.Example) }
func (Qemu) isOperation() {}

// Clippy lints a package.
type Clippy struct {
	CargoArgs []string
	Package   workspace.Selector
	Target    target.Target
	Features  workspace.FeatureSet
	Args      ExtraArguments
}

// NewClippy builds a Clippy operation.
func NewClippy(cargoArgs []string, pkg workspace.Selector, t target.Target,
	features workspace.FeatureSet, args ExtraArguments) (Clippy, error) {
	if err := validateTarget(t); err != nil {
		return Clippy{}, err
	}

	return Clippy{
		CargoArgs: clone(cargoArgs),
		Package:   pkg,
		Target:    t,
		Features:  clone(features),
		Args:      clone(args),
	}, nil
}

func (Clippy) Kind() Kind { return KindClippy }
func (o Clippy) Label() string { return label(KindClippy, o.Package.String()) }
func (Clippy) isOperation() {}

// Format runs rustfmt over a package, or the whole workspace.
type Format struct {
	CargoArgs []string
	Package   workspace.Selector
	CheckOnly bool
}

// NewFormat builds a Format operation.
func NewFormat(cargoArgs []string, pkg workspace.Selector, checkOnly bool) Format {
	return Format{CargoArgs: clone(cargoArgs), Package: pkg, CheckOnly: checkOnly}
}

func (Format) Kind() Kind { return KindFormat }
func (o Format) Label() string { return label(KindFormat, o.Package.String()) }
func (Format) isOperation() {}

// Doc generates the API documentation of the core crate.
type Doc struct {
	CargoArgs []string
	Features  workspace.FeatureSet
	Args      ExtraArguments
}

// NewDoc builds a Doc operation.
func NewDoc(cargoArgs []string, features workspace.FeatureSet, args ExtraArguments) Doc {
	return Doc{CargoArgs: clone(cargoArgs), Features: clone(features), Args: clone(args)}
}

func (Doc) Kind() Kind { return KindDoc }
func (Doc) Label() string { return label(KindDoc, "") }
func (Doc) isOperation() {}

// Book builds the user book.
type Book struct {
	Args ExtraArguments
}

// NewBook builds a Book operation.
func NewBook(args ExtraArguments) Book {
	return Book{Args: clone(args)}
}

func (Book) Kind() Kind { return KindBook }
func (Book) Label() string { return label(KindBook, "") }
func (Book) isOperation() {}

// Test runs the host test suite of a single package.
type Test struct {
	Package    workspace.Package
	Features   workspace.FeatureSet
	TestTarget string
}

// NewTest builds a Test operation from a package's test metadata.
func NewTest(spec workspace.TestSpec) (Test, error) {
	if spec.Package == "" {
		return Test{}, fmt.Errorf("%w: test requires a named package", ErrInvalidOperation)
	}

	return Test{
		Package:    spec.Package,
		Features:   clone(spec.Features),
		TestTarget: spec.TestTarget,
	}, nil
}

func (Test) Kind() Kind { return KindTest }
func (o Test) Label() string { return label(KindTest, o.Package.String()) }
func (Test) isOperation() {}

// Example returns the example an operation acts on, if any.
func Example(op Operation) (string, bool) {
	switch o := op.(type) {
	case ExampleCheck:
		return o.Example, true
	case ExampleBuild:
		return o.Example, true
	case ExampleSize:
		return o.Example, true
	case Qemu:
		return o.Example, true
	default:
		return "", false
	}
}

// Subject returns what an operation acts on: the example name, the package
// selector, or the kind itself for workspace-wide operations.
func Subject(op Operation) string {
	if ex, ok := Example(op); ok {
		return ex
	}

	switch o := op.(type) {
	case Check:
		return o.Package.String()
	case Build:
		return o.Package.String()
	case Clippy:
		return o.Package.String()
	case Format:
		return o.Package.String()
	case Test:
		return o.Package.String()
	default:
		return op.Kind().String()
	}
}
