// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matt-FFFFFF/xtask/internal/baseline"
	"github.com/matt-FFFFFF/xtask/internal/dispatch"
	"github.com/matt-FFFFFF/xtask/internal/operation"
	"github.com/matt-FFFFFF/xtask/internal/runbatch"
	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/matt-FFFFFF/xtask/internal/workspace"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const examplesDir = "/ws/rtic/examples"

// recorder is a fake toolchain. It fails any invocation whose command line
// contains one of the configured substrings and echoes the example name on
// successful runs.
type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  []string
}

func (r *recorder) Execute(_ context.Context, label, kind string, inv dispatch.Invocation) *runbatch.Result {
	line := strings.Join(inv.Args, " ")

	r.mu.Lock()
	r.calls = append(r.calls, line)
	r.mu.Unlock()

	for _, f := range r.fail {
		if strings.Contains(line, f) {
			return &runbatch.Result{Status: runbatch.ResultStatusToolFailed, ExitCode: 101, Error: runbatch.ErrNonZeroExit}
		}
	}

	return &runbatch.Result{Status: runbatch.ResultStatusSuccess, StdOut: []byte(label + "\n")}
}

func (r *recorder) matching(sub string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.DeleteFunc(slices.Clone(r.calls), func(c string) bool { return !strings.Contains(c, sub) })
}

func setup(t *testing.T, examples ...string) (*Runner, *recorder, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	stubs := gostub.StubFunc(&workspace.FsFactory, fs)
	stubs.StubFunc(&baseline.FsFactory, fs)
	t.Cleanup(stubs.Reset)

	for _, ex := range examples {
		require.NoError(t, afero.WriteFile(fs, examplesDir+"/"+ex+".rs", nil, 0o644))
	}

	rec := &recorder{}
	d := dispatch.New(dispatch.DefaultLayout(), "/ws",
		dispatch.WithExecutor(rec),
		dispatch.WithBaselines(baseline.NewStore("/ws/rtic/ci/expected", ".run")),
	)

	return &Runner{Dispatcher: d, ExamplesDir: examplesDir, Parallelism: 2}, rec, fs
}

func defaultRequest() Request {
	return Request{Backend: target.Thumbv7, Package: workspace.AllPackages()}
}

func TestQemuBuildFailureSkipsRunOfThatExampleOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, rec, fs := setup(t, "blinky", "broken", "idle")
	rec.fail = []string{"build --package rtic --example broken"}

	req := defaultRequest()
	req.Overwrite = true

	res, err := r.Run(context.Background(), FamilyQemu, req)
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, []string{"blinky", "broken", "idle"}, []string{res[0].Label, res[1].Label, res[2].Label})
	assert.Equal(t, runbatch.ResultStatusSuccess, res[0].Status)
	assert.Equal(t, runbatch.ResultStatusToolFailed, res[1].Status)
	assert.Equal(t, "example-build", res[1].Kind)
	assert.Equal(t, runbatch.ResultStatusSkipped, res[1].Children[1].Status)
	assert.Equal(t, "qemu", res[1].Children[1].Kind)
	assert.Equal(t, runbatch.ResultStatusSuccess, res[2].Status)

	assert.Empty(t, rec.matching("run --package rtic --example broken"), "dependent stage never dispatched")
	assert.Len(t, rec.matching("run --package rtic"), 2)

	for _, build := range rec.matching("build --package rtic") {
		assert.True(t, strings.HasPrefix(build, "--quiet build"), build)
	}

	got, err := afero.ReadFile(fs, "/ws/rtic/ci/expected/idle.run")
	require.NoError(t, err)
	assert.Equal(t, "idle\n", string(got))

	exists, err := afero.Exists(fs, "/ws/rtic/ci/expected/broken.run")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestQemuComparesAgainstBaselines(t *testing.T) {
	r, _, fs := setup(t, "blinky", "idle")
	require.NoError(t, afero.WriteFile(fs, "/ws/rtic/ci/expected/blinky.run", []byte("blinky\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/ws/rtic/ci/expected/idle.run", []byte("something else\n"), 0o644))

	res, err := r.Run(context.Background(), FamilyQemu, defaultRequest())
	require.NoError(t, err)

	assert.Equal(t, runbatch.ResultStatusSuccess, res[0].Status)
	assert.Equal(t, runbatch.ResultStatusMismatch, res[1].Status)
	require.ErrorIs(t, res[1].Error, baseline.ErrMismatch)
}

func TestTestAllPackagesInOrderWithoutEarlyExit(t *testing.T) {
	r, rec, _ := setup(t)
	rec.fail = []string{"--package rtic-common", "--package rtic-sync"}

	res, err := r.Run(context.Background(), FamilyTest, defaultRequest())
	require.NoError(t, err)
	require.Len(t, res, len(workspace.Packages()))

	want := []string{
		"test --package rtic --features=test-critical-section,thumbv7-backend,rtic-uitestv7 --test ui",
		"test --package rtic-common --features=testing",
		"test --package rtic-macros --features=cortex-m-basepri",
		"test --package rtic-monotonics",
		"test --package rtic-sync --features=testing",
		"test --package rtic-time --features=critical-section/std",
	}
	assert.Equal(t, want, rec.calls, "each package exactly once, in order")
	assert.Len(t, res.Failures(), 2)
}

func TestCheckAllPackagesUsesPerPackageFeatures(t *testing.T) {
	r, rec, _ := setup(t)

	req := defaultRequest()
	req.Backend = target.Thumbv6

	res, err := r.Run(context.Background(), FamilyCheck, req)
	require.NoError(t, err)
	require.Len(t, res, 6)

	for i, pkg := range workspace.Packages() {
		assert.Equal(t, pkg.String(), res[i].Label)
	}

	assert.Equal(t, []string{
		"check --package rtic --target thumbv6m-none-eabi --features=test-critical-section,thumbv6-backend --release",
	}, rec.matching("--package rtic "))
	assert.Equal(t, []string{
		"check --package rtic-macros --target thumbv6m-none-eabi --features=cortex-m-source-masking --release",
	}, rec.matching("--package rtic-macros"))
	assert.Equal(t, []string{
		"check --package rtic-time --target thumbv6m-none-eabi --release",
	}, rec.matching("--package rtic-time"))
}

func TestUnknownExampleFailsBeforeDispatch(t *testing.T) {
	r, rec, _ := setup(t, "blinky")

	req := defaultRequest()
	req.Examples = workspace.ExampleFilter{Include: "nope"}

	_, err := r.Run(context.Background(), FamilyExampleBuild, req)
	require.ErrorIs(t, err, workspace.ErrUnknownExample)
	assert.Empty(t, rec.calls)
}

func TestSizeForwardsArgs(t *testing.T) {
	r, rec, _ := setup(t, "blinky")

	req := defaultRequest()
	req.Args = operation.ExtraArguments{"-A"}

	res, err := r.Run(context.Background(), FamilySize, req)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, runbatch.ResultStatusSuccess, res[0].Status)

	sizes := rec.matching("size ")
	require.Len(t, sizes, 1)
	assert.True(t, strings.HasSuffix(sizes[0], "--release -- -A"), sizes[0])
}

func TestSingleUnitFamilies(t *testing.T) {
	tests := []struct {
		family Family
		req    func(*Request)
		want   string
	}{
		{FamilyFormat, func(r *Request) { r.CheckOnly = true }, "fmt --all -- --check"},
		{FamilyDoc, func(*Request) {}, "doc --package rtic --features=test-critical-section,thumbv7-backend"},
		{FamilyBook, func(*Request) {}, "build book/en"},
	}

	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			r, rec, _ := setup(t)
			req := defaultRequest()
			tt.req(&req)

			res, err := r.Run(context.Background(), tt.family, req)
			require.NoError(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, []string{tt.want}, rec.calls)
		})
	}
}

func TestPlanView(t *testing.T) {
	r, rec, _ := setup(t, "blinky", "idle")

	p, err := r.Plan(FamilyQemu, defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"blinky", "idle"}, p.Names())

	v := p.View(dispatch.DefaultLayout())
	require.Len(t, v.Units, 2)
	require.Len(t, v.Units[0].Steps, 2)
	assert.Equal(t, "cargo", v.Units[0].Steps[1].Program)
	assert.Equal(t, "run", v.Units[0].Steps[1].Args[0])
	assert.Empty(t, rec.calls, "planning never dispatches")
}

func TestParseFamily(t *testing.T) {
	for _, f := range Families() {
		got, err := ParseFamily(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFamily("deploy")
	require.ErrorIs(t, err, ErrUnknownFamily)

	r, _, _ := setup(t)
	_, err = r.Plan(Family("deploy"), defaultRequest())
	require.ErrorIs(t, err, ErrUnknownFamily)
}
