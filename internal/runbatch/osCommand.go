// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/teereader"
)

const (
	maxBufferSize  = 8 * 1024 * 1024  // 8MB per stream
	tickerInterval = 30 * time.Second // between "still running" log lines
	lastLineMax    = 120              // longest tool output line quoted in them
)

var _ Runnable = (*OSCommand)(nil)

var (
	// ErrBufferOverflow is returned when a stream exceeds the capture limit. The captured prefix is kept.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when an output pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrFailedToCreatePipe is returned when an output pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrNonZeroExit is returned when the process exits with an unexpected code.
	ErrNonZeroExit = errors.New("process exited with non-zero status")
)

// OSCommand is a single external process. It always runs to completion;
// the outcome is a success or a tool failure.
type OSCommand struct {
	*BaseCommand
	Kind string            // operation family, copied to the result
	Path string            // executable, as a full path
	Args []string          // arguments, without the executable name
	Cwd  string            // working directory
	Env  map[string]string // added to the inherited environment
}

// GetKind returns the operation family of the command.
func (c *OSCommand) GetKind() string {
	return c.Kind
}

// Run implements the Runnable interface for OSCommand.
func (c *OSCommand) Run(ctx context.Context) *Result {
	logger := ctxlog.Logger(ctx).With("runnableType", "OSCommand", "label", c.GetLabel())

	res := &Result{
		Label:    c.GetLabel(),
		Kind:     c.Kind,
		Status:   ResultStatusToolFailed,
		ExitCode: -1,
	}

	p, err := c.start(logger)
	if err != nil {
		res.Error = err
		return res
	}

	began := time.Now()
	stopHeartbeat := heartbeat(logger, began, p.stderr)

	state, waitErr := p.ps.Wait()

	stopHeartbeat()

	stdout, stderr, readErr := p.collect()
	res.StdOut, res.StdErr = stdout, stderr

	if waitErr != nil {
		res.Error = waitErr
		return res
	}

	res.ExitCode = state.ExitCode()
	logger.Debug("process finished", "exitCode", res.ExitCode, "duration", time.Since(began).Round(time.Millisecond).String())

	c.classify(res)

	if readErr != nil {
		res.Status = ResultStatusToolFailed
		res.Error = errors.Join(res.Error, readErr)
	}

	return res
}

func (c *OSCommand) classify(res *Result) {
	if res.ExitCode == 0 {
		res.Status = ResultStatusSuccess
		return
	}

	res.Error = fmt.Errorf("%w: %s exited with code %d", ErrNonZeroExit, filepath.Base(c.Path), res.ExitCode)
}

// process is a started child with its output being drained.
type process struct {
	ps     *os.Process
	stderr *teereader.LastLineReader

	wg             sync.WaitGroup
	stdout, errout []byte
	outErr, errErr error
}

// start launches the process with both output streams drained concurrently,
// since a full pipe would block the child.
func (c *OSCommand) start(logger *slog.Logger) (*process, error) {
	logger.Debug("starting process", "path", c.Path, "cwd", c.Cwd, "args", c.Args)

	env := os.Environ()
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeAll(rOut, wOut)
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	ps, err := os.StartProcess(c.Path, append([]string{filepath.Base(c.Path)}, c.Args...), &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   env,
		Files: []*os.File{os.Stdin, wOut, wErr},
	})

	// the child has its own copies; ours must go for the readers to see EOF
	closeAll(wOut, wErr)

	if err != nil {
		closeAll(rOut, rErr)
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	logger.Debug("process started", "pid", ps.Pid)

	p := &process{ps: ps, stderr: teereader.New(rErr)}
	p.wg.Add(2)

	go func() {
		defer p.wg.Done()
		defer rOut.Close() //nolint:errcheck

		p.stdout, p.outErr = capture(rOut, maxBufferSize)
	}()

	go func() {
		defer p.wg.Done()
		defer rErr.Close() //nolint:errcheck

		p.errout, p.errErr = capture(p.stderr, maxBufferSize)
	}()

	return p, nil
}

// collect waits for both streams to reach EOF.
func (p *process) collect() ([]byte, []byte, error) {
	p.wg.Wait()
	return p.stdout, p.errout, errors.Join(p.outErr, p.errErr)
}

// heartbeat logs at Info level every tickerInterval until the returned func is called.
func heartbeat(logger *slog.Logger, began time.Time, progress *teereader.LastLineReader) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				logger.Info("process still running",
					"elapsed", time.Since(began).Round(time.Second).String(),
					"lastLine", progress.LastLine(lastLineMax))
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

// capture reads r to EOF, keeping at most limit bytes. The rest is discarded
// so the writer never blocks.
func capture(r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Join(ErrFailedToReadBuffer, err)
	}

	if n <= limit {
		return buf.Bytes(), nil
	}

	_, _ = io.Copy(io.Discard, r)

	return buf.Bytes()[:limit], ErrBufferOverflow
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
