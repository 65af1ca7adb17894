// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a reader that remembers the last line read through it,
// so a long-running tool can report what it is doing while its output is captured.
package teereader

import (
	"bytes"
	"io"
	"sync"
)

const ellipsis = "..."

// LastLineReader passes reads through and records the last non-empty line.
// Carriage returns end a line, so progress bars redrawn in place are tracked too.
// LastLine may be called concurrently with Read.
type LastLineReader struct {
	r io.Reader

	mu      sync.Mutex
	last    string
	partial []byte
}

// New wraps r.
func New(r io.Reader) *LastLineReader {
	return &LastLineReader{r: r}
}

// Read implements io.Reader.
func (l *LastLineReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	if n > 0 {
		l.record(p[:n])
	}

	return n, err //nolint:wrapcheck
}

func (l *LastLineReader) record(data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(data) > 0 {
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			l.partial = append(l.partial, data...)
			return
		}

		line := append(l.partial, data[:i]...)
		if len(bytes.TrimSpace(line)) > 0 {
			l.last = string(line)
		}

		l.partial = l.partial[:0]
		data = data[i+1:]
	}
}

// LastLine returns the last complete non-empty line, truncated to maxLength
// bytes when maxLength is positive.
func (l *LastLineReader) LastLine(maxLength int) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if maxLength > len(ellipsis) && len(l.last) > maxLength {
		return l.last[:maxLength-len(ellipsis)] + ellipsis
	}

	return l.last
}
