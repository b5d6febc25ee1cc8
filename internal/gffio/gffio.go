// Package gffio opens annotation inputs and outputs, handling compression
// transparently.
package gffio

import (
	"fmt"
	"io"

	"github.com/shenwei356/xopen"
)

// Stdio is the path that selects stdin or stdout.
const Stdio = "-"

// Open opens path for reading. Gzip (and other formats xopen recognises) is
// detected from the content, not the file name. Use "-" for stdin.
func Open(path string) (io.ReadCloser, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return r, nil
}

// Create opens path for writing, compressing when the name ends in ".gz".
// Use "-" or "" for stdout. Close must be called to flush buffered output.
func Create(path string) (io.WriteCloser, error) {
	if path == "" {
		path = Stdio
	}
	w, err := xopen.Wopen(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return w, nil
}
