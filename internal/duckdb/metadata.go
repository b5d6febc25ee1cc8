package duckdb

import (
	"os"
	"time"

	"github.com/inodb/gffanno/internal/gffio"
)

// FileFingerprint holds stat-based identity for an input file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
// Stdin gets a fingerprint with only its path set.
func StatFile(path string) (FileFingerprint, error) {
	if path == gffio.Stdio {
		return FileFingerprint{Path: path}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// nullable returns the size and mtime, or nils when the input was not a file.
func (fp FileFingerprint) nullable() (size, mtime any) {
	if fp.ModTime.IsZero() {
		return nil, nil
	}
	return fp.Size, fp.ModTime
}
