// Package archive measures tar stage artifacts so a stage that produced
// garbage is caught before the next stage spends time on it.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyArchive is returned when the archive contains no entries at all.
var ErrEmptyArchive = errors.New("archive has no entries")

// Info summarizes a tar archive's content.
type Info struct {
	Entries int
	Bytes   int64
}

// Measure reads the tar archive at path and returns its entry count and
// total content bytes. Truncated or non-tar input is an error, as is an
// archive with zero entries.
func Measure(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	tr := tar.NewReader(f)
	info := &Info{}

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar header: %w", err)
		}

		info.Entries++
		info.Bytes += header.Size
	}

	if info.Entries == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyArchive, path)
	}
	return info, nil
}
