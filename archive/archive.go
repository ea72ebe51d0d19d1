// Package archive gives access to files packed inside zip archives, such as
// extension bundles.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding"
)

// headerSize is enough for filetype to recognize any supported container.
const headerSize = 262

// WalkFunc is called for every entry Walk visits. Name is the entry path,
// decoded when archive does not use UTF-8 for names. Returning error stops
// the walk.
type WalkFunc func(name string, file *zip.File) error

// Walk visits all regular files in the archive with names starting with
// prefix. Archives with absolute entry paths or ".." components are refused.
// When names is not nil entries not flagged as UTF-8 get their names decoded
// with it.
func Walk(archive, prefix string, names encoding.Encoding, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if names != nil && f.NonUTF8 {
			if n, err := names.NewDecoder().String(name); err == nil {
				name = n
			}
		}
		if strings.HasPrefix(name, prefix) {
			if err := walkFn(name, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile returns content of a single archive entry.
func ReadFile(archive, name string, names encoding.Encoding) ([]byte, error) {
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")

	var (
		data  []byte
		found bool
	)
	err := Walk(archive, name, names, func(entry string, f *zip.File) error {
		if entry != name {
			return nil
		}
		r, err := f.Open()
		if err != nil {
			return err
		}
		defer r.Close()

		if data, err = io.ReadAll(r); err != nil {
			return err
		}
		found = true
		return io.EOF
	})
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("unable to read %q from %q: %w", name, archive, err)
	}
	if !found {
		return nil, fmt.Errorf("%q not found in %q: %w", name, archive, os.ErrNotExist)
	}
	return data, nil
}

// IsArchive reports whether file has zip extension and zip content.
func IsArchive(fname string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(fname), ".zip") {
		return false, nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
