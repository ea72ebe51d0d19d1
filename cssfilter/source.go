package cssfilter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"qstools/archive"
)

// Source is stylesheet location: either a plain file or an entry inside zip
// archive.
type Source struct {
	Path  string // file or archive
	Entry string // slash separated path inside archive, empty for plain file
}

func (s *Source) InArchive() bool {
	return len(s.Entry) > 0
}

// Name is stylesheet base name.
func (s *Source) Name() string {
	if s.InArchive() {
		return filepath.Base(filepath.FromSlash(s.Entry))
	}
	return filepath.Base(s.Path)
}

func (s *Source) String() string {
	if s.InArchive() {
		return filepath.Join(s.Path, filepath.FromSlash(s.Entry))
	}
	return s.Path
}

// ResolveSource finds out what src points to. Path is checked from its end:
// the longest existing prefix has to be either the file itself or a zip
// archive with the rest of the path being an entry in it.
func ResolveSource(ctx context.Context, src string) (*Source, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}
		if fi.Mode().IsDir() {
			if len(tail) == 0 {
				return nil, fmt.Errorf("source is a directory (%s)", head)
			}
			return nil, fmt.Errorf("input source was not found (%s) => (%s): %w", head, strings.TrimPrefix(src, head), os.ErrNotExist)
		}
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s)", head)
		}

		isArchive, err := archive.IsArchive(head)
		if err != nil {
			return nil, fmt.Errorf("unable to check archive type: %w", err)
		}
		if len(tail) == 0 {
			if isArchive {
				return nil, fmt.Errorf("stylesheet path inside archive was not specified (%s)", head)
			}
			return &Source{Path: head}, nil
		}
		if !isArchive {
			return nil, fmt.Errorf("input source was not found (%s) => (%s): %w", head, strings.TrimPrefix(src, head), os.ErrNotExist)
		}
		entry := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
		return &Source{Path: head, Entry: filepath.ToSlash(entry)}, nil
	}
	return nil, fmt.Errorf("input source was not found (%s): %w", src, os.ErrNotExist)
}

// Read returns stylesheet content converted to UTF-8 and encoding it was
// converted from. Without cp leading @charset rule is honored, nil encoding
// means content is returned as is.
func (s *Source) Read(cp encoding.Encoding) ([]byte, encoding.Encoding, error) {
	var (
		data []byte
		err  error
	)
	if s.InArchive() {
		data, err = archive.ReadFile(s.Path, s.Entry, cp)
	} else {
		data, err = os.ReadFile(s.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	if cp == nil {
		cp = declaredCharset(data)
	}
	if cp == nil {
		return data, nil, nil
	}
	if data, err = cp.NewDecoder().Bytes(data); err != nil {
		return nil, nil, fmt.Errorf("unable to decode stylesheet: %w", err)
	}
	return data, cp, nil
}

// declaredCharset returns encoding named by @charset rule, which is only
// valid at the very beginning of stylesheet. UTF-8 needs no conversion.
func declaredCharset(data []byte) encoding.Encoding {
	const rule = `@charset "`
	if !bytes.HasPrefix(data, []byte(rule)) {
		return nil
	}
	label := data[len(rule):]
	end := bytes.IndexByte(label, '"')
	if end <= 0 {
		return nil
	}
	enc, name := charset.Lookup(string(label[:end]))
	if enc == nil || name == "utf-8" {
		return nil
	}
	return enc
}

// Destination returns output path. Without explicit destination it is the
// stylesheet name with suffix added before extension, placed next to the
// source file or, for archive sources, into the working directory. Existing
// directory as destination gets the same name inside. Source file is never
// a valid destination.
func (s *Source) Destination(dst, suffix string) (string, error) {
	name := s.Name()
	ext := filepath.Ext(name)
	name = strings.TrimSuffix(name, ext) + suffix + ext

	switch {
	case len(dst) > 0:
		var err error
		if dst, err = filepath.Abs(dst); err != nil {
			return "", err
		}
		if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
			dst = filepath.Join(dst, name)
		}
	case s.InArchive():
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
		dst = filepath.Join(wd, name)
	default:
		dst = filepath.Join(filepath.Dir(s.Path), name)
	}

	if !s.InArchive() && dst == s.Path {
		return "", errors.New("destination is the same as source")
	}
	return dst, nil
}
