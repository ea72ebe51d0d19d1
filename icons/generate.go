package icons

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qstools/config"
	"qstools/utils/files"
	"qstools/utils/images"
)

// Values is available for file name template expansion.
type Values struct {
	Size  int
	Glyph string
}

// Icon is a single produced file.
type Icon struct {
	Rendering
	Path string
}

// Generate renders all sizes concurrently and writes PNG files into dir.
// Failure of one icon does not prevent others from being written, all errors
// are returned combined. Produced icons are reported in requested order.
func Generate(ctx context.Context, style *Style, dir string, log *zap.Logger) ([]Icon, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	tmpl, err := template.New(config.NameTemplateFieldName).Funcs(sprig.FuncMap()).Parse(style.NameTemplate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template field %s: %w", config.NameTemplateFieldName, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	names := make([]string, len(style.Sizes))
	seen := make(map[string]int, len(style.Sizes))
	for i, size := range style.Sizes {
		if names[i], err = fileName(tmpl, Values{Size: size, Glyph: style.Glyph}); err != nil {
			return nil, fmt.Errorf("icon %dpx: %w", size, err)
		}
		if prev, ok := seen[names[i]]; ok {
			return nil, fmt.Errorf("icons %dpx and %dpx would be written to the same file %q", style.Sizes[prev], size, names[i])
		}
		seen[names[i]] = i
	}

	var (
		results = make([]*Icon, len(style.Sizes))
		errs    = make([]error, len(style.Sizes))
		g       errgroup.Group
	)
	g.SetLimit(runtime.NumCPU())

	for i, size := range style.Sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = style.generate(size, filepath.Join(dir, names[i]), log)
			return nil
		})
	}
	_ = g.Wait()

	icons := make([]Icon, 0, len(results))
	for _, r := range results {
		if r != nil {
			icons = append(icons, *r)
		}
	}
	return icons, multierr.Combine(errs...)
}

func (s *Style) generate(size int, path string, log *zap.Logger) (*Icon, error) {
	img, r, err := s.Render(size, log)
	if err != nil {
		return nil, fmt.Errorf("icon %dpx: %w", size, err)
	}

	var buf bytes.Buffer
	if err := images.EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("icon %dpx: unable to encode: %w", size, err)
	}
	if err := files.WriteFile(path, buf.Bytes(), s.Overwrite, log); err != nil {
		return nil, fmt.Errorf("icon %dpx: %w", size, err)
	}
	return &Icon{Rendering: r, Path: path}, nil
}

// fileName expands name template, result is always a single path element.
func fileName(tmpl *template.Template, v Values) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("unable to expand file name: %w", err)
	}
	return config.SafeFileName(strings.TrimSpace(buf.String()), fmt.Sprintf("icon%d.png", v.Size)), nil
}
