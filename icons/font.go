package icons

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// builtinFont is the name reported when the bitmap face is used.
const builtinFont = "basicfont 7x13"

// fontSource is a single font acquisition attempt.
type fontSource struct {
	name string
	load func(size float64) (font.Face, error)
}

// fontChain lists attempts in order: configured files, embedded Go font,
// built-in bitmap face. The last one never fails.
func (s *Style) fontChain() []fontSource {
	var chain []fontSource
	for _, fname := range s.fontFiles() {
		chain = append(chain, fontSource{
			name: fname,
			load: func(size float64) (font.Face, error) {
				data, err := os.ReadFile(fname)
				if err != nil {
					return nil, err
				}
				return parseFace(data, size)
			},
		})
	}
	chain = append(chain,
		fontSource{
			name: "Go Regular",
			load: func(size float64) (font.Face, error) {
				return parseFace(goregular.TTF, size)
			},
		},
		fontSource{
			name: builtinFont,
			load: func(float64) (font.Face, error) {
				return basicfont.Face7x13, nil
			},
		},
	)
	return chain
}

// fontFiles expands configured names into candidate paths.
func (s *Style) fontFiles() []string {
	var files []string
	for _, name := range s.Fonts {
		files = append(files, name)
		if filepath.IsAbs(name) {
			continue
		}
		for _, dir := range s.FontDirs {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files
}

func parseFace(data []byte, size float64) (font.Face, error) {
	var (
		f   *opentype.Font
		err error
	)
	if isCollection(data) {
		var coll *opentype.Collection
		if coll, err = opentype.ParseCollection(data); err != nil {
			return nil, err
		}
		f, err = coll.Font(0)
	} else {
		f, err = opentype.Parse(data)
	}
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func isCollection(data []byte) bool {
	return strings.HasPrefix(string(data[:min(len(data), 4)]), "ttcf")
}

// selectFace walks the chain and returns first face able to render glyph.
// Failures are only logged.
func selectFace(chain []fontSource, size float64, glyph rune, log *zap.Logger) (font.Face, string) {
	for _, src := range chain {
		face, err := tryLoad(src, size)
		if err != nil {
			log.Debug("Font unavailable", zap.String("font", src.name), zap.Error(err))
			continue
		}
		if _, ok := face.GlyphAdvance(glyph); !ok {
			log.Debug("Font has no glyph", zap.String("font", src.name), zap.String("glyph", string(glyph)))
			face.Close()
			continue
		}
		return face, src.name
	}
	// even bitmap face has no such glyph, it will draw replacement box
	return basicfont.Face7x13, builtinFont
}

func tryLoad(src fontSource, size float64) (face font.Face, err error) {
	defer func() {
		if r := recover(); r != nil {
			face, err = nil, fmt.Errorf("font loading panic: %v", r)
		}
	}()
	return src.load(size)
}
