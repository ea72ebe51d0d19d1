// Package icons renders application icons: rounded square background with a
// single centered glyph on top, one PNG file per size.
package icons

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"

	"qstools/config"
)

// Style describes icon set.
type Style struct {
	Sizes         []int
	Glyph         string
	Background    color.NRGBA
	Foreground    color.NRGBA
	CornerDivisor int     // corner radius is size / CornerDivisor
	FontScale     float64 // font size as fraction of icon size
	VerticalNudge int     // pixels glyph is moved up after centering

	// Font files tried in order, relative names are looked up in FontDirs
	// as well.
	Fonts    []string
	FontDirs []string

	NameTemplate string
	Overwrite    bool
}

// StyleFromConfig converts configuration into icon set description.
func StyleFromConfig(cfg *config.IconsConfig) (*Style, error) {
	bg, err := parseColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("bad background color: %w", err)
	}
	fg, err := parseColor(cfg.Foreground)
	if err != nil {
		return nil, fmt.Errorf("bad foreground color: %w", err)
	}

	s := &Style{
		Sizes:         append([]int(nil), cfg.Sizes...),
		Glyph:         cfg.Glyph,
		Background:    bg,
		Foreground:    fg,
		CornerDivisor: cfg.CornerDivisor,
		FontScale:     cfg.FontScale,
		VerticalNudge: cfg.VerticalNudge,
		Fonts:         cfg.Fonts,
		FontDirs:      cfg.FontDirs,
		NameTemplate:  cfg.NameTemplate,
	}
	return s, s.Validate()
}

// Validate checks values which cannot be checked by configuration layer
// alone, subcommand flags may replace them.
func (s *Style) Validate() error {
	if len(s.Sizes) == 0 {
		return errors.New("no icon sizes requested")
	}
	for _, size := range s.Sizes {
		if size <= 0 {
			return fmt.Errorf("bad icon size %d", size)
		}
	}
	if utf8.RuneCountInString(s.Glyph) != 1 {
		return fmt.Errorf("glyph must be single character, got %q", s.Glyph)
	}
	if s.CornerDivisor <= 0 {
		return fmt.Errorf("bad corner divisor %d", s.CornerDivisor)
	}
	if s.FontScale <= 0 || s.FontScale > 1 {
		return fmt.Errorf("bad font scale %g", s.FontScale)
	}
	return nil
}

func (s *Style) rune() rune {
	r, _ := utf8.DecodeRuneInString(s.Glyph)
	return r
}

// parseColor accepts "#rgb", "#rgba", "#rrggbb" and "#rrggbbaa" forms, the
// same ones configuration validation lets through.
func parseColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("color %q is not in hex form", hex)
	}
	digits := hex[1:]
	if len(digits) == 3 || len(digits) == 4 {
		long := make([]byte, 0, 2*len(digits))
		for i := range len(digits) {
			long = append(long, digits[i], digits[i])
		}
		digits = string(long)
	}

	alpha := uint8(0xff)
	if len(digits) == 8 {
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q has bad alpha: %w", hex, err)
		}
		alpha, digits = uint8(a), digits[:6]
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
