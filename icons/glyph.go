package icons

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// placement returns dot which centers glyph ink on size x size canvas moved
// up by nudge pixels.
func placement(face font.Face, glyph string, size, nudge int) (fixed.Point26_6, error) {
	bounds, _ := font.BoundString(face, glyph)
	if bounds.Empty() {
		return fixed.Point26_6{}, errors.New("glyph has no ink")
	}
	w, h := bounds.Max.X-bounds.Min.X, bounds.Max.Y-bounds.Min.Y
	return fixed.Point26_6{
		X: (fixed.I(size)-w)/2 - bounds.Min.X,
		Y: (fixed.I(size)-h)/2 - bounds.Min.Y - fixed.I(nudge),
	}, nil
}

// drawGlyph renders glyph centered, any failure switches to fixed offset
// placement with built-in face. Returns false when fallback was used.
func (s *Style) drawGlyph(dst draw.Image, face font.Face, size int, log *zap.Logger) (centered bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Glyph rendering failed, using fallback placement", zap.Int("size", size), zap.Any("panic", r))
			centered = false
		}
		if !centered {
			s.drawFallback(dst, size)
		}
	}()

	dot, err := placement(face, s.Glyph, size, s.VerticalNudge)
	if err != nil {
		log.Warn("Unable to measure glyph, using fallback placement", zap.Int("size", size), zap.Error(err))
		return false
	}
	s.drawer(dst, face, dot).DrawString(s.Glyph)
	return true
}

// drawFallback puts top left corner of the glyph cell at size/4, size/4.
func (s *Style) drawFallback(dst draw.Image, size int) {
	face := basicfont.Face7x13
	dot := fixed.P(size/4, size/4+face.Ascent)
	s.drawer(dst, face, dot).DrawString(s.Glyph)
}

func (s *Style) drawer(dst draw.Image, face font.Face, dot fixed.Point26_6) *font.Drawer {
	return &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(s.Foreground),
		Face: face,
		Dot:  dot,
	}
}

// Rendering tells how icon was produced.
type Rendering struct {
	Size     int
	Font     string
	Centered bool
}

// Render draws single icon of requested size.
func (s *Style) Render(size int, log *zap.Logger) (*image.RGBA, Rendering, error) {
	canvas, err := s.background(size)
	if err != nil {
		return nil, Rendering{}, err
	}

	fontSize := s.FontScale * float64(size)
	face, name := selectFace(s.fontChain(), fontSize, s.rune(), log)
	defer face.Close()

	r := Rendering{Size: size, Font: name}
	r.Centered = s.drawGlyph(canvas, face, size, log)
	if !r.Centered {
		r.Font = builtinFont
	}
	log.Debug("Icon rendered", zap.Int("size", size), zap.String("font", r.Font), zap.Bool("centered", r.Centered))
	return canvas, r, nil
}

func (r Rendering) String() string {
	return fmt.Sprintf("%dpx %s", r.Size, r.Font)
}
