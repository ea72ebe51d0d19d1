// Package images has small raster helpers shared by image producing
// subcommands.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGSize is used when SVG viewBox has no size.
const defaultSVGSize = 1024

// maxRasterDim limits pixel dimensions of rasterized SVG, enormous viewBox
// values would otherwise allocate gigabytes for the RGBA buffer.
var maxRasterDim = 8192

// RasterizeSVG renders SVG into RGBA image.
//
// Rules:
//   - if w == 0 && h == 0: use SVG viewBox dimensions (fallback to defaultSVGSize)
//   - if only one of w/h is > 0: scale by that dimension keeping aspect ratio
//   - if both w and h are > 0: fit into that box keeping aspect ratio
//   - canvas is filled with bg first, nil bg leaves it transparent
func RasterizeSVG(svgData []byte, w, h int, bg color.Color) (*image.RGBA, error) {
	if err := checkSVGRoot(svgData); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}

	w, h = fitSize(icon.ViewBox.W, icon.ViewBox.H, w, h)
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

// checkSVGRoot makes sure data is an XML document with svg root element,
// oksvg silently accepts anything else as an empty icon.
func checkSVGRoot(data []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("unable to parse svg: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return errors.New("not an svg document: no root element")
	}
	if root.Tag != "svg" {
		return fmt.Errorf("not an svg document: root element is <%s>", root.Tag)
	}
	return nil
}

func fitSize(vbW, vbH float64, targetW, targetH int) (int, int) {
	intrW, intrH := int(math.Ceil(vbW)), int(math.Ceil(vbH))
	if intrW <= 0 {
		intrW = defaultSVGSize
	}
	if intrH <= 0 {
		intrH = defaultSVGSize
	}

	w, h := intrW, intrH
	switch {
	case targetW <= 0 && targetH <= 0:
		// intrinsic size
	case targetH <= 0:
		w = targetW
		h = int(math.Round(float64(w) * float64(intrH) / float64(intrW)))
	case targetW <= 0:
		h = targetH
		w = int(math.Round(float64(h) * float64(intrW) / float64(intrH)))
	default:
		scale := math.Min(float64(targetW)/float64(intrW), float64(targetH)/float64(intrH))
		w = int(math.Round(float64(intrW) * scale))
		h = int(math.Round(float64(intrH) * scale))
	}
	w, h = max(w, 1), max(h, 1)

	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}
	return w, h
}

// EncodePNG writes image with best compression, transparency is preserved.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}
