package images

import (
	"image"
	"image/color"
)

// DistinctColors returns number of different colors among pixels with alpha
// not less than minAlpha. Colors are compared non-premultiplied.
// NOTE: This function may be slow for large images.
func DistinctColors(img image.Image, minAlpha uint8) int {
	seen := make(map[color.NRGBA]struct{})

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < minAlpha {
				continue
			}
			seen[c] = struct{}{}
		}
	}
	return len(seen)
}

// IsTransparentAt reports whether pixel is fully transparent.
func IsTransparentAt(img image.Image, x, y int) bool {
	_, _, _, a := img.At(x, y).RGBA()
	return a == 0
}
