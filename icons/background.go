package icons

import (
	"bytes"
	"fmt"
	"image"
	"strconv"

	"github.com/beevik/etree"

	"qstools/utils/images"
)

// backgroundSVG describes rounded square covering whole size x size canvas.
func (s *Style) backgroundSVG(size int) ([]byte, error) {
	doc := etree.NewDocument()

	svg := doc.CreateElement("svg")
	svg.CreateAttr("version", "1.1")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", strconv.Itoa(size))
	svg.CreateAttr("height", strconv.Itoa(size))
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", size, size))

	radius := strconv.Itoa(size / s.CornerDivisor)
	rect := svg.CreateElement("rect")
	rect.CreateAttr("x", "0")
	rect.CreateAttr("y", "0")
	rect.CreateAttr("width", strconv.Itoa(size))
	rect.CreateAttr("height", strconv.Itoa(size))
	rect.CreateAttr("rx", radius)
	rect.CreateAttr("ry", radius)
	rect.CreateAttr("fill", hexColor(s.Background))
	if s.Background.A != 0xff {
		rect.CreateAttr("fill-opacity", strconv.FormatFloat(float64(s.Background.A)/0xff, 'f', 3, 64))
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// background returns transparent canvas with background shape drawn.
func (s *Style) background(size int) (*image.RGBA, error) {
	data, err := s.backgroundSVG(size)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare background: %w", err)
	}
	img, err := images.RasterizeSVG(data, size, size, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize background: %w", err)
	}
	return img, nil
}
