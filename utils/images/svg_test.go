package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestRasterizeSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"intrinsic", 0, 0, 100, 50},
		{"scale_by_width", 200, 0, 200, 100},
		{"scale_by_height", 0, 200, 400, 200},
		{"fit_box", 150, 150, 150, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := RasterizeSVG(svg, tt.w, tt.h, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Fatalf("unexpected bounds: %v", img.Bounds())
			}
		})
	}

	for _, bad := range []string{"not svg", "", `<html><body/></html>`, `<svg width="10"`} {
		t.Run("invalid "+bad, func(t *testing.T) {
			if _, err := RasterizeSVG([]byte(bad), 10, 10, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRasterizeSVG_Background(t *testing.T) {
	// circle leaves corners uncovered
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64"><circle cx="32" cy="32" r="16" fill="#ff0000"/></svg>`)

	img, err := RasterizeSVG(svg, 64, 64, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !IsTransparentAt(img, 0, 0) {
		t.Errorf("corner must stay transparent, got %v", img.At(0, 0))
	}
	if c := color.NRGBAModel.Convert(img.At(32, 32)).(color.NRGBA); c.R != 255 || c.A != 255 {
		t.Errorf("center = %v, want opaque red", c)
	}

	img, err = RasterizeSVG(svg, 64, 64, color.White)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if IsTransparentAt(img, 0, 0) {
		t.Error("corner must be filled with background")
	}
}

func TestRasterizeSVG_Clamped(t *testing.T) {
	old := maxRasterDim
	maxRasterDim = 64
	defer func() { maxRasterDim = old }()

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1000 500"></svg>`)
	img, err := RasterizeSVG(svg, 0, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("unexpected bounds: %v", img.Bounds())
	}
}

func TestEncodePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 50, G: 205, B: 50, A: 255})

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v", decoded.Bounds())
	}
	if !IsTransparentAt(decoded, 0, 0) {
		t.Error("transparency lost")
	}
}

func TestDistinctColors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	// pixel 2 left transparent

	if got := DistinctColors(img, 255); got != 2 {
		t.Errorf("DistinctColors(opaque) = %d, want 2", got)
	}
	if got := DistinctColors(img, 0); got != 3 {
		t.Errorf("DistinctColors(all) = %d, want 3", got)
	}
}
