package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// loadPicture reads a picture file and returns bytes the PDF writer accepts
// together with their fpdf image type. JPEG and GIF pass through, 8-bit PNG
// too; everything else is decoded and re-encoded as 8-bit PNG.
func loadPicture(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	switch format {
	case "jpeg":
		return data, "JPG", nil
	case "gif":
		return data, "GIF", nil
	case "png":
		if !wideColor(cfg.ColorModel) {
			return data, "PNG", nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	out, err := encodePNG(img)
	if err != nil {
		return nil, "", err
	}
	return out, "PNG", nil
}

// wideColor reports 16-bit models, which the PDF writer rejects.
func wideColor(m color.Model) bool {
	return m == color.RGBA64Model || m == color.NRGBA64Model || m == color.Gray16Model
}

func encodePNG(img image.Image) ([]byte, error) {
	rgba := image.NewNRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// AspectRatio returns width / height of a picture file, used to size images
// added without explicit dimensions.
func AspectRatio(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, fmt.Errorf("%s has no pixels", filepath.Base(path))
	}
	return float64(cfg.Width) / float64(cfg.Height), nil
}

// IsPicture reports whether the extension names a supported picture format.
func IsPicture(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}
