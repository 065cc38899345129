package export

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PageFit/internal/model"
)

// ManifestEntry describes one placed image inside a page manifest.
type ManifestEntry struct {
	ID      string  `json:"id"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"w"`
	Height  float64 `json:"h"`
	Rotated bool    `json:"r,omitempty"`
}

// PageManifest is the machine-readable description of one printed page.
type PageManifest struct {
	Page   int             `json:"page"`
	Images []ManifestEntry `json:"images"`
}

// NewPageManifest collects the placements of a page.
func NewPageManifest(page model.Page) PageManifest {
	m := PageManifest{Page: page.Index, Images: make([]ManifestEntry, 0, len(page.Images))}
	for _, img := range page.Images {
		m.Images = append(m.Images, ManifestEntry{
			ID:      img.ID,
			Label:   img.Label,
			X:       img.X,
			Y:       img.Y,
			Width:   img.DisplayWidth,
			Height:  img.DisplayHeight,
			Rotated: img.Rotated,
		})
	}
	return m
}

// CollectManifests returns one manifest per page in layout order.
func CollectManifests(layout model.Layout) []PageManifest {
	out := make([]PageManifest, 0, len(layout.Pages))
	for _, p := range layout.Pages {
		out = append(out, NewPageManifest(p))
	}
	return out
}

// ManifestQR encodes the manifest as a PNG QR code. When the full manifest
// exceeds QR capacity, labels are dropped, then only ids are kept.
func ManifestQR(m PageManifest) ([]byte, error) {
	var lastErr error
	for _, variant := range []PageManifest{m, m.withoutLabels(), m.idsOnly()} {
		data, err := json.Marshal(variant)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal manifest: %w", err)
		}
		png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
		if err == nil {
			return png, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to generate QR code: %w", lastErr)
}

func (m PageManifest) withoutLabels() PageManifest {
	out := PageManifest{Page: m.Page, Images: make([]ManifestEntry, len(m.Images))}
	for i, e := range m.Images {
		e.Label = ""
		out.Images[i] = e
	}
	return out
}

func (m PageManifest) idsOnly() PageManifest {
	out := PageManifest{Page: m.Page, Images: make([]ManifestEntry, len(m.Images))}
	for i, e := range m.Images {
		out.Images[i] = ManifestEntry{ID: e.ID}
	}
	return out
}
