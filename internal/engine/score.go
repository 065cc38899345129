package engine

import "github.com/piwi3910/PageFit/internal/model"

// pageWeight makes one extra page outweigh any possible height saving.
const pageWeight = 10000

// Score rates a layout, lower is more compact: pages dominate, then the
// summed height used on every page.
func Score(layout model.Layout) float64 {
	if len(layout.Pages) == 0 {
		return 0
	}
	total := float64(len(layout.Pages)) * pageWeight
	for _, p := range layout.Pages {
		total += p.MaxBottom()
	}
	return total
}

func normalizeAll(images []model.Image) []model.Image {
	out := make([]model.Image, len(images))
	for i, img := range images {
		out[i] = model.Normalize(img)
	}
	return out
}
