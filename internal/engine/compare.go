package engine

import "github.com/piwi3910/PageFit/internal/model"

// StrategyResult holds the layout and statistics one strategy produced.
type StrategyResult struct {
	Strategy   Strategy     `json:"strategy"`
	Layout     model.Layout `json:"layout"`
	Score      float64      `json:"score"`
	Pages      int          `json:"pages"`
	Efficiency float64      `json:"efficiency"`
	Rejected   int          `json:"rejected"`
}

func newStrategyResult(s Strategy, layout model.Layout, spec model.PageSpec) StrategyResult {
	return StrategyResult{
		Strategy:   s,
		Layout:     layout,
		Score:      Score(layout),
		Pages:      len(layout.Pages),
		Efficiency: layout.TotalEfficiency(spec),
		Rejected:   len(layout.Rejected),
	}
}

// CompareStrategies packs the images with every strategy of the catalog and
// returns the results in catalog order, so alternatives can be shown side by side.
func CompareStrategies(images []model.Image, catalog Catalog, spec model.PageSpec, oversize model.OversizePolicy) []StrategyResult {
	normalized := normalizeAll(images)
	results := make([]StrategyResult, 0, len(catalog))
	for _, s := range catalog {
		results = append(results, newStrategyResult(s, Pack(normalized, s, spec, oversize), spec))
	}
	return results
}

// BestResult returns the index of the lowest scoring result. Earlier results
// win ties. It returns -1 for an empty slice.
func BestResult(results []StrategyResult) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.Score < results[best].Score {
			best = i
		}
	}
	return best
}
