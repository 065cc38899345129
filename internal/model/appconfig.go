package model

// OversizePolicy decides what happens to an image that fits on no empty page.
type OversizePolicy string

const (
	OversizeForce  OversizePolicy = "force"  // Place at the page origin, possibly overflowing
	OversizeReject OversizePolicy = "reject" // Leave it out and report it
)

// Algorithm selects how the layout search runs.
type Algorithm string

const (
	AlgorithmCatalog Algorithm = "catalog" // Best of the fixed strategy catalog
	AlgorithmGenetic Algorithm = "genetic" // Catalog result refined by a genetic search over image order
)

// Strategy sets understood by the engine.
const (
	StrategySetDefault  = "default"
	StrategySetExtended = "extended"
)

// AppConfig holds application-wide preferences.
type AppConfig struct {
	// Layout defaults
	DefaultImageWidth float64        `json:"default_image_width"` // cm, used when only an aspect ratio is known
	OversizePolicy    OversizePolicy `json:"oversize_policy"`
	Algorithm         Algorithm      `json:"algorithm"`
	StrategySet       string         `json:"strategy_set"` // "default" or "extended"
	Workers           int            `json:"workers"`      // Parallel strategy evaluations, 1 = sequential

	// Export preferences
	EmbedManifestQR bool `json:"embed_manifest_qr"`
	DrawPrintArea   bool `json:"draw_print_area"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
	ListenAddr     string   `json:"listen_addr"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultImageWidth: 8.0,
		OversizePolicy:    OversizeForce,
		Algorithm:         AlgorithmCatalog,
		StrategySet:       StrategySetDefault,
		Workers:           1,
		EmbedManifestQR:   false,
		DrawPrintArea:     false,
		RecentProjects:    []string{},
		Theme:             "system",
		ListenAddr:        ":8080",
	}
}

// SizeFromAspect derives a printable size from an aspect ratio (width / height),
// starting at the default width and shrinking to fit the print width.
func (c AppConfig) SizeFromAspect(aspect float64, spec PageSpec) (w, h float64) {
	if aspect <= 0 {
		return 0, 0
	}
	w = c.DefaultImageWidth
	if w <= 0 {
		w = DefaultAppConfig().DefaultImageWidth
	}
	if pw := spec.PrintWidth(); w > pw {
		w = pw
	}
	return RoundDim(w), RoundDim(w / aspect)
}
