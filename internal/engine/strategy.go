package engine

import (
	"fmt"
	"strings"

	"github.com/piwi3910/PageFit/internal/model"
)

// Heuristic ranks candidate free rectangles for a placement.
type Heuristic int

const (
	TopLeft Heuristic = iota
	TopRight
	BestShortSideFit
	BestAreaFit
)

var heuristicNames = map[Heuristic]string{
	TopLeft:          "TOP_LEFT",
	TopRight:         "TOP_RIGHT",
	BestShortSideFit: "BEST_SHORT_SIDE_FIT",
	BestAreaFit:      "BEST_AREA_FIT",
}

func (h Heuristic) String() string {
	if name, ok := heuristicNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Heuristic(%d)", int(h))
}

// ParseHeuristic accepts the upper-case name, case-insensitively.
func ParseHeuristic(s string) (Heuristic, error) {
	for h, name := range heuristicNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown heuristic %q", s)
}

// SortRule orders the images before packing.
type SortRule int

const (
	AreaDesc SortRule = iota
	MaxSideDesc
	WidthDesc
	HeightDesc
)

var sortRuleNames = map[SortRule]string{
	AreaDesc:    "AREA_DESC",
	MaxSideDesc: "MAX_SIDE_DESC",
	WidthDesc:   "WIDTH_DESC",
	HeightDesc:  "HEIGHT_DESC",
}

func (r SortRule) String() string {
	if name, ok := sortRuleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("SortRule(%d)", int(r))
}

// ParseSortRule accepts the upper-case name, case-insensitively.
func ParseSortRule(s string) (SortRule, error) {
	for r, name := range sortRuleNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown sort rule %q", s)
}

// Strategy pairs a sort rule with a placement heuristic.
type Strategy struct {
	Sort      SortRule  `json:"sort"`
	Heuristic Heuristic `json:"heuristic"`
}

// String renders the strategy as "SORT/HEURISTIC".
func (s Strategy) String() string {
	return s.Sort.String() + "/" + s.Heuristic.String()
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	sortName, heuristicName, ok := strings.Cut(s, "/")
	if !ok {
		return Strategy{}, fmt.Errorf("strategy %q: expected SORT/HEURISTIC", s)
	}
	rule, err := ParseSortRule(sortName)
	if err != nil {
		return Strategy{}, fmt.Errorf("strategy %q: %w", s, err)
	}
	h, err := ParseHeuristic(heuristicName)
	if err != nil {
		return Strategy{}, fmt.Errorf("strategy %q: %w", s, err)
	}
	return Strategy{Sort: rule, Heuristic: h}, nil
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	parsed, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Catalog is the ordered list of strategies a search evaluates.
// Earlier entries win ties.
type Catalog []Strategy

// DefaultCatalog returns the ten standard strategies.
func DefaultCatalog() Catalog {
	return Catalog{
		{MaxSideDesc, TopLeft},
		{MaxSideDesc, TopRight},
		{MaxSideDesc, BestShortSideFit},
		{AreaDesc, TopLeft},
		{AreaDesc, TopRight},
		{AreaDesc, BestShortSideFit},
		{HeightDesc, TopLeft},
		{HeightDesc, TopRight},
		{WidthDesc, TopLeft},
		{WidthDesc, TopRight},
	}
}

// ExtendedCatalog is the default catalog plus best-area-fit for the two
// size-based sort rules.
func ExtendedCatalog() Catalog {
	return append(DefaultCatalog(),
		Strategy{MaxSideDesc, BestAreaFit},
		Strategy{AreaDesc, BestAreaFit},
	)
}

// CatalogFor resolves a configured strategy set name.
func CatalogFor(set string) (Catalog, error) {
	switch set {
	case "", model.StrategySetDefault:
		return DefaultCatalog(), nil
	case model.StrategySetExtended:
		return ExtendedCatalog(), nil
	default:
		return nil, fmt.Errorf("unknown strategy set %q", set)
	}
}

// Names lists the catalog entries as strings.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.String()
	}
	return names
}
