package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PageFit/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	assert.Equal(t, []string{
		"MAX_SIDE_DESC/TOP_LEFT",
		"MAX_SIDE_DESC/TOP_RIGHT",
		"MAX_SIDE_DESC/BEST_SHORT_SIDE_FIT",
		"AREA_DESC/TOP_LEFT",
		"AREA_DESC/TOP_RIGHT",
		"AREA_DESC/BEST_SHORT_SIDE_FIT",
		"HEIGHT_DESC/TOP_LEFT",
		"HEIGHT_DESC/TOP_RIGHT",
		"WIDTH_DESC/TOP_LEFT",
		"WIDTH_DESC/TOP_RIGHT",
	}, DefaultCatalog().Names())
}

func TestExtendedCatalog(t *testing.T) {
	ext := ExtendedCatalog()
	require.Len(t, ext, 12)
	assert.Equal(t, DefaultCatalog(), ext[:10])
	assert.Equal(t, Strategy{MaxSideDesc, BestAreaFit}, ext[10])
	assert.Equal(t, Strategy{AreaDesc, BestAreaFit}, ext[11])
}

func TestCatalogFor(t *testing.T) {
	c, err := CatalogFor("")
	require.NoError(t, err)
	assert.Len(t, c, 10)

	c, err = CatalogFor(model.StrategySetExtended)
	require.NoError(t, err)
	assert.Len(t, c, 12)

	_, err = CatalogFor("bogus")
	assert.Error(t, err)
}

func TestParseStrategyRoundTrip(t *testing.T) {
	for _, s := range ExtendedCatalog() {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := ParseStrategy("area_desc/best_area_fit")
	require.NoError(t, err)
	assert.Equal(t, Strategy{AreaDesc, BestAreaFit}, parsed)
}

func TestParseStrategyErrors(t *testing.T) {
	for _, in := range []string{"", "AREA_DESC", "NOPE/TOP_LEFT", "AREA_DESC/NOPE"} {
		_, err := ParseStrategy(in)
		assert.Error(t, err, in)
	}
}

func TestStrategyJSON(t *testing.T) {
	data, err := json.Marshal(Strategy{HeightDesc, TopRight})
	require.NoError(t, err)
	assert.Equal(t, `"HEIGHT_DESC/TOP_RIGHT"`, string(data))

	var s Strategy
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, Strategy{HeightDesc, TopRight}, s)

	assert.Error(t, json.Unmarshal([]byte(`"bad"`), &s))
}

func TestUnknownEnumStrings(t *testing.T) {
	assert.Equal(t, "Heuristic(9)", Heuristic(9).String())
	assert.Equal(t, "SortRule(9)", SortRule(9).String())
}
