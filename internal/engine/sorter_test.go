package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/PageFit/internal/model"
)

func ids(images []model.Image) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.ID
	}
	return out
}

func TestSortImages(t *testing.T) {
	images := []model.Image{
		{ID: "a", Width: 10, Height: 2},     // area 20, max 10
		{ID: "b", Width: 4, Height: 12},     // area 48, max 12
		{ID: "c", Width: 10.005, Height: 5}, // area 50.025, max ~10
		{ID: "d", Width: 5, Height: 4},      // area 20, max 5
	}

	tests := []struct {
		rule SortRule
		want []string
	}{
		{AreaDesc, []string{"c", "b", "a", "d"}},
		{MaxSideDesc, []string{"b", "c", "a", "d"}},
		{WidthDesc, []string{"c", "a", "d", "b"}},
		{HeightDesc, []string{"b", "c", "d", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(sortImages(images, tt.rule)))
		})
	}
}

func TestSortImagesIsStable(t *testing.T) {
	images := []model.Image{
		{ID: "first", Width: 5, Height: 5},
		{ID: "second", Width: 5, Height: 5},
		{ID: "third", Width: 5, Height: 5},
	}
	for _, rule := range []SortRule{AreaDesc, MaxSideDesc, WidthDesc, HeightDesc} {
		assert.Equal(t, []string{"first", "second", "third"}, ids(sortImages(images, rule)), rule.String())
	}
}

func TestSortImagesLeavesInputUntouched(t *testing.T) {
	images := []model.Image{
		{ID: "small", Width: 1, Height: 1},
		{ID: "large", Width: 9, Height: 9},
	}
	_ = sortImages(images, AreaDesc)
	assert.Equal(t, []string{"small", "large"}, ids(images))
}

func TestSortedOrderIndices(t *testing.T) {
	images := []model.Image{
		{ID: "a", Width: 1, Height: 1},
		{ID: "b", Width: 3, Height: 3},
		{ID: "c", Width: 2, Height: 2},
	}
	assert.Equal(t, []int{1, 2, 0}, sortedOrder(images, AreaDesc))
}
