package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/PageFit/internal/model"
)

// maxSideTolerance is the difference below which two max sides count as equal.
const maxSideTolerance = 0.01

// sortImages returns a stably sorted copy of images. The input is not touched.
func sortImages(images []model.Image, rule SortRule) []model.Image {
	order := sortedOrder(images, rule)
	sorted := make([]model.Image, len(order))
	for i, idx := range order {
		sorted[i] = images[idx]
	}
	return sorted
}

// sortedOrder returns the indices of images in the order rule puts them.
func sortedOrder(images []model.Image, rule SortRule) []int {
	order := make([]int, len(images))
	for i := range order {
		order[i] = i
	}
	less := ruleLess(rule)
	sort.SliceStable(order, func(i, j int) bool {
		return less(images[order[i]], images[order[j]])
	})
	return order
}

func ruleLess(rule SortRule) func(a, b model.Image) bool {
	area := func(img model.Image) float64 { return img.Width * img.Height }

	switch rule {
	case MaxSideDesc:
		return func(a, b model.Image) bool {
			sa := math.Max(a.Width, a.Height)
			sb := math.Max(b.Width, b.Height)
			if math.Abs(sa-sb) > maxSideTolerance {
				return sa > sb
			}
			return area(a) > area(b)
		}
	case WidthDesc:
		return func(a, b model.Image) bool { return a.Width > b.Width }
	case HeightDesc:
		return func(a, b model.Image) bool { return a.Height > b.Height }
	default:
		return func(a, b model.Image) bool { return area(a) > area(b) }
	}
}
