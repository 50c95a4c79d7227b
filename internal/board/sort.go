package board

import (
	"slices"

	"github.com/idilsaglam/taskboard/internal/model"
)

// SortItems returns a copy of items ordered by creation date for mode.
// Equal dates keep their relative order. Empty input is returned as is.
func SortItems(items []model.Item, mode model.SortMode) []model.Item {
	out := slices.Clone(items)
	if len(out) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Item) int {
		c := a.CreationDate.Compare(b.CreationDate)
		if mode == model.NewestFirst {
			return -c
		}
		return c
	})
	return out
}

// Partition splits items into the pending and completed views.
func Partition(items []model.Item) (pending, completed []model.Item) {
	for _, it := range items {
		if it.Done() {
			completed = append(completed, it)
		} else {
			pending = append(pending, it)
		}
	}
	return
}
