package board

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/taskboard/internal/model"
)

func randomItems(r *rand.Rand, n int) []model.Item {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	perm := r.Perm(n)
	items := make([]model.Item, n)
	for i := range items {
		st := model.StatusPending
		if r.Intn(2) == 0 {
			st = model.StatusCompleted
		}
		items[i] = model.Item{
			ID:           i + 1,
			Status:       st,
			CreationDate: base.Add(time.Duration(perm[i]) * time.Minute),
		}
	}
	return items
}

func TestSortItemsOrdering(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for round := 0; round < 50; round++ {
		items := randomItems(r, 1+r.Intn(20))

		asc := SortItems(items, model.OldestFirst)
		desc := SortItems(items, model.NewestFirst)

		assert.Len(t, asc, len(items))
		assert.Len(t, desc, len(items))
		for i := 1; i < len(asc); i++ {
			assert.False(t, asc[i].CreationDate.Before(asc[i-1].CreationDate))
			assert.False(t, desc[i].CreationDate.After(desc[i-1].CreationDate))
		}
	}
}

func TestSortItemsEmpty(t *testing.T) {
	assert.Empty(t, SortItems(nil, model.NewestFirst))
	assert.Empty(t, SortItems([]model.Item{}, model.OldestFirst))
}

func TestSortItemsStableOnEqualDates(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []model.Item{
		{ID: 3, CreationDate: at},
		{ID: 1, CreationDate: at},
		{ID: 2, CreationDate: at},
	}
	for _, mode := range []model.SortMode{model.OldestFirst, model.NewestFirst} {
		got := SortItems(items, mode)
		assert.Equal(t, []int{3, 1, 2}, []int{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestSortItemsDoesNotMutateInput(t *testing.T) {
	items := []model.Item{
		{ID: 2, CreationDate: time.Unix(20, 0)},
		{ID: 1, CreationDate: time.Unix(10, 0)},
	}
	_ = SortItems(items, model.OldestFirst)
	assert.Equal(t, 2, items[0].ID)
}

func TestPartitionIsExact(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	items := randomItems(r, 40)

	pending, completed := Partition(items)

	assert.Equal(t, len(items), len(pending)+len(completed))
	seen := map[int]int{}
	for _, it := range pending {
		assert.Equal(t, model.StatusPending, it.Status)
		seen[it.ID]++
	}
	for _, it := range completed {
		assert.Equal(t, model.StatusCompleted, it.Status)
		seen[it.ID]++
	}
	for _, it := range items {
		assert.Equal(t, 1, seen[it.ID], "item %d", it.ID)
	}
}
