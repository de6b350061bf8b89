package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kovalyshyn/workvol/internal/model"
)

func sampleItems() []model.WorkItem {
	return []model.WorkItem{
		{ID: "1", City: "Lviv", Object: "Greenhouse 4", Subname: "Foundation", Category: "Concrete", Name: "Footing"},
		{ID: "2", City: "Lviv", Object: "Greenhouse 4", Subname: "Foundation", Category: "Rebar", Name: "Cage assembly"},
		{ID: "3", City: "Lviv", Object: "Greenhouse 4", Subname: "Frame", Category: "Steel", Name: "Column erection"},
		{ID: "4", City: "Kyiv", Object: "Silo 2", Subname: "", Category: "", Name: "Excavation"},
		{ID: "5", City: "Lviv", Object: "Greenhouse 4", Subname: "Foundation", Category: "Concrete", Name: "Slab pour"},
	}
}

func TestIndex_DistinctLists(t *testing.T) {
	ix := NewIndex(sampleItems())

	assert.Equal(t, []string{"Lviv", "Kyiv"}, ix.Cities())
	assert.Equal(t, []string{"Greenhouse 4"}, ix.Objects("Lviv"))
	assert.Equal(t, []string{"Silo 2"}, ix.Objects("Kyiv"))
	assert.Empty(t, ix.Objects("Odesa"))
	assert.Equal(t, []string{"Foundation", "Frame"}, ix.Subnames("Greenhouse 4"))
	assert.Equal(t, []string{"Concrete", "Rebar"}, ix.Categories("Greenhouse 4", "Foundation"))
}

func TestIndex_CategoriesSkipBlank(t *testing.T) {
	ix := NewIndex([]model.WorkItem{
		{ID: "1", Object: "A", Subname: "x", Category: ""},
		{ID: "2", Object: "A", Subname: "x", Category: "y"},
	})

	assert.Equal(t, []string{"y"}, ix.Categories("A", "x"))
}

func TestIndex_Resolve(t *testing.T) {
	ix := NewIndex(sampleItems())

	got := ix.Resolve(model.SelectionPath{Object: "Greenhouse 4", Subname: "Foundation", Category: "Concrete"})
	ids := make([]string, 0, len(got))
	for _, w := range got {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"1", "5"}, ids)

	all := ix.Resolve(model.SelectionPath{})
	assert.Len(t, all, 5)
}

func TestIndex_ResolveRefs_MutationSurvivesReresolve(t *testing.T) {
	ix := NewIndex(sampleItems())
	path := model.SelectionPath{Object: "Greenhouse 4", Subname: "Foundation", Category: "Concrete"}

	refs := ix.ResolveRefs(path)
	assert.Len(t, refs, 2)
	refs[0].Done = 35
	refs[0].History = append(refs[0].History, model.HistoryEntry{Amount: 35})

	again := ix.Resolve(path)
	assert.InDelta(t, 35, again[0].Done, 1e-9)
	assert.Len(t, again[0].History, 1)
}

func TestIndex_ShortCircuit(t *testing.T) {
	ix := NewIndex([]model.WorkItem{
		{ID: "1", Object: "A"},
		{ID: "2", Object: "A", Subname: "x", Category: "y"},
		{ID: "3", Object: "B", Subname: "x", Category: "y"},
	})

	// One item under A has neither subname nor category, so A terminates early.
	assert.True(t, ix.ShortCircuit("A"))
	assert.False(t, ix.ShortCircuit("B"))
}

func TestIndex_ShortCircuit_BlankCountsAsAbsent(t *testing.T) {
	ix := NewIndex([]model.WorkItem{
		{ID: "1", Object: "A", Subname: "  ", Category: "y"},
	})

	assert.True(t, ix.ShortCircuit("A"))
}

func TestIndex_SubnameHasCategories(t *testing.T) {
	ix := NewIndex(sampleItems())

	assert.True(t, ix.SubnameHasCategories("Greenhouse 4", "Foundation"))
	assert.False(t, ix.SubnameHasCategories("Silo 2", ""))
}

func TestIndex_Months(t *testing.T) {
	day := func(y int, m time.Month) time.Time {
		return time.Date(y, m, 15, 12, 0, 0, 0, time.UTC)
	}
	ix := NewIndex([]model.WorkItem{
		{ID: "1", History: []model.HistoryEntry{
			{Date: day(2025, time.January), Amount: 1},
			{Date: day(2025, time.March), Amount: 2},
		}},
		{ID: "2", History: []model.HistoryEntry{
			{Date: day(2025, time.March), Amount: 3},
			{Date: day(2024, time.December), Amount: 4},
		}},
	})

	assert.Equal(t, []string{"2025-03", "2025-01", "2024-12"}, ix.Months())
}

func TestIndex_Months_Empty(t *testing.T) {
	ix := NewIndex(nil)
	assert.Empty(t, ix.Months())
}
