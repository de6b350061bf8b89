// Package catalog derives the navigable hierarchy from a flat work-item
// snapshot.
//
// The index is a pure projection: it is rebuilt from each fetch and never
// mutated incrementally, so derived lists can't drift from the snapshot.
package catalog

import (
	"sort"
	"strings"

	"github.com/kovalyshyn/workvol/internal/model"
)

// Index answers hierarchy queries over one immutable snapshot.
type Index struct {
	items []model.WorkItem
}

// NewIndex wraps a fetched snapshot. The slice is not copied; callers hand
// over ownership for the lifetime of the index.
func NewIndex(items []model.WorkItem) *Index {
	return &Index{items: items}
}

// Items returns the full snapshot backing the index.
func (ix *Index) Items() []model.WorkItem {
	return ix.items
}

// Cities lists distinct cities in first-seen order.
func (ix *Index) Cities() []string {
	return distinct(ix.items, func(w model.WorkItem) (string, bool) {
		return w.City, true
	})
}

// Objects lists distinct objects within a city in first-seen order.
func (ix *Index) Objects(city string) []string {
	return distinct(ix.items, func(w model.WorkItem) (string, bool) {
		return w.Object, w.City == city
	})
}

// Subnames lists distinct work types for an object in first-seen order.
func (ix *Index) Subnames(object string) []string {
	return distinct(ix.items, func(w model.WorkItem) (string, bool) {
		return w.Subname, w.Object == object
	})
}

// Categories lists distinct non-empty categories for an object and work type.
func (ix *Index) Categories(object, subname string) []string {
	return distinct(ix.items, func(w model.WorkItem) (string, bool) {
		return w.Category, w.Object == object && w.Subname == subname && w.Category != ""
	})
}

// Resolve returns copies of the items matching every non-empty field of the
// path.
func (ix *Index) Resolve(path model.SelectionPath) []model.WorkItem {
	var out []model.WorkItem
	for _, w := range ix.ResolveRefs(path) {
		out = append(out, *w)
	}
	return out
}

// ResolveRefs is Resolve over pointers into the snapshot. Callers that commit
// mutations go through this so the change is still there when the same path
// is resolved again.
func (ix *Index) ResolveRefs(path model.SelectionPath) []*model.WorkItem {
	var out []*model.WorkItem
	for i := range ix.items {
		w := &ix.items[i]
		if path.City != "" && w.City != path.City {
			continue
		}
		if path.Object != "" && w.Object != path.Object {
			continue
		}
		if path.Subname != "" && w.Subname != path.Subname {
			continue
		}
		if path.Category != "" && w.Category != path.Category {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ShortCircuit reports whether the hierarchy terminates early at the object
// level: true when any of the object's items lacks a subname or category, in
// which case navigation skips straight to the object's work list. Only items
// of the given object are inspected.
func (ix *Index) ShortCircuit(object string) bool {
	for _, w := range ix.items {
		if w.Object != object {
			continue
		}
		if strings.TrimSpace(w.Subname) == "" || strings.TrimSpace(w.Category) == "" {
			return true
		}
	}
	return false
}

// SubnameHasCategories reports whether any item under the object and work
// type carries a category; when none does, category selection is skipped.
func (ix *Index) SubnameHasCategories(object, subname string) bool {
	for _, w := range ix.items {
		if w.Object == object && w.Subname == subname && w.Category != "" {
			return true
		}
	}
	return false
}

// Months lists every YYYY-MM present in any item's history, newest first.
// It backs the month picker for specific-month reports.
func (ix *Index) Months() []string {
	seen := make(map[string]struct{})
	var months []string
	for _, w := range ix.items {
		for _, e := range w.History {
			key := model.MonthKey(e.Date)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			months = append(months, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

func distinct(items []model.WorkItem, pick func(model.WorkItem) (string, bool)) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range items {
		v, ok := pick(w)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
