package inventory

import (
	"sort"
	"strings"

	"larder/internal/model"
)

// DefaultCategory is where uncategorized items land.
const DefaultCategory = "Other"

// DefaultCategories is the fixed set always offered in the add-item form,
// regardless of what is in the store.
var DefaultCategories = []string{"Groceries", "Household", "Consumables", DefaultCategory}

// MergeCategories unions the default set with the categories already present
// in the store and returns them sorted. Purely a presentation-time helper;
// the data model keeps category as a free string on each item.
func MergeCategories(existing []string) []string {
	seen := make(map[string]struct{}, len(DefaultCategories)+len(existing))
	var merged []string

	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}

	for _, c := range DefaultCategories {
		add(c)
	}
	for _, c := range existing {
		add(c)
	}

	sort.Strings(merged)
	return merged
}

// Group is one category's slice of the inventory list, in list order.
type Group struct {
	Category string
	Items    []model.InventoryItem
}

// GroupByCategory splits a created_at-descending item list into per-category
// groups. Groups appear in order of their first (newest) item, and items keep
// their list order within each group.
func GroupByCategory(items []model.InventoryItem) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, item := range items {
		category := item.Category
		if category == "" {
			category = DefaultCategory
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, Group{Category: category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
