package catalog

import "strings"

// Criteria narrows a catalog search. Zero value matches everything.
type Criteria struct {
	Category string
	Text     string
}

// Predicate decides whether an item belongs in a result.
type Predicate func(Item) bool

// And combines predicates; an item must satisfy all of them.
func And(preds ...Predicate) Predicate {
	return func(item Item) bool {
		for _, p := range preds {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// InCategory matches items of the given category. "" and AllCategories match every item.
func InCategory(category string) Predicate {
	if category == "" || category == AllCategories {
		return func(Item) bool { return true }
	}
	return func(item Item) bool {
		return item.Category == category
	}
}

// MatchesText is a case-insensitive substring match on name or description.
// Blank text matches every item.
func MatchesText(text string) Predicate {
	if strings.TrimSpace(text) == "" {
		return func(Item) bool { return true }
	}
	needle := strings.ToLower(text)
	return func(item Item) bool {
		return strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle)
	}
}

// Filter keeps the items matching pred, preserving input order.
// The result is never nil.
func Filter(items []Item, pred Predicate) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func Search(items []Item, criteria Criteria) []Item {
	return Filter(items, And(InCategory(criteria.Category), MatchesText(criteria.Text)))
}
