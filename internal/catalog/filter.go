package catalog

import (
	"sort"
	"strings"
	"time"

	"shopfront/internal/domain"
)

// CategoryAll is the sentinel category that bypasses category filtering.
const CategoryAll = "All"

// Criteria are the optional, AND-combined predicates applied by Filter.
// Zero values (empty strings, nil pointers) disable the corresponding
// predicate.
type Criteria struct {
	Category string // exact, case-sensitive; "" or "All" bypasses
	Tag      string // case-insensitive substring against any item tag
	Brand    string // exact match
	Search   string // case-insensitive substring over title, description, tags, brand

	PublishedFrom *time.Time // inclusive
	PublishedTo   *time.Time // inclusive

	Featured      *bool
	SpecialOffer  *bool
	CurvedDisplay *bool
	Bestseller    *bool
	FlashSale     *bool
	Limited       *bool
	HotDeal       *bool
}

// Filter returns the items satisfying every active predicate in c. The
// input slice is never mutated; order is preserved.
func Filter(items []domain.CatalogItem, c Criteria) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if matches(&item, c) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item *domain.CatalogItem, c Criteria) bool {
	if c.Category != "" && c.Category != CategoryAll && item.Category != c.Category {
		return false
	}

	if c.Tag != "" && !tagMatches(item.Tags, c.Tag) {
		return false
	}

	if c.Brand != "" && item.Brand != c.Brand {
		return false
	}

	if c.Search != "" && !searchMatches(item, c.Search) {
		return false
	}

	if c.PublishedFrom != nil && item.PublishedAt.Before(*c.PublishedFrom) {
		return false
	}
	if c.PublishedTo != nil && item.PublishedAt.After(*c.PublishedTo) {
		return false
	}

	return flagsMatch(item.Flags, c)
}

func tagMatches(tags []string, want string) bool {
	want = strings.ToLower(want)
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), want) {
			return true
		}
	}
	return false
}

// searchMatches checks title, description, tags and brand in turn and
// short-circuits on the first hit.
func searchMatches(item *domain.CatalogItem, query string) bool {
	query = strings.ToLower(query)

	if strings.Contains(strings.ToLower(item.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(item.Brand), query)
}

func flagsMatch(f domain.ItemFlags, c Criteria) bool {
	checks := []struct {
		want *bool
		got  bool
	}{
		{c.Featured, f.Featured},
		{c.SpecialOffer, f.SpecialOffer},
		{c.CurvedDisplay, f.CurvedDisplay},
		{c.Bestseller, f.Bestseller},
		{c.FlashSale, f.FlashSale},
		{c.Limited, f.Limited},
		{c.HotDeal, f.HotDeal},
	}
	for _, ch := range checks {
		if ch.want != nil && ch.got != *ch.want {
			return false
		}
	}
	return true
}

// SortField selects the comparator key for Sort.
type SortField string

const (
	SortByPublished SortField = "published_at"
	SortByViews     SortField = "views"
	SortByLikes     SortField = "likes"
	SortByPrice     SortField = "price"
	SortByTitle     SortField = "title"
)

// SortDirection is "asc" or "desc".
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort returns a new slice ordered by the given field and direction.
// Unknown fields fall back to published date; the sort is stable, so ties
// keep input order.
func Sort(items []domain.CatalogItem, field SortField, dir SortDirection) []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(items))
	copy(out, items)

	less := lessFunc(field)
	if dir == SortDesc {
		inner := less
		less = func(a, b *domain.CatalogItem) bool { return inner(b, a) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

func lessFunc(field SortField) func(a, b *domain.CatalogItem) bool {
	switch field {
	case SortByViews:
		return func(a, b *domain.CatalogItem) bool { return a.Views < b.Views }
	case SortByLikes:
		return func(a, b *domain.CatalogItem) bool { return a.Likes < b.Likes }
	case SortByPrice:
		return func(a, b *domain.CatalogItem) bool { return a.Price < b.Price }
	case SortByTitle:
		return func(a, b *domain.CatalogItem) bool { return a.Title < b.Title }
	default:
		return func(a, b *domain.CatalogItem) bool { return a.PublishedAt.Before(b.PublishedAt) }
	}
}

// Pagination describes one page of a collection.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Page is a slice of items plus its pagination metadata.
type Page struct {
	Items      []domain.CatalogItem `json:"items"`
	Pagination Pagination           `json:"pagination"`
}

// Paginate slices items into the 1-indexed page of the given limit.
// Out-of-range inputs are clamped: page to at least 1, limit to at least 1.
func Paginate(items []domain.CatalogItem, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items: items[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page*limit < total,
			HasPrev:    page > 1,
		},
	}
}
