// Package query filters, sorts and pages listings that a client already holds.
// Nothing here talks to the API.
package query

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"marketplace/internal/model"
)

// SortKey selects the ordering applied by Apply.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortTitle     SortKey = "title"
)

// Filter describes a browse view. Zero values disable each criterion.
type Filter struct {
	SearchTerm string
	Category   string
	Condition  string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     SortKey
}

// Page is one slice of a paginated result.
type Page struct {
	Items      []model.Listing
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// Apply returns the listings matching f, ordered by f.SortBy. The input
// slice is never modified.
func Apply(listings []model.Listing, f Filter) []model.Listing {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))

	var bounds *model.PriceRange
	if f.MinPrice != nil || f.MaxPrice != nil {
		bounds = &model.PriceRange{}
		if f.MinPrice != nil {
			bounds.Min = decimal.NewFromFloat(*f.MinPrice)
		}
		if f.MaxPrice != nil {
			upper := decimal.NewFromFloat(*f.MaxPrice)
			bounds.Max = &upper
		}
	}

	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if term != "" && !matchesTerm(l, term) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(string(l.Category), f.Category) {
			continue
		}
		if f.Condition != "" && !strings.EqualFold(string(l.Condition), f.Condition) {
			continue
		}
		if bounds != nil && !bounds.Contains(l.Price) {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, less(out, f.SortBy))
	return out
}

func matchesTerm(l model.Listing, term string) bool {
	return strings.Contains(strings.ToLower(l.Title), term) ||
		strings.Contains(strings.ToLower(l.Description), term) ||
		strings.Contains(strings.ToLower(string(l.Category)), term)
}

func less(items []model.Listing, key SortKey) func(i, j int) bool {
	switch key {
	case SortOldest:
		return func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) }
	case SortPriceLow:
		return func(i, j int) bool { return items[i].Price.LessThan(items[j].Price) }
	case SortPriceHigh:
		return func(i, j int) bool { return items[i].Price.GreaterThan(items[j].Price) }
	case SortTitle:
		return func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		}
	default:
		return func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) }
	}
}

// Paginate cuts listings into pages of perPage items and returns the
// requested 1-based page. Pages outside [1, TotalPages] are clamped, and a
// non-positive perPage puts everything on one page.
func Paginate(listings []model.Listing, page, perPage int) Page {
	total := len(listings)
	if perPage <= 0 {
		perPage = total
		if perPage == 0 {
			perPage = 1
		}
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	items := make([]model.Listing, end-start)
	copy(items, listings[start:end])
	return Page{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
