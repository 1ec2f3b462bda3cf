// Package feed holds the pure filtering, sorting and visibility rules applied
// to in-memory snapshots of ads and directory listings.
package feed

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
)

// ApplyAdFilters narrows and sorts ads. The input slice is never modified.
// Stages run in a fixed order: zip, category, price, search, sort.
func ApplyAdFilters(ads []domain.Ad, f domain.AdFilters) []domain.Ad {
	result := make([]domain.Ad, 0, len(ads))

	zip, zipActive := zipFilter(f.Zip)
	allowed := allowedCategories(f)
	minPrice, minActive := priceBound(f.PriceMin)
	maxPrice, maxActive := priceBound(f.PriceMax)
	query := strings.ToLower(strings.TrimSpace(f.Search))

	for _, ad := range ads {
		if zipActive && strings.TrimSpace(ad.Zip) != zip {
			continue
		}
		// An empty allowed set means no category constraint, not "show nothing".
		if len(allowed) > 0 && !allowed[ad.Category] {
			continue
		}
		if minActive && ad.Price < minPrice {
			continue
		}
		if maxActive && ad.Price > maxPrice {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(ad.Title), query) &&
			!strings.Contains(strings.ToLower(ad.Note), query) {
			continue
		}
		result = append(result, ad)
	}

	if f.SortBy == domain.SortHighest {
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	} else {
		sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	}
	return result
}

func allowedCategories(f domain.AdFilters) map[domain.AdCategory]bool {
	allowed := make(map[domain.AdCategory]bool, 3)
	if f.CategoryDevices {
		allowed[domain.CategoryDevices] = true
	}
	if f.CategorySupplies {
		allowed[domain.CategorySupplies] = true
	}
	if f.CategoryTestStrips {
		allowed[domain.CategoryTestStrips] = true
	}
	return allowed
}

// zipFilter returns the trimmed zip when it is exactly five ASCII digits.
func zipFilter(raw string) (string, bool) {
	zip := strings.TrimSpace(raw)
	if len(zip) != 5 {
		return "", false
	}
	for i := 0; i < len(zip); i++ {
		if zip[i] < '0' || zip[i] > '9' {
			return "", false
		}
	}
	return zip, true
}

// priceBound parses a user-typed bound. Blank or unparsable input is no bound.
func priceBound(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
