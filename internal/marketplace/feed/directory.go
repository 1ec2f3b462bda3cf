package feed

import (
	"sort"
	"strings"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyDirectoryFilters narrows and sorts directory listings without modifying the input.
// Stages: zip, search, fulfillment, sort.
func ApplyDirectoryFilters(buyers []domain.DirectoryBuyer, f domain.DirectoryFilters) []domain.DirectoryBuyer {
	result := make([]domain.DirectoryBuyer, 0, len(buyers))

	zip, zipActive := zipFilter(f.Zip)
	query := strings.ToLower(strings.TrimSpace(f.Search))

	for _, b := range buyers {
		if zipActive && strings.TrimSpace(b.Zip) != zip {
			continue
		}
		if query != "" && !matchesDirectorySearch(b, query) {
			continue
		}
		if !matchesFulfillment(b.Fulfillment, f.Fulfillment) {
			continue
		}
		result = append(result, b)
	}

	if f.SortBy == domain.SortName {
		// Collators keep internal buffers and must not be shared across goroutines.
		c := collate.New(language.Und)
		sort.SliceStable(result, func(i, j int) bool {
			return c.CompareString(result[i].BuyerName, result[j].BuyerName) < 0
		})
	} else {
		sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	}
	return result
}

func matchesDirectorySearch(b domain.DirectoryBuyer, query string) bool {
	for _, field := range []string{b.BuyerName, b.Note, b.City, b.State} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesFulfillment(have, want domain.Fulfillment) bool {
	switch want {
	case domain.FulfillmentPickup:
		return have == domain.FulfillmentPickup || have == domain.FulfillmentBoth
	case domain.FulfillmentShip:
		return have == domain.FulfillmentShip || have == domain.FulfillmentBoth
	}
	return true
}

// SplitPremium separates sponsored listings from regular ones, keeping order.
func SplitPremium(buyers []domain.DirectoryBuyer) (premium, regular []domain.DirectoryBuyer) {
	premium = make([]domain.DirectoryBuyer, 0)
	regular = make([]domain.DirectoryBuyer, 0, len(buyers))
	for _, b := range buyers {
		if b.Premium {
			premium = append(premium, b)
		} else {
			regular = append(regular, b)
		}
	}
	return premium, regular
}
