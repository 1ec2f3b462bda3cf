package feed

import (
	"testing"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
)

func sampleDirectory() []domain.DirectoryBuyer {
	return []domain.DirectoryBuyer{
		{ID: "dir-1", BuyerName: "Fast Cash Buyers", City: "New York", State: "NY", Zip: "10001", Fulfillment: domain.FulfillmentPickup, Premium: true, Note: "Same-day meetup", CreatedAt: 400},
		{ID: "dir-2", BuyerName: "nationwide Mail-In", City: "Austin", State: "TX", Zip: "73301", Fulfillment: domain.FulfillmentShip, Premium: true, Note: "UPS label provided", CreatedAt: 300},
		{ID: "dir-3", BuyerName: "Bronx Local Pickup", City: "Bronx", State: "NY", Zip: "10458", Fulfillment: domain.FulfillmentBoth, CreatedAt: 200},
		{ID: "dir-4", BuyerName: "Ship & Get Paid", City: "Atlanta", State: "GA", Zip: "30301", Fulfillment: domain.FulfillmentShip, Note: "Ship for higher payout", CreatedAt: 100},
	}
}

func buyerIDs(buyers []domain.DirectoryBuyer) []string {
	out := make([]string, 0, len(buyers))
	for _, b := range buyers {
		out = append(out, b.ID)
	}
	return out
}

func TestApplyDirectoryFilters_Zip(t *testing.T) {
	f := domain.DefaultDirectoryFilters()
	f.Zip = "10458"
	assert.Equal(t, []string{"dir-3"}, buyerIDs(ApplyDirectoryFilters(sampleDirectory(), f)))

	f.Zip = "104"
	assert.Len(t, ApplyDirectoryFilters(sampleDirectory(), f), 4)
}

func TestApplyDirectoryFilters_Search(t *testing.T) {
	f := domain.DefaultDirectoryFilters()

	f.Search = "ny"
	assert.Equal(t, []string{"dir-1", "dir-3"}, buyerIDs(ApplyDirectoryFilters(sampleDirectory(), f)), "state matches")

	f.Search = "ATLANTA"
	assert.Equal(t, []string{"dir-4"}, buyerIDs(ApplyDirectoryFilters(sampleDirectory(), f)), "city matches")

	f.Search = "ups label"
	assert.Equal(t, []string{"dir-2"}, buyerIDs(ApplyDirectoryFilters(sampleDirectory(), f)), "note matches")
}

func TestApplyDirectoryFilters_Fulfillment(t *testing.T) {
	f := domain.DefaultDirectoryFilters()

	f.Fulfillment = domain.FulfillmentPickup
	assert.Equal(t, []string{"dir-1", "dir-3"}, buyerIDs(ApplyDirectoryFilters(sampleDirectory(), f)))

	f.Fulfillment = domain.FulfillmentShip
	assert.Equal(t, []string{"dir-2", "dir-3", "dir-4"}, buyerIDs(ApplyDirectoryFilters(sampleDirectory(), f)))

	f.Fulfillment = domain.FulfillmentAny
	assert.Len(t, ApplyDirectoryFilters(sampleDirectory(), f), 4)

	f.Fulfillment = ""
	assert.Len(t, ApplyDirectoryFilters(sampleDirectory(), f), 4)
}

func TestApplyDirectoryFilters_SortByName(t *testing.T) {
	f := domain.DefaultDirectoryFilters()
	f.SortBy = domain.SortName

	got := buyerIDs(ApplyDirectoryFilters(sampleDirectory(), f))
	assert.Equal(t, []string{"dir-3", "dir-1", "dir-2", "dir-4"}, got, "collation ignores case at the primary level")
}

func TestApplyDirectoryFilters_SortNewest(t *testing.T) {
	buyers := sampleDirectory()
	buyers[0].CreatedAt = 0

	got := buyerIDs(ApplyDirectoryFilters(buyers, domain.DefaultDirectoryFilters()))
	assert.Equal(t, []string{"dir-2", "dir-3", "dir-4", "dir-1"}, got)
}

func TestSplitPremium(t *testing.T) {
	premium, regular := SplitPremium(sampleDirectory())
	assert.Equal(t, []string{"dir-1", "dir-2"}, buyerIDs(premium))
	assert.Equal(t, []string{"dir-3", "dir-4"}, buyerIDs(regular))

	premium, regular = SplitPremium(nil)
	assert.Empty(t, premium)
	assert.Empty(t, regular)
}
