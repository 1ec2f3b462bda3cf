package domain

import "strings"

// AdCategory is the product category of an ad.
type AdCategory string

const (
	CategoryDevices    AdCategory = "Devices"
	CategorySupplies   AdCategory = "Supplies"
	CategoryTestStrips AdCategory = "Test Strips"
)

// IsValid checks if the AdCategory is one of the defined constants.
func (c AdCategory) IsValid() bool {
	switch c {
	case CategoryDevices, CategorySupplies, CategoryTestStrips:
		return true
	}
	return false
}

// PostingRole is the capacity under which an ad was created.
type PostingRole string

const (
	PostingRoleSeller     PostingRole = "seller"
	PostingRoleBuyer      PostingRole = "buyer"
	PostingRoleWholesaler PostingRole = "wholesaler"
)

// IsValid checks if the PostingRole is one of the defined constants.
func (r PostingRole) IsValid() bool {
	switch r {
	case PostingRoleSeller, PostingRoleBuyer, PostingRoleWholesaler:
		return true
	}
	return false
}

// Ad is a marketplace posting.
type Ad struct {
	ID           string
	Title        string
	ProductType  string
	Category     AdCategory
	City         string
	State        string
	Zip          string
	Price        float64
	BuyerName    string
	ContactEmail string
	ContactPhone string
	PostingRole  PostingRole // empty for records written before roles existed
	Premium      bool
	Note         string
	CreatedAt    int64 // milliseconds since epoch, 0 when unknown
	MainImageURL string
	ImageURLs    []string
	OwnerUID     string
}

// EffectivePostingRole returns the posting role, defaulting to buyer.
func (a Ad) EffectivePostingRole() PostingRole {
	if a.PostingRole == "" {
		return PostingRoleBuyer
	}
	return a.PostingRole
}

// HasContact reports whether the ad carries at least one contact method.
func (a Ad) HasContact() bool {
	return strings.TrimSpace(a.ContactEmail) != "" || strings.TrimSpace(a.ContactPhone) != ""
}

// SortMode values shared by ad and directory filters.
const (
	SortNewest  = "newest"
	SortHighest = "highest"
	SortName    = "name"
)

// AdFilters is the ephemeral filter state of an ad feed. Bounds are kept as
// typed by the user; the filter engine decides what is usable.
type AdFilters struct {
	Zip                string `json:"zip"`
	Search             string `json:"search"`
	CategoryDevices    bool   `json:"categoryDevices"`
	CategorySupplies   bool   `json:"categorySupplies"`
	CategoryTestStrips bool   `json:"categoryTestStrips"`
	PriceMin           string `json:"priceMin"`
	PriceMax           string `json:"priceMax"`
	SortBy             string `json:"sortBy"`
}

// DefaultAdFilters returns the filter state a fresh feed starts with.
func DefaultAdFilters() AdFilters {
	return AdFilters{
		CategoryDevices:    true,
		CategorySupplies:   true,
		CategoryTestStrips: true,
		SortBy:             SortNewest,
	}
}
