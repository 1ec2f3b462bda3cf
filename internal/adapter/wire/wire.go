// Package wire holds the JSON views of ads and directory listings shared by
// the gRPC and HTTP transports.
package wire

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
)

// Ad is the wire form of domain.Ad.
type Ad struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	ProductType  string   `json:"productType,omitempty"`
	Category     string   `json:"category"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Zip          string   `json:"zip,omitempty"`
	Price        float64  `json:"price"`
	BuyerName    string   `json:"buyerName,omitempty"`
	ContactEmail string   `json:"contactEmail,omitempty"`
	ContactPhone string   `json:"contactPhone,omitempty"`
	PostingRole  string   `json:"postingRole"`
	Premium      bool     `json:"premium"`
	Note         string   `json:"note,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
	MainImageURL string   `json:"mainImageUrl,omitempty"`
	ImageURLs    []string `json:"imageUrls,omitempty"`
	OwnerUID     string   `json:"ownerUid,omitempty"`
}

// DirectoryBuyer is the wire form of domain.DirectoryBuyer. Normalized keys
// stay server side.
type DirectoryBuyer struct {
	ID               string `json:"id"`
	BuyerName        string `json:"buyerName"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	Zip              string `json:"zip,omitempty"`
	Fulfillment      string `json:"fulfillment"`
	ContactPhone     string `json:"contactPhone,omitempty"`
	ContactEmail     string `json:"contactEmail,omitempty"`
	Website          string `json:"website,omitempty"`
	Note             string `json:"note,omitempty"`
	Premium          bool   `json:"premium"`
	CreatedAt        int64  `json:"createdAt"`
	CreatedByAdmin   bool   `json:"createdByAdmin"`
	OwnedBy          string `json:"ownedBy,omitempty"`
	ClaimedAt        int64  `json:"claimedAt,omitempty"`
	ClaimLinkVisible bool   `json:"claimLinkVisible"`
}

func FromAd(a domain.Ad) Ad {
	return Ad{
		ID:           a.ID,
		Title:        a.Title,
		ProductType:  a.ProductType,
		Category:     string(a.Category),
		City:         a.City,
		State:        a.State,
		Zip:          a.Zip,
		Price:        a.Price,
		BuyerName:    a.BuyerName,
		ContactEmail: a.ContactEmail,
		ContactPhone: a.ContactPhone,
		PostingRole:  string(a.EffectivePostingRole()),
		Premium:      a.Premium,
		Note:         a.Note,
		CreatedAt:    a.CreatedAt,
		MainImageURL: a.MainImageURL,
		ImageURLs:    a.ImageURLs,
		OwnerUID:     a.OwnerUID,
	}
}

// FromAds converts a feed page; the result is never nil.
func FromAds(ads []domain.Ad) []Ad {
	out := make([]Ad, 0, len(ads))
	for _, a := range ads {
		out = append(out, FromAd(a))
	}
	return out
}

func FromDirectoryBuyer(b domain.DirectoryBuyer) DirectoryBuyer {
	return DirectoryBuyer{
		ID:               b.ID,
		BuyerName:        b.BuyerName,
		City:             b.City,
		State:            b.State,
		Zip:              b.Zip,
		Fulfillment:      string(b.Fulfillment),
		ContactPhone:     b.ContactPhone,
		ContactEmail:     b.ContactEmail,
		Website:          b.Website,
		Note:             b.Note,
		Premium:          b.Premium,
		CreatedAt:        b.CreatedAt,
		CreatedByAdmin:   b.CreatedByAdmin,
		OwnedBy:          b.OwnedBy(),
		ClaimedAt:        b.ClaimedAt,
		ClaimLinkVisible: b.ClaimLinkVisible(),
	}
}

// DirectoryBuyers converts a directory section; the result is never nil.
func DirectoryBuyers(buyers []domain.DirectoryBuyer) []DirectoryBuyer {
	out := make([]DirectoryBuyer, 0, len(buyers))
	for _, b := range buyers {
		out = append(out, FromDirectoryBuyer(b))
	}
	return out
}
