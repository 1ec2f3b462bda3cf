package grpc

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/wire"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/usecase"
)

type ListAdsRequest struct {
	// Filters defaults to domain.DefaultAdFilters when omitted.
	Filters *domain.AdFilters `json:"filters,omitempty"`
	ShowAll bool              `json:"showAll"`
}

type ListAdsResponse struct {
	Ads []wire.Ad `json:"ads"`
}

type ListDirectoryRequest struct {
	Filters *domain.DirectoryFilters `json:"filters,omitempty"`
}

type ListDirectoryResponse struct {
	Premium []wire.DirectoryBuyer `json:"premium"`
	Regular []wire.DirectoryBuyer `json:"regular"`
}

type FindDirectoryListingRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type FindDirectoryListingResponse struct {
	Found   bool            `json:"found"`
	Listing *wire.DirectoryBuyer `json:"listing,omitempty"`
}

type (
	WatchAdsRequest       = ListAdsRequest
	WatchDirectoryRequest = ListDirectoryRequest
)

type CreateAdRequest struct {
	Title        string  `json:"title"`
	ProductType  string  `json:"productType"`
	Category     string  `json:"category"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Zip          string  `json:"zip"`
	Price        float64 `json:"price"`
	BuyerName    string  `json:"buyerName"`
	ContactEmail string  `json:"contactEmail"`
	ContactPhone string  `json:"contactPhone"`
	Note         string  `json:"note"`
	Premium      bool    `json:"premium"`
	PostingRole  string  `json:"postingRole"`
}

type CreateAdResponse struct {
	Ad wire.Ad `json:"ad"`
}

// ImageFile is one uploaded image; Data is base64 on the wire.
type ImageFile struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data"`
}

type UploadAdImagesRequest struct {
	AdID   string      `json:"adId"`
	Images []ImageFile `json:"images"`
}

type UploadAdImagesResponse struct {
	URLs     []string `json:"urls"`
	Attached bool     `json:"attached"`
}

type Identity struct {
	ListingName string `json:"listingName"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Fulfillment string `json:"fulfillment"`
}

type RegisterRequest struct {
	// Email falls back to the token's email claim.
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Identity *Identity `json:"identity,omitempty"`
}

type ClaimResult struct {
	Outcome        string `json:"outcome"`
	ListingID      string `json:"listingId,omitempty"`
	ClaimRequestID string `json:"claimRequestId,omitempty"`
}

type RegisterResponse struct {
	UID       string       `json:"uid"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	CreatedAt int64        `json:"createdAt"`
	Directory *ClaimResult `json:"directory,omitempty"`
	Warning   string       `json:"warning,omitempty"`
}

type GetMyRoleRequest struct{}

type GetMyRoleResponse struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
}

type CreateDirectoryBuyerRequest struct {
	BuyerName    string `json:"buyerName"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Fulfillment  string `json:"fulfillment"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
	Website      string `json:"website"`
	Note         string `json:"note"`
	Premium      bool   `json:"premium"`
}

type CreateDirectoryBuyerResponse struct {
	ID string `json:"id"`
}

type EnsureDirectoryListingRequest struct {
	BuyerName      string `json:"buyerName"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zip            string `json:"zip"`
	Fulfillment    string `json:"fulfillment"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Website        string `json:"website"`
	CreatedByAdmin bool   `json:"createdByAdmin"`
	OwnerUID       string `json:"ownerUid"`
}

type EnsureDirectoryListingResponse struct {
	Listing wire.DirectoryBuyer `json:"listing"`
}

func toDirectoryResponse(v usecase.DirectoryView) *ListDirectoryResponse {
	return &ListDirectoryResponse{
		Premium: wire.DirectoryBuyers(v.Premium),
		Regular: wire.DirectoryBuyers(v.Regular),
	}
}

func (r *ListAdsRequest) filters() domain.AdFilters {
	if r.Filters == nil {
		return domain.DefaultAdFilters()
	}
	return *r.Filters
}

func (r *ListDirectoryRequest) filters() domain.DirectoryFilters {
	if r.Filters == nil {
		return domain.DefaultDirectoryFilters()
	}
	f := *r.Filters
	if f.Fulfillment == "" {
		f.Fulfillment = domain.FulfillmentAny
	}
	return f
}

func (i *Identity) toUsecase() *usecase.Identity {
	if i == nil {
		return nil
	}
	return &usecase.Identity{
		ListingName: i.ListingName,
		Phone:       i.Phone,
		City:        i.City,
		State:       i.State,
		Zip:         i.Zip,
		Fulfillment: domain.Fulfillment(i.Fulfillment),
	}
}

func toClaimResult(r *domain.ClaimResult) *ClaimResult {
	if r == nil {
		return nil
	}
	return &ClaimResult{
		Outcome:        string(r.Outcome),
		ListingID:      r.ListingID,
		ClaimRequestID: r.ClaimRequestID,
	}
}
