package domain

// Subjects published on the event bus.
const (
	SubjectAdCreated               = "ads.created"
	SubjectAdImagesAttached        = "ads.images_attached"
	SubjectDirectoryListingCreated = "directory.listing.created"
	SubjectDirectoryListingClaimed = "directory.listing.claimed"
	SubjectDirectoryClaimRequested = "directory.claim.requested"
)

type AdCreatedEvent struct {
	AdID        string      `json:"adId"`
	OwnerUID    string      `json:"ownerUid,omitempty"`
	Category    AdCategory  `json:"category"`
	PostingRole PostingRole `json:"postingRole"`
	Zip         string      `json:"zip,omitempty"`
	Price       float64     `json:"price"`
	CreatedAt   int64       `json:"createdAt"`
}

type AdImagesAttachedEvent struct {
	AdID         string   `json:"adId"`
	MainImageURL string   `json:"mainImageUrl"`
	ImageURLs    []string `json:"imageUrls"`
}

type DirectoryListingEvent struct {
	ListingID      string `json:"listingId"`
	UID            string `json:"uid,omitempty"`
	CreatedByAdmin bool   `json:"createdByAdmin"`
	At             int64  `json:"at"`
}

type ClaimRequestedEvent struct {
	ClaimRequestID   string `json:"claimRequestId"`
	DirectoryBuyerID string `json:"directoryBuyerId"`
	RequesterUID     string `json:"requesterUid"`
	At               int64  `json:"at"`
}
