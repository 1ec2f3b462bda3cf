package domain

// Fulfillment is how a directory buyer takes delivery.
type Fulfillment string

const (
	FulfillmentPickup Fulfillment = "pickup"
	FulfillmentShip   Fulfillment = "ship"
	FulfillmentBoth   Fulfillment = "both"
	// FulfillmentAny is only meaningful as a filter value.
	FulfillmentAny Fulfillment = "any"
)

// IsValid checks if the Fulfillment is a storable preference.
func (f Fulfillment) IsValid() bool {
	switch f {
	case FulfillmentPickup, FulfillmentShip, FulfillmentBoth:
		return true
	}
	return false
}

// DirectoryBuyer is a claimable business or person listing in the buyer directory.
type DirectoryBuyer struct {
	ID              string
	BuyerName       string
	City            string
	State           string
	Zip             string
	Fulfillment     Fulfillment
	ContactPhone    string
	ContactEmail    string
	Website         string
	Note            string
	Premium         bool
	CreatedAt       int64
	CreatedByAdmin  bool
	CreatedByUID    string
	ClaimedUID      string
	OwnerUID        string
	ClaimedAt       int64
	NormalizedPhone string
	NormalizedEmail string
}

// OwnedBy returns the uid owning the listing, or "" when unclaimed.
func (b DirectoryBuyer) OwnedBy() string {
	if b.ClaimedUID != "" {
		return b.ClaimedUID
	}
	return b.OwnerUID
}

// IsClaimable is true only for operator-seeded listings without an owner.
func (b DirectoryBuyer) IsClaimable() bool {
	return b.CreatedByAdmin && b.OwnedBy() == ""
}

// ClaimLinkVisible reports whether the directory feed offers a claim link.
func (b DirectoryBuyer) ClaimLinkVisible() bool {
	return b.IsClaimable() && b.ContactPhone != ""
}

// ClaimStatusPending is the only status this service ever writes.
const ClaimStatusPending = "pending"

// ClaimRequest is a deferred claim created when a listing cannot be updated directly.
type ClaimRequest struct {
	ID               string
	DirectoryBuyerID string
	RequesterUID     string
	RequesterEmail   string
	RequesterPhone   string
	RequesterName    string
	City             string
	State            string
	Zip              string
	Fulfillment      Fulfillment
	CreatedAt        int64
	Status           string
}

// DirectoryFilters is the ephemeral filter state of the directory feed.
type DirectoryFilters struct {
	Zip         string      `json:"zip"`
	Search      string      `json:"search"`
	Fulfillment Fulfillment `json:"fulfillment"`
	SortBy      string      `json:"sortBy"`
}

// DefaultDirectoryFilters returns the filter state a fresh directory feed starts with.
func DefaultDirectoryFilters() DirectoryFilters {
	return DirectoryFilters{Fulfillment: FulfillmentAny, SortBy: SortNewest}
}

// ClaimOutcome is the terminal state of a registration-time directory upsert.
type ClaimOutcome string

const (
	OutcomeClaimed             ClaimOutcome = "claimed"
	OutcomePendingClaimCreated ClaimOutcome = "pending_claim_created"
	OutcomeCreated             ClaimOutcome = "created"
	OutcomeFailed              ClaimOutcome = "failed"
)

// ClaimResult reports what the upsert workflow did.
type ClaimResult struct {
	Outcome        ClaimOutcome
	ListingID      string
	ClaimRequestID string
	Err            error
}

// Succeeded is true for every outcome except OutcomeFailed.
func (r ClaimResult) Succeeded() bool {
	return r.Outcome != OutcomeFailed
}
