package record

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
)

// DecodeDirectoryBuyer converts a stored directoryBuyers record.
func DecodeDirectoryBuyer(rec domain.Record) domain.DirectoryBuyer {
	f := rec.Fields
	if f == nil {
		f = map[string]interface{}{}
	}

	fulfillment := domain.Fulfillment(stringField(f, "fulfillment"))
	if !fulfillment.IsValid() {
		fulfillment = domain.FulfillmentPickup
	}

	return domain.DirectoryBuyer{
		ID:              rec.ID,
		BuyerName:       stringFieldOr(f, "Buyer", "buyerName", "name"),
		City:            stringField(f, "city"),
		State:           stringField(f, "state"),
		Zip:             stringField(f, "zip"),
		Fulfillment:     fulfillment,
		ContactPhone:    stringField(f, "contactPhone"),
		ContactEmail:    stringField(f, "contactEmail"),
		Website:         stringField(f, "website"),
		Note:            stringField(f, "note"),
		Premium:         boolField(f, "premium"),
		CreatedAt:       int64Field(f, "createdAt"),
		CreatedByAdmin:  boolField(f, "createdByAdmin"),
		CreatedByUID:    stringField(f, "createdByUid"),
		ClaimedUID:      stringField(f, "claimedUid"),
		OwnerUID:        stringField(f, "ownerUid"),
		ClaimedAt:       int64Field(f, "claimedAt"),
		NormalizedPhone: stringField(f, "normalizedPhone"),
		NormalizedEmail: stringField(f, "normalizedEmail"),
	}
}

// DecodeDirectoryBuyers decodes a snapshot of directory listings, preserving order.
func DecodeDirectoryBuyers(snapshot domain.Snapshot) []domain.DirectoryBuyer {
	buyers := make([]domain.DirectoryBuyer, 0, len(snapshot))
	for _, rec := range snapshot {
		buyers = append(buyers, DecodeDirectoryBuyer(rec))
	}
	return buyers
}

// EncodeDirectoryBuyer builds the directoryBuyers payload. Blank optional
// fields and unset ownership are omitted.
func EncodeDirectoryBuyer(b domain.DirectoryBuyer) map[string]interface{} {
	fulfillment := b.Fulfillment
	if !fulfillment.IsValid() {
		fulfillment = domain.FulfillmentPickup
	}
	f := map[string]interface{}{
		"buyerName":      b.BuyerName,
		"city":           b.City,
		"state":          b.State,
		"zip":            b.Zip,
		"fulfillment":    string(fulfillment),
		"premium":        b.Premium,
		"createdByAdmin": b.CreatedByAdmin,
		"createdAt":      b.CreatedAt,
	}
	putString(f, "contactPhone", b.ContactPhone)
	putString(f, "contactEmail", b.ContactEmail)
	putString(f, "website", b.Website)
	putString(f, "note", b.Note)
	putString(f, "createdByUid", b.CreatedByUID)
	putString(f, "claimedUid", b.ClaimedUID)
	putString(f, "ownerUid", b.OwnerUID)
	putInt64(f, "claimedAt", b.ClaimedAt)
	putString(f, "normalizedPhone", b.NormalizedPhone)
	putString(f, "normalizedEmail", b.NormalizedEmail)
	return f
}

// DecodeClaimRequest converts a stored directoryClaims record.
func DecodeClaimRequest(rec domain.Record) domain.ClaimRequest {
	f := rec.Fields
	if f == nil {
		f = map[string]interface{}{}
	}
	return domain.ClaimRequest{
		ID:               rec.ID,
		DirectoryBuyerID: stringField(f, "directoryBuyerId"),
		RequesterUID:     stringField(f, "requesterUid"),
		RequesterEmail:   stringField(f, "requesterEmail"),
		RequesterPhone:   stringField(f, "requesterPhone"),
		RequesterName:    stringField(f, "requesterName"),
		City:             stringField(f, "city"),
		State:            stringField(f, "state"),
		Zip:              stringField(f, "zip"),
		Fulfillment:      domain.Fulfillment(stringField(f, "fulfillment")),
		CreatedAt:        int64Field(f, "createdAt"),
		Status:           stringFieldOr(f, domain.ClaimStatusPending, "status"),
	}
}

// EncodeClaimRequest builds the directoryClaims payload.
func EncodeClaimRequest(c domain.ClaimRequest) map[string]interface{} {
	status := c.Status
	if status == "" {
		status = domain.ClaimStatusPending
	}
	f := map[string]interface{}{
		"directoryBuyerId": c.DirectoryBuyerID,
		"requesterUid":     c.RequesterUID,
		"requesterEmail":   c.RequesterEmail,
		"requesterPhone":   c.RequesterPhone,
		"requesterName":    c.RequesterName,
		"city":             c.City,
		"state":            c.State,
		"zip":              c.Zip,
		"createdAt":        c.CreatedAt,
		"status":           status,
	}
	if c.Fulfillment != "" {
		f["fulfillment"] = string(c.Fulfillment)
	}
	return f
}
