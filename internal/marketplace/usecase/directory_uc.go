package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/normalize"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/record"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// DirectoryUsecase matches identities against directory listings and runs
// the claim workflow.
type DirectoryUsecase struct {
	store   domain.RecordStore
	events  domain.EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
	now     func() int64
}

// NewDirectoryUsecase creates a DirectoryUsecase. events and m may be nil.
func NewDirectoryUsecase(store domain.RecordStore, events domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *DirectoryUsecase {
	return &DirectoryUsecase{
		store:   store,
		events:  events,
		metrics: m,
		logger:  log.Named("DirectoryUsecase"),
		now:     nowMillis,
	}
}

// MatchQuery carries the raw identity signals to match on.
type MatchQuery struct {
	Phone string
	Email string
}

// FindByPhoneOrEmail returns the first listing whose normalized phone matches,
// falling back to the normalized email. Email is not consulted once a phone
// match is found. Returns nil when nothing matches.
func (uc *DirectoryUsecase) FindByPhoneOrEmail(ctx context.Context, q MatchQuery) (*domain.DirectoryBuyer, error) {
	ctx, span := tracer.Start(ctx, "DirectoryUsecase.FindByPhoneOrEmail")
	defer span.End()

	if phone, ok := normalize.Phone(q.Phone); ok {
		match, err := uc.firstByField(ctx, "normalizedPhone", phone)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if match != nil {
			span.SetAttributes(attribute.String("match.field", "normalizedPhone"))
			return match, nil
		}
	}
	if email, ok := normalize.Email(q.Email); ok {
		match, err := uc.firstByField(ctx, "normalizedEmail", email)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if match != nil {
			span.SetAttributes(attribute.String("match.field", "normalizedEmail"))
			return match, nil
		}
	}
	return nil, nil
}

func (uc *DirectoryUsecase) firstByField(ctx context.Context, field, value string) (*domain.DirectoryBuyer, error) {
	recs, err := uc.store.QueryByField(ctx, domain.CollectionDirectoryBuyers, field, value)
	if err != nil {
		uc.logger.Error("Directory lookup failed", zap.String("field", field), zap.Error(err))
		return nil, storeError("query "+field, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	if len(recs) > 1 {
		uc.logger.Debug("Multiple directory listings share an identity key; using the first",
			zap.String("field", field), zap.Int("matches", len(recs)), zap.String("listing_id", recs[0].ID))
	}
	buyer := record.DecodeDirectoryBuyer(recs[0])
	return &buyer, nil
}

// EnsureInput describes a listing to find or create.
type EnsureInput struct {
	BuyerName      string
	City           string
	State          string
	Zip            string
	Fulfillment    domain.Fulfillment
	Phone          string
	Email          string
	Website        string
	CreatedByAdmin bool
	OwnerUID       string
}

// EnsureDirectoryListing returns the listing matching the input's phone or
// email, attaching OwnerUID to an unowned match, or creates a new listing.
func (uc *DirectoryUsecase) EnsureDirectoryListing(ctx context.Context, in EnsureInput) (*domain.DirectoryBuyer, error) {
	ctx, span := tracer.Start(ctx, "DirectoryUsecase.EnsureDirectoryListing")
	defer span.End()

	existing, err := uc.FindByPhoneOrEmail(ctx, MatchQuery{Phone: in.Phone, Email: in.Email})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ownerUID := strings.TrimSpace(in.OwnerUID)
	if existing != nil {
		if ownerUID != "" && existing.OwnedBy() == "" {
			if err := uc.store.Update(ctx, domain.CollectionDirectoryBuyers, existing.ID, map[string]interface{}{"ownerUid": ownerUID}); err != nil {
				uc.logger.Warn("Failed to attach owner to directory listing", zap.String("listing_id", existing.ID), zap.Error(err))
				span.SetStatus(codes.Error, err.Error())
				return nil, storeError("attach owner", err)
			}
			updated := *existing
			updated.OwnerUID = ownerUID
			uc.logger.Info("Attached owner to directory listing", zap.String("listing_id", existing.ID), zap.String("owner_uid", ownerUID))
			return &updated, nil
		}
		return existing, nil
	}

	phone, _ := normalize.Phone(in.Phone)
	email, _ := normalize.Email(in.Email)
	buyer := domain.DirectoryBuyer{
		ID:              uc.store.GenerateID(domain.CollectionDirectoryBuyers),
		BuyerName:       strings.TrimSpace(in.BuyerName),
		City:            strings.TrimSpace(in.City),
		State:           strings.TrimSpace(in.State),
		Zip:             strings.TrimSpace(in.Zip),
		Fulfillment:     fulfillmentOrPickup(in.Fulfillment),
		ContactPhone:    strings.TrimSpace(in.Phone),
		ContactEmail:    strings.TrimSpace(in.Email),
		Website:         strings.TrimSpace(in.Website),
		CreatedAt:       uc.now(),
		CreatedByAdmin:  in.CreatedByAdmin,
		OwnerUID:        ownerUID,
		NormalizedPhone: phone,
		NormalizedEmail: email,
	}
	if err := uc.store.Write(ctx, domain.CollectionDirectoryBuyers, buyer.ID, record.EncodeDirectoryBuyer(buyer)); err != nil {
		uc.logger.Error("Failed to create directory listing", zap.Error(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, storeError("create listing", err)
	}

	uc.logger.Info("Directory listing created", zap.String("listing_id", buyer.ID), zap.Bool("created_by_admin", buyer.CreatedByAdmin))
	publish(ctx, uc.events, uc.logger, domain.SubjectDirectoryListingCreated, domain.DirectoryListingEvent{
		ListingID: buyer.ID, UID: ownerUID, CreatedByAdmin: buyer.CreatedByAdmin, At: buyer.CreatedAt,
	})
	return &buyer, nil
}

// Identity is the directory information a user supplies at registration.
type Identity struct {
	ListingName string
	Phone       string
	City        string
	State       string
	Zip         string
	Fulfillment domain.Fulfillment
}

// UpsertInput identifies the registering account and its directory identity.
type UpsertInput struct {
	UID      string
	Email    string
	Identity Identity
}

// UpsertForUser claims the listing matching the user's phone or email, files
// a pending claim request when the match is owned by someone else or the
// store refuses the claim, or creates a new self-owned listing when nothing
// matches. A match the user already owns is reported as claimed without a
// write. It never retries.
func (uc *DirectoryUsecase) UpsertForUser(ctx context.Context, in UpsertInput) domain.ClaimResult {
	ctx, span := tracer.Start(ctx, "DirectoryUsecase.UpsertForUser")
	defer span.End()

	result := uc.upsert(ctx, in)

	span.SetAttributes(attribute.String("claim.outcome", string(result.Outcome)), attribute.String("listing.id", result.ListingID))
	if result.Err != nil {
		span.SetStatus(codes.Error, result.Err.Error())
		uc.logger.Warn("Directory upsert failed", zap.String("uid", in.UID), zap.Error(result.Err))
	} else {
		uc.logger.Info("Directory upsert finished",
			zap.String("uid", in.UID), zap.String("outcome", string(result.Outcome)), zap.String("listing_id", result.ListingID))
	}
	uc.metrics.ClaimOutcome(string(result.Outcome))
	return result
}

func (uc *DirectoryUsecase) upsert(ctx context.Context, in UpsertInput) domain.ClaimResult {
	uid := strings.TrimSpace(in.UID)
	if uid == "" {
		return failed("", fmt.Errorf("%w: uid is required", domain.ErrInvalidInput))
	}

	id := in.Identity
	phoneRaw := strings.TrimSpace(id.Phone)
	email, _ := normalize.Email(in.Email)

	match, err := uc.FindByPhoneOrEmail(ctx, MatchQuery{Phone: phoneRaw, Email: email})
	if err != nil {
		return failed("", err)
	}

	now := uc.now()
	if match != nil {
		switch {
		case match.OwnedBy() == uid:
			return domain.ClaimResult{Outcome: domain.OutcomeClaimed, ListingID: match.ID}
		case !match.IsClaimable():
			uc.logger.Info("Matched listing is not claimable, filing claim request",
				zap.String("listing_id", match.ID), zap.String("uid", uid), zap.String("owned_by", match.OwnedBy()))
			return uc.requestClaim(ctx, uid, email, phoneRaw, id, match.ID, now)
		}
		return uc.claim(ctx, uid, email, phoneRaw, id, match.ID, now)
	}

	phone, _ := normalize.Phone(phoneRaw)
	buyer := domain.DirectoryBuyer{
		ID:              uc.store.GenerateID(domain.CollectionDirectoryBuyers),
		BuyerName:       strings.TrimSpace(id.ListingName),
		City:            strings.TrimSpace(id.City),
		State:           strings.TrimSpace(id.State),
		Zip:             strings.TrimSpace(id.Zip),
		Fulfillment:     fulfillmentOrPickup(id.Fulfillment),
		ContactPhone:    phoneRaw,
		ContactEmail:    email,
		CreatedAt:       now,
		CreatedByAdmin:  false,
		CreatedByUID:    uid,
		ClaimedUID:      uid,
		ClaimedAt:       now,
		NormalizedPhone: phone,
		NormalizedEmail: email,
	}
	if err := uc.store.Write(ctx, domain.CollectionDirectoryBuyers, buyer.ID, record.EncodeDirectoryBuyer(buyer)); err != nil {
		return failed("", storeError("create listing", err))
	}
	publish(ctx, uc.events, uc.logger, domain.SubjectDirectoryListingCreated, domain.DirectoryListingEvent{
		ListingID: buyer.ID, UID: uid, At: now,
	})
	return domain.ClaimResult{Outcome: domain.OutcomeCreated, ListingID: buyer.ID}
}

func (uc *DirectoryUsecase) claim(ctx context.Context, uid, email, phoneRaw string, id Identity, listingID string, now int64) domain.ClaimResult {
	patch := map[string]interface{}{
		"claimedUid": uid,
		"claimedAt":  now,
		"updatedAt":  now,
	}
	setIfPresent(patch, "contactEmail", email)
	setIfPresent(patch, "contactPhone", phoneRaw)
	setIfPresent(patch, "buyerName", id.ListingName)
	setIfPresent(patch, "city", id.City)
	setIfPresent(patch, "state", id.State)
	setIfPresent(patch, "zip", id.Zip)
	if id.Fulfillment.IsValid() {
		patch["fulfillment"] = string(id.Fulfillment)
	}

	err := uc.store.Update(ctx, domain.CollectionDirectoryBuyers, listingID, patch)
	if err == nil {
		publish(ctx, uc.events, uc.logger, domain.SubjectDirectoryListingClaimed, domain.DirectoryListingEvent{
			ListingID: listingID, UID: uid, At: now,
		})
		return domain.ClaimResult{Outcome: domain.OutcomeClaimed, ListingID: listingID}
	}
	if !errors.Is(err, domain.ErrAccessDenied) {
		return failed(listingID, storeError("claim listing", err))
	}

	uc.logger.Info("Claim denied by store policy, filing claim request", zap.String("listing_id", listingID), zap.String("uid", uid))
	return uc.requestClaim(ctx, uid, email, phoneRaw, id, listingID, now)
}

// requestClaim records a pending claim for an operator to review. The listing
// itself is left untouched.
func (uc *DirectoryUsecase) requestClaim(ctx context.Context, uid, email, phoneRaw string, id Identity, listingID string, now int64) domain.ClaimResult {
	claim := domain.ClaimRequest{
		ID:               uc.store.GenerateID(domain.CollectionDirectoryClaims),
		DirectoryBuyerID: listingID,
		RequesterUID:     uid,
		RequesterEmail:   email,
		RequesterPhone:   phoneRaw,
		RequesterName:    strings.TrimSpace(id.ListingName),
		City:             strings.TrimSpace(id.City),
		State:            strings.TrimSpace(id.State),
		Zip:              strings.TrimSpace(id.Zip),
		Fulfillment:      id.Fulfillment,
		CreatedAt:        now,
		Status:           domain.ClaimStatusPending,
	}
	if err := uc.store.Write(ctx, domain.CollectionDirectoryClaims, claim.ID, record.EncodeClaimRequest(claim)); err != nil {
		return failed(listingID, storeError("file claim request", err))
	}
	publish(ctx, uc.events, uc.logger, domain.SubjectDirectoryClaimRequested, domain.ClaimRequestedEvent{
		ClaimRequestID: claim.ID, DirectoryBuyerID: listingID, RequesterUID: uid, At: now,
	})
	return domain.ClaimResult{Outcome: domain.OutcomePendingClaimCreated, ListingID: listingID, ClaimRequestID: claim.ID}
}

// CreateDirectoryBuyerInput is an operator-seeded listing. Every field is optional.
type CreateDirectoryBuyerInput struct {
	BuyerName    string
	City         string
	State        string
	Zip          string
	Fulfillment  domain.Fulfillment
	ContactPhone string
	ContactEmail string
	Website      string
	Note         string
	Premium      bool
	CreatedByUID string
}

// CreateDirectoryBuyer writes a claimable listing seeded by an operator and
// returns its id.
func (uc *DirectoryUsecase) CreateDirectoryBuyer(ctx context.Context, in CreateDirectoryBuyerInput) (string, error) {
	ctx, span := tracer.Start(ctx, "DirectoryUsecase.CreateDirectoryBuyer")
	defer span.End()

	name := strings.TrimSpace(in.BuyerName)
	if name == "" {
		name = "Unknown Buyer"
	}
	phone, _ := normalize.Phone(in.ContactPhone)
	email, _ := normalize.Email(in.ContactEmail)
	buyer := domain.DirectoryBuyer{
		ID:              uc.store.GenerateID(domain.CollectionDirectoryBuyers),
		BuyerName:       name,
		City:            strings.TrimSpace(in.City),
		State:           strings.TrimSpace(in.State),
		Zip:             strings.TrimSpace(in.Zip),
		Fulfillment:     fulfillmentOrPickup(in.Fulfillment),
		ContactPhone:    strings.TrimSpace(in.ContactPhone),
		ContactEmail:    strings.TrimSpace(in.ContactEmail),
		Website:         strings.TrimSpace(in.Website),
		Note:            strings.TrimSpace(in.Note),
		Premium:         in.Premium,
		CreatedAt:       uc.now(),
		CreatedByAdmin:  true,
		CreatedByUID:    strings.TrimSpace(in.CreatedByUID),
		NormalizedPhone: phone,
		NormalizedEmail: email,
	}
	if err := uc.store.Write(ctx, domain.CollectionDirectoryBuyers, buyer.ID, record.EncodeDirectoryBuyer(buyer)); err != nil {
		uc.logger.Error("Failed to create directory buyer", zap.Error(err))
		span.SetStatus(codes.Error, err.Error())
		return "", storeError("create directory buyer", err)
	}

	uc.logger.Info("Directory buyer created", zap.String("listing_id", buyer.ID))
	publish(ctx, uc.events, uc.logger, domain.SubjectDirectoryListingCreated, domain.DirectoryListingEvent{
		ListingID: buyer.ID, UID: buyer.CreatedByUID, CreatedByAdmin: true, At: buyer.CreatedAt,
	})
	return buyer.ID, nil
}

func failed(listingID string, err error) domain.ClaimResult {
	return domain.ClaimResult{Outcome: domain.OutcomeFailed, ListingID: listingID, Err: err}
}

func fulfillmentOrPickup(f domain.Fulfillment) domain.Fulfillment {
	if f.IsValid() {
		return f
	}
	return domain.FulfillmentPickup
}

func setIfPresent(patch map[string]interface{}, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		patch[key] = v
	}
}
