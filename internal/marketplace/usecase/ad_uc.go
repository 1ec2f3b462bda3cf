package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/record"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AdUsecase posts ads and attaches their images.
type AdUsecase struct {
	store   domain.RecordStore
	images  domain.ImageStorage
	events  domain.EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
	now     func() int64
}

// NewAdUsecase creates an AdUsecase. images, events and m may be nil.
func NewAdUsecase(store domain.RecordStore, images domain.ImageStorage, events domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *AdUsecase {
	return &AdUsecase{
		store:   store,
		images:  images,
		events:  events,
		metrics: m,
		logger:  log.Named("AdUsecase"),
		now:     nowMillis,
	}
}

// CreateAdInput holds what the posting wizard collects.
type CreateAdInput struct {
	Title        string
	ProductType  string
	Category     domain.AdCategory
	City         string
	State        string
	Zip          string
	Price        float64
	BuyerName    string
	ContactEmail string
	ContactPhone string
	Note         string
	Premium      bool
	// PostingRole is honored only for guests; accounts post under their role.
	PostingRole domain.PostingRole
	OwnerUID    string
	OwnerRole   domain.UserRole
}

// CreateAd validates and writes a new ad, returning it with its id.
func (uc *AdUsecase) CreateAd(ctx context.Context, in CreateAdInput) (*domain.Ad, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.CreateAd")
	defer span.End()

	ad := domain.Ad{
		Title:        strings.TrimSpace(in.Title),
		ProductType:  strings.TrimSpace(in.ProductType),
		Category:     in.Category,
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Zip:          strings.TrimSpace(in.Zip),
		Price:        in.Price,
		BuyerName:    strings.TrimSpace(in.BuyerName),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Note:         strings.TrimSpace(in.Note),
		Premium:      in.Premium,
		OwnerUID:     strings.TrimSpace(in.OwnerUID),
	}
	if err := validateAd(ad); err != nil {
		uc.logger.Info("Rejected ad", zap.Error(err))
		return nil, err
	}
	if !ad.Category.IsValid() {
		ad.Category = domain.CategoryTestStrips
	}
	ad.PostingRole = postingRoleFor(ad.OwnerUID, in.OwnerRole, in.PostingRole)
	if ad.BuyerName == "" {
		ad.BuyerName = ad.ContactEmail
	}

	ad.ID = uc.store.GenerateID(domain.CollectionAds)
	ad.CreatedAt = uc.now()
	span.SetAttributes(attribute.String("ad.id", ad.ID))

	if err := uc.store.Write(ctx, domain.CollectionAds, ad.ID, record.EncodeAd(ad)); err != nil {
		uc.logger.Error("Failed to write ad", zap.String("ad_id", ad.ID), zap.Error(err))
		span.RecordError(err)
		return nil, storeError("create ad", err)
	}

	uc.metrics.AdCreated()
	publish(ctx, uc.events, uc.logger, domain.SubjectAdCreated, domain.AdCreatedEvent{
		AdID:        ad.ID,
		OwnerUID:    ad.OwnerUID,
		Category:    ad.Category,
		PostingRole: ad.PostingRole,
		Zip:         ad.Zip,
		Price:       ad.Price,
		CreatedAt:   ad.CreatedAt,
	})
	uc.logger.Info("Ad created", zap.String("ad_id", ad.ID), zap.String("posting_role", string(ad.PostingRole)))
	return &ad, nil
}

func validateAd(ad domain.Ad) error {
	if ad.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidAd)
	}
	if !(ad.Price > 0) {
		return fmt.Errorf("%w: price must be greater than zero", domain.ErrInvalidAd)
	}
	if !ad.HasContact() {
		return fmt.Errorf("%w: a contact email or phone is required", domain.ErrInvalidAd)
	}
	return nil
}

// postingRoleFor picks the role an ad is posted under. Signed-in accounts
// post under their account role; guests choose, defaulting to buyer.
func postingRoleFor(ownerUID string, accountRole domain.UserRole, chosen domain.PostingRole) domain.PostingRole {
	if ownerUID != "" {
		return domain.PostingRoleFor(accountRole)
	}
	if chosen.IsValid() {
		return chosen
	}
	return domain.PostingRoleBuyer
}

// ImageUpload is one file submitted with an ad.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// UploadAdImages stores each file and returns the URLs of those that made
// it. A failing file is logged and skipped.
func (uc *AdUsecase) UploadAdImages(ctx context.Context, adID, ownerUID string, files []ImageUpload) ([]string, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.UploadAdImages")
	defer span.End()

	if strings.TrimSpace(adID) == "" {
		return nil, fmt.Errorf("%w: ad id is required", domain.ErrInvalidInput)
	}
	if len(files) == 0 {
		return nil, nil
	}
	if uc.images == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", domain.ErrStoreUnavailable)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		key := imageObjectKey(adID, f.FileName)
		contentType := f.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(f.Data)
		}

		url, err := uc.images.Upload(ctx, key, f.Data, contentType)
		if err != nil {
			uc.logger.Warn("Image upload failed, skipping", zap.String("ad_id", adID), zap.String("file", f.FileName), zap.Error(err))
			continue
		}
		urls = append(urls, url)

		meta := record.EncodeAdImageMeta(adID, ownerUID, url, key, uc.now())
		if err := uc.store.Write(ctx, domain.CollectionAdImages, uc.store.GenerateID(domain.CollectionAdImages), meta); err != nil {
			uc.logger.Warn("Failed to record image metadata", zap.String("ad_id", adID), zap.String("path", key), zap.Error(err))
		}
	}

	uc.metrics.ImagesUploaded(len(urls))
	span.SetAttributes(attribute.Int("images.uploaded", len(urls)), attribute.Int("images.submitted", len(files)))
	return urls, nil
}

// AttachImages sets the ad's image list with the first URL as thumbnail.
// Nothing is written for an empty list.
func (uc *AdUsecase) AttachImages(ctx context.Context, adID string, urls []string) error {
	ctx, span := tracer.Start(ctx, "AdUsecase.AttachImages")
	defer span.End()

	if strings.TrimSpace(adID) == "" || len(urls) == 0 {
		return nil
	}
	if err := uc.store.Update(ctx, domain.CollectionAds, adID, record.EncodeAdImages(urls)); err != nil {
		uc.logger.Error("Failed to attach images", zap.String("ad_id", adID), zap.Error(err))
		return storeError("attach images", err)
	}

	publish(ctx, uc.events, uc.logger, domain.SubjectAdImagesAttached, domain.AdImagesAttachedEvent{
		AdID: adID, MainImageURL: urls[0], ImageURLs: urls,
	})
	return nil
}

// CheckOwner fails with domain.ErrAccessDenied unless uid posted the ad.
// Ads posted without an account cannot be changed through an account.
func (uc *AdUsecase) CheckOwner(ctx context.Context, adID, uid string) error {
	rec, err := uc.store.Get(ctx, domain.CollectionAds, adID)
	if err != nil {
		return storeError("get ad", err)
	}
	ad := record.DecodeAd(rec)
	if ad.OwnerUID == "" || ad.OwnerUID != uid {
		uc.logger.Warn("Ad ownership check failed", zap.String("ad_id", adID), zap.String("uid", uid))
		return fmt.Errorf("%w: ad %s is not owned by caller", domain.ErrAccessDenied, adID)
	}
	return nil
}
