package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/store/memory"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/record"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdUsecase(store domain.RecordStore, images domain.ImageStorage, events domain.EventPublisher, m *metrics.MetricsManager) *AdUsecase {
	uc := NewAdUsecase(store, images, events, m, logger.NewNop())
	uc.now = func() int64 { return fixedNow }
	return uc
}

func validAdInput() CreateAdInput {
	return CreateAdInput{
		Title:        "  Box of 100 strips ",
		Category:     domain.CategoryTestStrips,
		Zip:          "73301",
		Price:        35,
		ContactEmail: "seller@example.com",
	}
}

func TestCreateAd_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateAdInput)
	}{
		{"blank title", func(in *CreateAdInput) { in.Title = "   " }},
		{"zero price", func(in *CreateAdInput) { in.Price = 0 }},
		{"negative price", func(in *CreateAdInput) { in.Price = -5 }},
		{"no contact", func(in *CreateAdInput) { in.ContactEmail = " "; in.ContactPhone = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockRecordStore)
			uc := newAdUsecase(store, nil, nil, nil)
			in := validAdInput()
			tt.mutate(&in)

			_, err := uc.CreateAd(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidAd)
			store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateAd_WritesAndPublishes(t *testing.T) {
	store := memory.NewStore(nil, logger.NewNop())
	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, domain.SubjectAdCreated, mock.MatchedBy(func(e domain.AdCreatedEvent) bool {
		return e.PostingRole == domain.PostingRoleWholesaler && e.Price == 35
	})).Return(nil).Once()
	m := metrics.NewMetricsManager("ads_test")
	uc := newAdUsecase(store, nil, events, m)

	in := validAdInput()
	in.OwnerUID = "u1"
	in.OwnerRole = domain.RoleWholesaler
	in.PostingRole = domain.PostingRoleBuyer

	ad, err := uc.CreateAd(context.Background(), in)
	require.NoError(t, err)

	rec, err := store.Get(context.Background(), domain.CollectionAds, ad.ID)
	require.NoError(t, err)
	stored := record.DecodeAd(rec)
	assert.Equal(t, "Box of 100 strips", stored.Title)
	assert.Equal(t, domain.PostingRoleWholesaler, stored.PostingRole)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	assert.Equal(t, "u1", stored.OwnerUID)
	assert.NotContains(t, rec.Fields, "note")
	assert.NotContains(t, rec.Fields, "contactPhone")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdsCreatedTotal))
	events.AssertExpectations(t)
}

func TestCreateAd_PublishFailureIsNotFatal(t *testing.T) {
	store := memory.NewStore(nil, logger.NewNop())
	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("nats down"))
	uc := newAdUsecase(store, nil, events, nil)

	_, err := uc.CreateAd(context.Background(), validAdInput())
	assert.NoError(t, err)
}

func TestPostingRoleFor(t *testing.T) {
	assert.Equal(t, domain.PostingRoleSeller, postingRoleFor("u1", domain.RoleAdmin, domain.PostingRoleBuyer))
	assert.Equal(t, domain.PostingRoleBuyer, postingRoleFor("u1", domain.RoleBuyer, ""))
	assert.Equal(t, domain.PostingRoleWholesaler, postingRoleFor("", domain.RoleGuest, domain.PostingRoleWholesaler))
	assert.Equal(t, domain.PostingRoleBuyer, postingRoleFor("", domain.RoleGuest, "bogus"))
}

func TestUploadAdImages_SkipsFailedFiles(t *testing.T) {
	store := memory.NewStore(nil, logger.NewNop())
	images := new(MockImageStorage)
	images.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool { return strings.Contains(k, "-first-meter.png") }), mock.Anything, "image/png").
		Return("https://cdn/first.png", nil)
	images.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool { return strings.Contains(k, "-broken.jpg") }), mock.Anything, mock.Anything).
		Return("", errors.New("upload refused"))
	uc := newAdUsecase(store, images, nil, nil)

	urls, err := uc.UploadAdImages(context.Background(), "ad1", "u1", []ImageUpload{
		{FileName: "First Meter.PNG", ContentType: "image/png", Data: []byte("png")},
		{FileName: "broken.jpg", Data: []byte("jpg")},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/first.png"}, urls)

	meta, err := store.QueryByField(context.Background(), domain.CollectionAdImages, "adId", "ad1")
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "https://cdn/first.png", meta[0].Fields["downloadUrl"])
	assert.Equal(t, "u1", meta[0].Fields["ownerUid"])
	images.AssertExpectations(t)
}

func TestUploadAdImages_Guards(t *testing.T) {
	uc := newAdUsecase(new(MockRecordStore), nil, nil, nil)

	_, err := uc.UploadAdImages(context.Background(), "", "", []ImageUpload{{FileName: "a.png"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	urls, err := uc.UploadAdImages(context.Background(), "ad1", "", nil)
	assert.NoError(t, err)
	assert.Empty(t, urls)

	_, err = uc.UploadAdImages(context.Background(), "ad1", "", []ImageUpload{{FileName: "a.png"}})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestAttachImages(t *testing.T) {
	store := memory.NewStore(nil, logger.NewNop())
	require.NoError(t, store.Write(context.Background(), domain.CollectionAds, "ad1", map[string]interface{}{"title": "Meter"}))
	uc := newAdUsecase(store, nil, nil, nil)

	require.NoError(t, uc.AttachImages(context.Background(), "ad1", []string{"u1", "u2"}))

	rec, err := store.Get(context.Background(), domain.CollectionAds, "ad1")
	require.NoError(t, err)
	ad := record.DecodeAd(rec)
	assert.Equal(t, "u1", ad.MainImageURL)
	assert.Equal(t, []string{"u1", "u2"}, ad.ImageURLs)
	assert.Equal(t, "Meter", ad.Title)
}

func TestAttachImages_EmptyIsNoop(t *testing.T) {
	store := new(MockRecordStore)
	uc := newAdUsecase(store, nil, nil, nil)

	assert.NoError(t, uc.AttachImages(context.Background(), "ad1", nil))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImageObjectKey(t *testing.T) {
	key := imageObjectKey("ad1", "My Strips (2).JPG")
	assert.True(t, strings.HasPrefix(key, "adImages/ad1/"))
	assert.True(t, strings.HasSuffix(key, "-my-strips-2.jpg"))

	assert.True(t, strings.HasSuffix(imageObjectKey("ad1", "!!!.png"), "-image.png"))
}

func TestCheckOwner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(nil, logger.NewNop())
	require.NoError(t, store.Write(ctx, domain.CollectionAds, "ad-1", map[string]interface{}{"title": "Meter", "ownerUid": "u1"}))
	require.NoError(t, store.Write(ctx, domain.CollectionAds, "ad-guest", map[string]interface{}{"title": "Strips"}))
	uc := newAdUsecase(store, nil, nil, nil)

	assert.NoError(t, uc.CheckOwner(ctx, "ad-1", "u1"))
	assert.ErrorIs(t, uc.CheckOwner(ctx, "ad-1", "u2"), domain.ErrAccessDenied)
	assert.ErrorIs(t, uc.CheckOwner(ctx, "ad-guest", "u1"), domain.ErrAccessDenied)
	assert.ErrorIs(t, uc.CheckOwner(ctx, "missing", "u1"), domain.ErrNotFound)
}
