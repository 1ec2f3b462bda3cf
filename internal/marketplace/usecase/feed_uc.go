package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/feed"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/record"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
	"go.uber.org/zap"
)

const feedOrderField = "createdAt"

type (
	AdFeedSession        = FeedSession[domain.Ad]
	DirectoryFeedSession = FeedSession[domain.DirectoryBuyer]
)

// FeedUsecase serves filtered views of the live ads and directory feeds.
// Start opens the shared sessions used by one-shot listings; streams open
// their own sessions. A shared session whose subscription ends is reopened
// on the next listing.
type FeedUsecase struct {
	store   domain.RecordStore
	metrics *metrics.MetricsManager
	logger  *logger.Logger

	mu        sync.Mutex
	base      context.Context
	closed    bool
	ads       *AdFeedSession
	directory *DirectoryFeedSession
}

func NewFeedUsecase(store domain.RecordStore, m *metrics.MetricsManager, log *logger.Logger) *FeedUsecase {
	return &FeedUsecase{store: store, metrics: m, logger: log.Named("FeedUsecase")}
}

// Start opens the shared ads and directory sessions. They stay open until
// Close or until ctx ends.
func (uc *FeedUsecase) Start(ctx context.Context) error {
	ads, err := uc.OpenAds(ctx)
	if err != nil {
		return err
	}
	directory, err := uc.OpenDirectory(ctx)
	if err != nil {
		ads.Close()
		return err
	}
	uc.mu.Lock()
	uc.base, uc.closed, uc.ads, uc.directory = ctx, false, ads, directory
	uc.mu.Unlock()
	uc.logger.Info("Feed sessions started")
	return nil
}

// Close closes the shared sessions.
func (uc *FeedUsecase) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.closed = true
	if uc.ads != nil {
		uc.ads.Close()
	}
	if uc.directory != nil {
		uc.directory.Close()
	}
}

// OpenAds subscribes to the ads collection.
func (uc *FeedUsecase) OpenAds(ctx context.Context) (*AdFeedSession, error) {
	sub, err := uc.store.Subscribe(ctx, domain.CollectionAds, feedOrderField)
	if err != nil {
		uc.logger.Error("Failed to subscribe to ads", zap.Error(err))
		return nil, storeError("subscribe ads", err)
	}
	return newFeedSession(sub, domain.CollectionAds, record.DecodeAds, uc.metrics), nil
}

// OpenDirectory subscribes to the directory collection.
func (uc *FeedUsecase) OpenDirectory(ctx context.Context) (*DirectoryFeedSession, error) {
	sub, err := uc.store.Subscribe(ctx, domain.CollectionDirectoryBuyers, feedOrderField)
	if err != nil {
		uc.logger.Error("Failed to subscribe to directory", zap.Error(err))
		return nil, storeError("subscribe directory", err)
	}
	return newFeedSession(sub, domain.CollectionDirectoryBuyers, record.DecodeDirectoryBuyers, uc.metrics), nil
}

// AdQuery is a viewer's ad feed request.
type AdQuery struct {
	Filters domain.AdFilters
	Viewer  domain.UserRole
	ShowAll bool
}

// FilterAds applies the role visibility policy and then the filters.
func FilterAds(ads []domain.Ad, q AdQuery) []domain.Ad {
	return feed.ApplyAdFilters(feed.VisibleAds(ads, q.Viewer, q.ShowAll), q.Filters)
}

// DirectoryView is the filtered directory with sponsored listings split out.
type DirectoryView struct {
	Premium []domain.DirectoryBuyer
	Regular []domain.DirectoryBuyer
}

// FilterDirectory applies the filters and splits premium listings first.
func FilterDirectory(buyers []domain.DirectoryBuyer, f domain.DirectoryFilters) DirectoryView {
	premium, regular := feed.SplitPremium(feed.ApplyDirectoryFilters(buyers, f))
	return DirectoryView{Premium: premium, Regular: regular}
}

func (uc *FeedUsecase) sharedAds() (*AdFeedSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.ads == nil {
		return nil, fmt.Errorf("%w: ads feed not started", domain.ErrStoreUnavailable)
	}
	if uc.ads.Ended() && !uc.closed {
		uc.logger.Warn("Shared ads feed ended, resubscribing")
		ads, err := uc.OpenAds(uc.base)
		if err != nil {
			return nil, err
		}
		uc.ads = ads
	}
	return uc.ads, nil
}

func (uc *FeedUsecase) sharedDirectory() (*DirectoryFeedSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.directory == nil {
		return nil, fmt.Errorf("%w: directory feed not started", domain.ErrStoreUnavailable)
	}
	if uc.directory.Ended() && !uc.closed {
		uc.logger.Warn("Shared directory feed ended, resubscribing")
		directory, err := uc.OpenDirectory(uc.base)
		if err != nil {
			return nil, err
		}
		uc.directory = directory
	}
	return uc.directory, nil
}

// ListAds filters the current ads snapshot of the shared session.
func (uc *FeedUsecase) ListAds(ctx context.Context, q AdQuery) ([]domain.Ad, error) {
	session, err := uc.sharedAds()
	if err != nil {
		return nil, err
	}
	if err := session.WaitReady(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	ads, _ := session.Current()
	return FilterAds(ads, q), nil
}

// ListDirectory filters the current directory snapshot of the shared session.
func (uc *FeedUsecase) ListDirectory(ctx context.Context, f domain.DirectoryFilters) (DirectoryView, error) {
	session, err := uc.sharedDirectory()
	if err != nil {
		return DirectoryView{}, err
	}
	if err := session.WaitReady(ctx); err != nil {
		return DirectoryView{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	buyers, _ := session.Current()
	return FilterDirectory(buyers, f), nil
}
