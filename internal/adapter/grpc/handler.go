package grpc

import (
	"context"
	"errors"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/wire"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/usecase"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/middleware"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MarketplaceHandler implements MarketplaceServer on top of the usecases.
type MarketplaceHandler struct {
	feed      *usecase.FeedUsecase
	directory *usecase.DirectoryUsecase
	ads       *usecase.AdUsecase
	accounts  *usecase.AccountUsecase
	logger    *logger.Logger
}

var _ MarketplaceServer = (*MarketplaceHandler)(nil)

// NewMarketplaceHandler creates a new gRPC handler for the marketplace service.
func NewMarketplaceHandler(feed *usecase.FeedUsecase, directory *usecase.DirectoryUsecase, ads *usecase.AdUsecase, accounts *usecase.AccountUsecase, log *logger.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{
		feed:      feed,
		directory: directory,
		ads:       ads,
		accounts:  accounts,
		logger:    log.Named("MarketplaceGRPCHandler"),
	}
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAd), errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrAbsentField):
		return status.Errorf(codes.InvalidArgument, "%s: %v", action, err)
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s: %v", action, err)
	case errors.Is(err, domain.ErrAccessDenied):
		return status.Errorf(codes.PermissionDenied, "%s: %v", action, err)
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, domain.ErrSubscriptionClosed):
		return status.Errorf(codes.Unavailable, "%s: %v", action, err)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Errorf(codes.Internal, "failed to %s: %v", action, err)
}

func requireUser(ctx context.Context) (string, error) {
	uid := middleware.UserIDFromContext(ctx)
	if uid == "" {
		return "", status.Errorf(codes.Unauthenticated, "user authentication required")
	}
	return uid, nil
}

// viewerRole resolves the caller's stored role; guests get RoleGuest.
func (h *MarketplaceHandler) viewerRole(ctx context.Context) domain.UserRole {
	uid := middleware.UserIDFromContext(ctx)
	role, err := h.accounts.RoleOf(ctx, uid)
	if err != nil {
		h.logger.Warn("Role lookup failed, using fallback", zap.String("user_id", uid), zap.Error(err))
	}
	return role
}

func (h *MarketplaceHandler) ListAds(ctx context.Context, req *ListAdsRequest) (*ListAdsResponse, error) {
	ads, err := h.feed.ListAds(ctx, usecase.AdQuery{
		Filters: req.filters(),
		Viewer:  h.viewerRole(ctx),
		ShowAll: req.ShowAll,
	})
	if err != nil {
		return nil, toStatus(err, "list ads")
	}
	return &ListAdsResponse{Ads: wire.FromAds(ads)}, nil
}

func (h *MarketplaceHandler) ListDirectory(ctx context.Context, req *ListDirectoryRequest) (*ListDirectoryResponse, error) {
	view, err := h.feed.ListDirectory(ctx, req.filters())
	if err != nil {
		return nil, toStatus(err, "list directory")
	}
	return toDirectoryResponse(view), nil
}

func (h *MarketplaceHandler) FindDirectoryListing(ctx context.Context, req *FindDirectoryListingRequest) (*FindDirectoryListingResponse, error) {
	buyer, err := h.directory.FindByPhoneOrEmail(ctx, usecase.MatchQuery{Phone: req.Phone, Email: req.Email})
	if err != nil {
		return nil, toStatus(err, "find directory listing")
	}
	if buyer == nil {
		return &FindDirectoryListingResponse{}, nil
	}
	listing := wire.FromDirectoryBuyer(*buyer)
	return &FindDirectoryListingResponse{Found: true, Listing: &listing}, nil
}

// WatchAds streams the filtered ads feed until the client goes away or the
// store subscription ends.
func (h *MarketplaceHandler) WatchAds(req *WatchAdsRequest, stream grpc.ServerStreamingServer[ListAdsResponse]) error {
	ctx := stream.Context()
	session, err := h.feed.OpenAds(ctx)
	if err != nil {
		return toStatus(err, "watch ads")
	}
	defer session.Close()

	query := usecase.AdQuery{Filters: req.filters(), Viewer: h.viewerRole(ctx), ShowAll: req.ShowAll}
	if err := session.WaitReady(ctx); err != nil {
		return toStatus(err, "watch ads")
	}
	for {
		ads, changed := session.Current()
		if err := stream.Send(&ListAdsResponse{Ads: wire.FromAds(usecase.FilterAds(ads, query))}); err != nil {
			return err
		}
		select {
		case <-changed:
		case <-session.Done():
			return status.Error(codes.Unavailable, "ads subscription ended")
		case <-ctx.Done():
			return nil
		}
	}
}

// WatchDirectory streams the filtered directory feed.
func (h *MarketplaceHandler) WatchDirectory(req *WatchDirectoryRequest, stream grpc.ServerStreamingServer[ListDirectoryResponse]) error {
	ctx := stream.Context()
	session, err := h.feed.OpenDirectory(ctx)
	if err != nil {
		return toStatus(err, "watch directory")
	}
	defer session.Close()

	filters := req.filters()
	if err := session.WaitReady(ctx); err != nil {
		return toStatus(err, "watch directory")
	}
	for {
		buyers, changed := session.Current()
		if err := stream.Send(toDirectoryResponse(usecase.FilterDirectory(buyers, filters))); err != nil {
			return err
		}
		select {
		case <-changed:
		case <-session.Done():
			return status.Error(codes.Unavailable, "directory subscription ended")
		case <-ctx.Done():
			return nil
		}
	}
}

func (h *MarketplaceHandler) CreateAd(ctx context.Context, req *CreateAdRequest) (*CreateAdResponse, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	ad, err := h.ads.CreateAd(ctx, usecase.CreateAdInput{
		Title:        req.Title,
		ProductType:  req.ProductType,
		Category:     domain.AdCategory(req.Category),
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Price:        req.Price,
		BuyerName:    req.BuyerName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Note:         req.Note,
		Premium:      req.Premium,
		PostingRole:  domain.PostingRole(req.PostingRole),
		OwnerUID:     uid,
		OwnerRole:    h.viewerRole(ctx),
	})
	if err != nil {
		return nil, toStatus(err, "create ad")
	}
	return &CreateAdResponse{Ad: wire.FromAd(*ad)}, nil
}

// UploadAdImages stores the images of an ad the caller owns and attaches
// those that were stored.
func (h *MarketplaceHandler) UploadAdImages(ctx context.Context, req *UploadAdImagesRequest) (*UploadAdImagesResponse, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.AdID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "ad id is required")
	}
	if err := h.ads.CheckOwner(ctx, req.AdID, uid); err != nil {
		return nil, toStatus(err, "upload ad images")
	}

	files := make([]usecase.ImageUpload, 0, len(req.Images))
	for _, img := range req.Images {
		files = append(files, usecase.ImageUpload{FileName: img.FileName, ContentType: img.ContentType, Data: img.Data})
	}
	urls, err := h.ads.UploadAdImages(ctx, req.AdID, uid, files)
	if err != nil {
		return nil, toStatus(err, "upload ad images")
	}
	if len(urls) == 0 {
		return &UploadAdImagesResponse{URLs: []string{}}, nil
	}
	if err := h.ads.AttachImages(ctx, req.AdID, urls); err != nil {
		return nil, toStatus(err, "attach ad images")
	}
	return &UploadAdImagesResponse{URLs: urls, Attached: true}, nil
}

func (h *MarketplaceHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	email := req.Email
	if email == "" {
		email = middleware.EmailFromContext(ctx)
	}

	res, err := h.accounts.Register(ctx, usecase.RegisterInput{
		UID:      uid,
		Email:    email,
		Role:     domain.UserRole(req.Role),
		Identity: req.Identity.toUsecase(),
	})
	if err != nil {
		return nil, toStatus(err, "register")
	}
	return &RegisterResponse{
		UID:       res.Profile.UID,
		Email:     res.Profile.Email,
		Role:      string(res.Profile.Role),
		CreatedAt: res.Profile.CreatedAt,
		Directory: toClaimResult(res.Directory),
		Warning:   res.Warning,
	}, nil
}

func (h *MarketplaceHandler) GetMyRole(ctx context.Context, _ *GetMyRoleRequest) (*GetMyRoleResponse, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	role, err := h.accounts.RoleOf(ctx, uid)
	if err != nil {
		return nil, toStatus(err, "get role")
	}
	return &GetMyRoleResponse{UID: uid, Role: string(role)}, nil
}

func (h *MarketplaceHandler) CreateDirectoryBuyer(ctx context.Context, req *CreateDirectoryBuyerRequest) (*CreateDirectoryBuyerResponse, error) {
	id, err := h.directory.CreateDirectoryBuyer(ctx, usecase.CreateDirectoryBuyerInput{
		BuyerName:    req.BuyerName,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Fulfillment:  domain.Fulfillment(req.Fulfillment),
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Website:      req.Website,
		Note:         req.Note,
		Premium:      req.Premium,
		CreatedByUID: middleware.UserIDFromContext(ctx),
	})
	if err != nil {
		return nil, toStatus(err, "create directory buyer")
	}
	return &CreateDirectoryBuyerResponse{ID: id}, nil
}

func (h *MarketplaceHandler) EnsureDirectoryListing(ctx context.Context, req *EnsureDirectoryListingRequest) (*EnsureDirectoryListingResponse, error) {
	buyer, err := h.directory.EnsureDirectoryListing(ctx, usecase.EnsureInput{
		BuyerName:      req.BuyerName,
		City:           req.City,
		State:          req.State,
		Zip:            req.Zip,
		Fulfillment:    domain.Fulfillment(req.Fulfillment),
		Phone:          req.Phone,
		Email:          req.Email,
		Website:        req.Website,
		CreatedByAdmin: req.CreatedByAdmin,
		OwnerUID:       req.OwnerUID,
	})
	if err != nil {
		return nil, toStatus(err, "ensure directory listing")
	}
	return &EnsureDirectoryListingResponse{Listing: wire.FromDirectoryBuyer(*buyer)}, nil
}
