package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/record"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"go.uber.org/zap"
)

// AccountUsecase owns users/{uid} records and the registration-time
// directory link.
type AccountUsecase struct {
	store     domain.RecordStore
	roles     domain.RoleCache
	directory *DirectoryUsecase
	logger    *logger.Logger
	now       func() int64
}

// NewAccountUsecase creates an AccountUsecase. roles may be nil.
func NewAccountUsecase(store domain.RecordStore, roles domain.RoleCache, directory *DirectoryUsecase, log *logger.Logger) *AccountUsecase {
	return &AccountUsecase{
		store:     store,
		roles:     roles,
		directory: directory,
		logger:    log.Named("AccountUsecase"),
		now:       nowMillis,
	}
}

// RegisterInput is a freshly authenticated account.
type RegisterInput struct {
	UID      string
	Email    string
	Role     domain.UserRole
	Identity *Identity
}

// RegisterResult carries the stored profile and, when an identity was
// supplied, the outcome of the directory upsert.
type RegisterResult struct {
	Profile   domain.UserProfile
	Directory *domain.ClaimResult
	// Warning is set when the directory step failed; registration still succeeded.
	Warning string
}

// Register writes the user record, then links a directory listing when an
// identity is given. Only the user record write can fail the call.
func (uc *AccountUsecase) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	ctx, span := tracer.Start(ctx, "AccountUsecase.Register")
	defer span.End()

	uid := strings.TrimSpace(in.UID)
	email := strings.TrimSpace(in.Email)
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", domain.ErrInvalidInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	profile := domain.UserProfile{
		UID:       uid,
		Email:     email,
		Role:      registrationRole(in.Role),
		CreatedAt: uc.now(),
	}
	if err := uc.store.Write(ctx, domain.CollectionUsers, uid, record.EncodeUserProfile(profile)); err != nil {
		uc.logger.Error("Failed to write user record", zap.String("uid", uid), zap.Error(err))
		span.RecordError(err)
		return nil, storeError("write user", err)
	}
	uc.cacheRole(ctx, uid, profile.Role)
	uc.logger.Info("User registered", zap.String("uid", uid), zap.String("role", string(profile.Role)))

	result := &RegisterResult{Profile: profile}
	if in.Identity == nil || uc.directory == nil {
		return result, nil
	}

	claim := uc.directory.UpsertForUser(ctx, UpsertInput{UID: uid, Email: email, Identity: *in.Identity})
	result.Directory = &claim
	if !claim.Succeeded() {
		result.Warning = fmt.Sprintf("directory listing was not linked: %v", claim.Err)
		uc.logger.Warn("Directory upsert failed during registration", zap.String("uid", uid), zap.Error(claim.Err))
	}
	return result, nil
}

// registrationRole limits self-service registration to the marketplace
// roles; staff roles are assigned out of band.
func registrationRole(chosen domain.UserRole) domain.UserRole {
	switch chosen {
	case domain.RoleSeller, domain.RoleBuyer, domain.RoleWholesaler:
		return chosen
	}
	return domain.RoleSeller
}

// EnsureProfile returns the stored profile, creating a seller profile for
// accounts that signed in through a federated provider without registering.
func (uc *AccountUsecase) EnsureProfile(ctx context.Context, uid, email string) (*domain.UserProfile, error) {
	rec, err := uc.store.Get(ctx, domain.CollectionUsers, uid)
	if err == nil {
		profile := record.DecodeUserProfile(rec)
		uc.cacheRole(ctx, uid, profile.Role)
		return &profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, storeError("get user", err)
	}

	profile := domain.UserProfile{UID: uid, Email: strings.TrimSpace(email), Role: domain.RoleSeller, CreatedAt: uc.now()}
	if err := uc.store.Write(ctx, domain.CollectionUsers, uid, record.EncodeUserProfile(profile)); err != nil {
		return nil, storeError("write user", err)
	}
	uc.cacheRole(ctx, uid, profile.Role)
	uc.logger.Info("Created default profile", zap.String("uid", uid))
	return &profile, nil
}

// RoleOf returns the account role of uid. An empty uid is a guest; a missing
// or unreadable record yields seller. The error is returned alongside the
// fallback so callers can log it.
func (uc *AccountUsecase) RoleOf(ctx context.Context, uid string) (domain.UserRole, error) {
	if uid == "" {
		return domain.RoleGuest, nil
	}
	if uc.roles != nil {
		role, ok, err := uc.roles.GetRole(ctx, uid)
		if err != nil {
			uc.logger.Warn("Role cache read failed", zap.String("uid", uid), zap.Error(err))
		} else if ok {
			return role, nil
		}
	}

	rec, err := uc.store.Get(ctx, domain.CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RoleSeller, nil
		}
		return domain.RoleSeller, storeError("get user role", err)
	}
	role := record.DecodeUserProfile(rec).Role
	uc.cacheRole(ctx, uid, role)
	return role, nil
}

func (uc *AccountUsecase) cacheRole(ctx context.Context, uid string, role domain.UserRole) {
	if uc.roles == nil {
		return
	}
	if err := uc.roles.SetRole(ctx, uid, role); err != nil {
		uc.logger.Warn("Role cache write failed", zap.String("uid", uid), zap.Error(err))
	}
}
