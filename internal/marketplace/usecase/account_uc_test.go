package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/store/memory"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/record"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountUsecase(store domain.RecordStore, roles domain.RoleCache) *AccountUsecase {
	uc := NewAccountUsecase(store, roles, newDirectoryUsecase(store, nil, nil), logger.NewNop())
	uc.now = func() int64 { return fixedNow }
	return uc
}

func TestRegister_WritesProfileAndLinksDirectory(t *testing.T) {
	store := memory.NewStore(nil, logger.NewNop())
	uc := newAccountUsecase(store, nil)

	res, err := uc.Register(context.Background(), RegisterInput{
		UID: "u1", Email: " buyer@example.com ", Role: domain.RoleBuyer,
		Identity: &Identity{ListingName: "Buyer One", Phone: "555-111-2222", City: "Waco", State: "TX"},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	require.NotNil(t, res.Directory)
	assert.Equal(t, domain.OutcomeCreated, res.Directory.Outcome)

	rec, err := store.Get(context.Background(), domain.CollectionUsers, "u1")
	require.NoError(t, err)
	profile := record.DecodeUserProfile(rec)
	assert.Equal(t, "buyer@example.com", profile.Email)
	assert.Equal(t, domain.RoleBuyer, profile.Role)
	assert.Equal(t, fixedNow, profile.CreatedAt)
}

func TestRegister_StaffRolesAreNotSelfAssigned(t *testing.T) {
	store := memory.NewStore(nil, logger.NewNop())
	uc := newAccountUsecase(store, nil)

	res, err := uc.Register(context.Background(), RegisterInput{UID: "u1", Email: "x@y.z", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, res.Profile.Role)
	assert.Nil(t, res.Directory)
}

func TestRegister_DirectoryFailureIsWarning(t *testing.T) {
	store := new(MockRecordStore)
	store.On("Write", mock.Anything, domain.CollectionUsers, "u1", mock.Anything).Return(nil)
	store.On("QueryByField", mock.Anything, domain.CollectionDirectoryBuyers, mock.Anything, mock.Anything).Return(nil, errors.New("down"))
	uc := newAccountUsecase(store, nil)

	res, err := uc.Register(context.Background(), RegisterInput{UID: "u1", Email: "x@y.z", Identity: &Identity{Phone: "5551234567"}})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailed, res.Directory.Outcome)
	assert.Contains(t, res.Warning, "directory listing was not linked")
}

func TestRegister_UserWriteFailure(t *testing.T) {
	store := new(MockRecordStore)
	store.On("Write", mock.Anything, domain.CollectionUsers, "u1", mock.Anything).Return(errors.New("down"))
	uc := newAccountUsecase(store, nil)

	_, err := uc.Register(context.Background(), RegisterInput{UID: "u1", Email: "x@y.z", Identity: &Identity{Phone: "5551234567"}})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	store.AssertNotCalled(t, "QueryByField", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_RequiresUIDAndEmail(t *testing.T) {
	uc := newAccountUsecase(new(MockRecordStore), nil)
	_, err := uc.Register(context.Background(), RegisterInput{Email: "x@y.z"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Register(context.Background(), RegisterInput{UID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoleOf(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(nil, logger.NewNop())
	require.NoError(t, store.Write(ctx, domain.CollectionUsers, "w1", map[string]interface{}{"email": "w@x.y", "role": "wholesaler"}))
	require.NoError(t, store.Write(ctx, domain.CollectionUsers, "odd", map[string]interface{}{"email": "o@x.y", "role": "superuser"}))
	uc := newAccountUsecase(store, nil)

	role, err := uc.RoleOf(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, role)

	role, err = uc.RoleOf(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleWholesaler, role)

	role, err = uc.RoleOf(ctx, "odd")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, role)

	role, err = uc.RoleOf(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, role)
}

func TestRoleOf_UsesCache(t *testing.T) {
	store := new(MockRecordStore)
	roles := new(MockRoleCache)
	roles.On("GetRole", mock.Anything, "u1").Return(domain.RoleModerator, true, nil)
	uc := newAccountUsecase(store, roles)

	role, err := uc.RoleOf(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, role)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoleOf_CacheMissFillsCache(t *testing.T) {
	store := new(MockRecordStore)
	store.On("Get", mock.Anything, domain.CollectionUsers, "u1").
		Return(domain.Record{ID: "u1", Fields: map[string]interface{}{"role": "buyer"}}, nil)
	roles := new(MockRoleCache)
	roles.On("GetRole", mock.Anything, "u1").Return(domain.RoleGuest, false, nil)
	roles.On("SetRole", mock.Anything, "u1", domain.RoleBuyer).Return(nil).Once()
	uc := newAccountUsecase(store, roles)

	role, err := uc.RoleOf(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBuyer, role)
	roles.AssertExpectations(t)
}

func TestRoleOf_StoreFailureFallsBackToSeller(t *testing.T) {
	store := new(MockRecordStore)
	store.On("Get", mock.Anything, domain.CollectionUsers, "u1").Return(domain.Record{}, errors.New("down"))
	uc := newAccountUsecase(store, nil)

	role, err := uc.RoleOf(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, domain.RoleSeller, role)
}

func TestEnsureProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(nil, logger.NewNop())
	uc := newAccountUsecase(store, nil)

	created, err := uc.EnsureProfile(ctx, "g1", "g@mail.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, created.Role)

	require.NoError(t, store.Update(ctx, domain.CollectionUsers, "g1", map[string]interface{}{"role": "buyer"}))
	again, err := uc.EnsureProfile(ctx, "g1", "other@mail.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBuyer, again.Role)
	assert.Equal(t, "g@mail.com", again.Email)
}
