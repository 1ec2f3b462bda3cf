package usecase

import (
	"context"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/stretchr/testify/mock"
)

type MockRecordStore struct{ mock.Mock }

func (m *MockRecordStore) Subscribe(ctx context.Context, collection, orderField string) (domain.Subscription, error) {
	args := m.Called(ctx, collection, orderField)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Subscription), args.Error(1)
}
func (m *MockRecordStore) Get(ctx context.Context, collection, id string) (domain.Record, error) {
	args := m.Called(ctx, collection, id)
	return args.Get(0).(domain.Record), args.Error(1)
}
func (m *MockRecordStore) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]domain.Record, error) {
	args := m.Called(ctx, collection, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}
func (m *MockRecordStore) Write(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}
func (m *MockRecordStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}
func (m *MockRecordStore) GenerateID(collection string) string {
	args := m.Called(collection)
	return args.String(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockImageStorage struct{ mock.Mock }

func (m *MockImageStorage) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, objectKey, data, contentType)
	return args.String(0), args.Error(1)
}

type MockRoleCache struct{ mock.Mock }

func (m *MockRoleCache) GetRole(ctx context.Context, uid string) (domain.UserRole, bool, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(domain.UserRole), args.Bool(1), args.Error(2)
}
func (m *MockRoleCache) SetRole(ctx context.Context, uid string, role domain.UserRole) error {
	args := m.Called(ctx, uid, role)
	return args.Error(0)
}
