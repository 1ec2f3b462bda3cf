package domain

import (
	"context"
	"fmt"
)

// Collection names used by the marketplace.
const (
	CollectionAds             = "ads"
	CollectionDirectoryBuyers = "directoryBuyers"
	CollectionDirectoryClaims = "directoryClaims"
	CollectionUsers           = "users"
	CollectionAdImages        = "adImages"
)

// Record is a loosely-typed store record. Fields hold plain Go values:
// string, bool, int64, float64, []interface{} and map[string]interface{}.
type Record struct {
	ID     string
	Fields map[string]interface{}
}

// Snapshot is the full current content of a collection.
type Snapshot []Record

// Subscription delivers full snapshots until Unsubscribe is called.
type Subscription interface {
	Updates() <-chan Snapshot
	Unsubscribe()
}

// RecordStore is the gateway to the realtime document store.
// Write and Update reject payloads that contain nil values with ErrAbsentField.
// Update may fail with ErrAccessDenied.
type RecordStore interface {
	Subscribe(ctx context.Context, collection, orderField string) (Subscription, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error)
	Write(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	GenerateID(collection string) string
}

// EventPublisher publishes domain events; failures are never fatal to callers.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ImageStorage stores an uploaded image and returns its public URL.
type ImageStorage interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
}

// RoleCache caches account roles by uid.
type RoleCache interface {
	GetRole(ctx context.Context, uid string) (UserRole, bool, error)
	SetRole(ctx context.Context, uid string, role UserRole) error
}

// CheckNoAbsentFields returns ErrAbsentField when any value is nil.
func CheckNoAbsentFields(fields map[string]interface{}) error {
	for k, v := range fields {
		if v == nil {
			return fmt.Errorf("%w: %s", ErrAbsentField, k)
		}
	}
	return nil
}

// AccessPolicy mirrors the security rules of the document store. Gateways
// consult it before mutating and fail with ErrAccessDenied when it refuses.
type AccessPolicy interface {
	AllowWrite(collection, id string) bool
	AllowUpdate(collection string, current Record) bool
}

// AllowAll permits every mutation.
type AllowAll struct{}

func (AllowAll) AllowWrite(string, string) bool { return true }
func (AllowAll) AllowUpdate(string, Record) bool { return true }

// DenyUpdates refuses updates on the listed collections. Writes of new
// records are still allowed.
type DenyUpdates struct {
	Collections []string
}

func (DenyUpdates) AllowWrite(string, string) bool { return true }

func (p DenyUpdates) AllowUpdate(collection string, _ Record) bool {
	for _, c := range p.Collections {
		if c == collection {
			return false
		}
	}
	return true
}
