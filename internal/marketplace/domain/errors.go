package domain

import "errors"

var (
	// ErrNotFound indicates that a requested record does not exist in the store.
	ErrNotFound = errors.New("record not found")
	// ErrAccessDenied indicates the store's access policy rejected a write or update.
	ErrAccessDenied = errors.New("access denied by store policy")
	// ErrStoreUnavailable wraps transport or infrastructure failures of the record store.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrAbsentField is returned when a payload carries an explicit nil value.
	ErrAbsentField = errors.New("record contains an absent field marker")
	// ErrInvalidAd indicates an ad failed its creation invariants.
	ErrInvalidAd = errors.New("invalid ad")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrSubscriptionClosed is returned when reading from a closed feed session.
	ErrSubscriptionClosed = errors.New("subscription closed")
)
