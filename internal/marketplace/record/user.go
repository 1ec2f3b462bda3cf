package record

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
)

// DecodeUserProfile converts a stored users record. Unknown roles become seller.
func DecodeUserProfile(rec domain.Record) domain.UserProfile {
	f := rec.Fields
	if f == nil {
		f = map[string]interface{}{}
	}
	return domain.UserProfile{
		UID:       rec.ID,
		Email:     stringField(f, "email"),
		Role:      domain.NormalizeRole(stringField(f, "role")),
		CreatedAt: int64Field(f, "createdAt"),
	}
}

// EncodeUserProfile builds the users payload.
func EncodeUserProfile(p domain.UserProfile) map[string]interface{} {
	return map[string]interface{}{
		"email":     p.Email,
		"role":      string(domain.NormalizeRole(string(p.Role))),
		"createdAt": p.CreatedAt,
	}
}
